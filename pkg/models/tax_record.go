package models

import "time"

// TaxRecord is a single tax line for a citizen (taxe foncière,
// professionnelle, ...). Amounts are in Congolese francs (CDF).
type TaxRecord struct {
	ID         int64
	CitizenID  string
	TaxType    string
	AmountDue  float64
	AmountPaid float64
	DueDate    *time.Time
	Status     string // paid, pending, overdue
	TaxYear    int
	CreatedAt  time.Time
}
