package models

import "time"

// Procedure describes an administrative procedure (renouvellement de permis,
// demande de passeport, ...). Steps and RequiredDocuments are stored as JSON
// arrays in the database.
type Procedure struct {
	ID                int64
	Name              string
	Description       string
	Steps             []string
	RequiredDocuments []string
	EstimatedDuration string
	Cost              float64
	Department        string
	CreatedAt         time.Time
}

// ProcedureSummary is the lighter shape returned when no name fragment was
// supplied and the gateway lists common procedures instead.
type ProcedureSummary struct {
	Name        string
	Description string
}
