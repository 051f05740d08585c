package models

import "time"

// ETaxAccount is a citizen's e-tax platform account: registration status,
// verification level and filing compliance.
type ETaxAccount struct {
	ID                int64
	CitizenID         string
	Status            string // active, suspended
	AccountType       string
	VerificationLevel string // verified, pending
	RegistrationDate  time.Time
	LastLogin         *time.Time
	PaymentMethods    []string
	TaxReturnsFiled   int
	LastFilingDate    *time.Time
	ComplianceScore   int
	CreatedAt         time.Time
}

// ComplianceLevel buckets the compliance score into the label shown to
// citizens.
func (a *ETaxAccount) ComplianceLevel() string {
	switch {
	case a.ComplianceScore >= 90:
		return "Excellent"
	case a.ComplianceScore >= 80:
		return "Bon"
	case a.ComplianceScore >= 70:
		return "Moyen"
	default:
		return "À améliorer"
	}
}
