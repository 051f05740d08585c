package models

import "time"

// IdentityLink binds a phone number to a citizen identity. At most one row
// exists per phone number. Linked=true implies the OTP fields are cleared;
// an unlinked row with an expired code is inert and must be re-initiated.
type IdentityLink struct {
	ID           int64
	PhoneNumber  string
	CitizenID    string
	OTPCode      *string
	OTPExpiresAt *time.Time
	Linked       bool
	LinkedAt     *time.Time
	CreatedAt    time.Time
}

// PendingCodeValid reports whether the row carries a code that has not
// expired at the given instant.
func (l *IdentityLink) PendingCodeValid(now time.Time) bool {
	return !l.Linked && l.OTPCode != nil && l.OTPExpiresAt != nil && now.Before(*l.OTPExpiresAt)
}
