package models

import "time"

// Citizen is the authoritative person record keyed by a government-issued
// identifier. The engine only ever reads citizens; writes happen through
// seeding/administrative tooling.
type Citizen struct {
	ID          int64
	PhoneNumber string
	CitizenID   string
	FirstName   string
	LastName    string
	Email       string
	Address     string
	DateOfBirth *time.Time
	IsVerified  bool
	CreatedAt   time.Time
}

// DisplayName returns the name used in prompts and responses.
func (c *Citizen) DisplayName() string {
	return c.FirstName + " " + c.LastName
}
