package models

import (
	"time"

	"github.com/google/uuid"
)

// Message direction for a conversation turn.
const (
	DirectionIn  = "IN"
	DirectionOut = "OUT"
)

// ChatLog is one conversation turn: a single inbound or outbound message.
// Turns are append-only; the only permitted mutation is the in-place
// intent/confidence backfill on an inbound turn once classification has run.
type ChatLog struct {
	ID          uuid.UUID
	PhoneNumber string
	CitizenID   *string
	MessageText string
	Direction   string // DirectionIn or DirectionOut
	Intent      *string
	Confidence  *float64
	CreatedAt   time.Time
}
