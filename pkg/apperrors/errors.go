package apperrors

import "errors"

var (
	ErrNotFound       = errors.New("not found")
	ErrAlreadyExists  = errors.New("already exists")
	ErrUnknownCitizen = errors.New("unknown citizen")
	ErrNoPendingLink  = errors.New("no pending link")
	ErrCodeExpired    = errors.New("code expired")
	ErrCodeMismatch   = errors.New("code mismatch")
	// ErrOrphanedLink marks a data-integrity fault: a linked phone whose
	// citizen row is missing. Distinct from "not linked".
	ErrOrphanedLink = errors.New("linked phone has no citizen record")
)
