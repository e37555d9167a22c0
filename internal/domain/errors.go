package domain

import "errors"

// Sentinel errors shared across services and repositories. Services wrap
// these with fmt.Errorf("%w: …") to attach a human-readable message;
// controllers dispatch on them with errors.Is.
var (
	// ErrNotFound means the referenced entity ID does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidInput means a validation failure: empty required field,
	// malformed email, non-future due date, duplicate or unresolved
	// assignee IDs.
	ErrInvalidInput = errors.New("invalid input")
)
