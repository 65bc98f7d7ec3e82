package usecase

import "errors"

// Sentinel errors for use case layer
var (
	// Not found errors
	ErrSessionNotFound = errors.New("form session not found")
)

// Context keys for error values
const (
	SessionIDKey = "session_id"
	FieldIDKey   = "field_id"
)
