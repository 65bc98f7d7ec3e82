package types

import (
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

// SessionID identifies one form instance, usually one browser
type SessionID string

// NewSessionID generates a random SessionID
func NewSessionID() SessionID {
	return SessionID(uuid.NewString())
}

// Validate checks that the SessionID is a UUID
func (s SessionID) Validate() error {
	if s == "" {
		return goerr.New("session ID cannot be empty")
	}
	if _, err := uuid.Parse(string(s)); err != nil {
		return goerr.Wrap(err, "session ID must be a UUID", goerr.V("session_id", string(s)))
	}
	return nil
}

// String returns the string representation of SessionID
func (s SessionID) String() string {
	return string(s)
}
