package model

import (
	"time"

	"github.com/secmon-lab/rosterform/pkg/domain/types"
)

// Submission is the payload handed to submit observers after a form was
// accepted
type Submission struct {
	SessionID   types.SessionID `json:"session_id"`
	SubmittedAt time.Time       `json:"submitted_at"`
	Fields      []Field         `json:"fields"`
}
