package notify

import (
	"context"

	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
)

// Logger writes every accepted submission to the structured log
type Logger struct{}

var _ interfaces.SubmitObserver = (*Logger)(nil)

// NewLogger creates a Logger observer
func NewLogger() *Logger {
	return &Logger{}
}

func (x *Logger) OnSubmit(ctx context.Context, submission *model.Submission) error {
	logging.From(ctx).Info("Form submitted successfully",
		"session_id", submission.SessionID,
		"submitted_at", submission.SubmittedAt,
		"count", len(submission.Fields),
		"fields", submission.Fields,
	)
	return nil
}
