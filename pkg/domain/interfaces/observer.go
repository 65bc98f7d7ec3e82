package interfaces

import (
	"context"

	"github.com/secmon-lab/rosterform/pkg/domain/model"
)

// SubmitObserver is notified after a form was submitted and accepted
type SubmitObserver interface {
	OnSubmit(ctx context.Context, submission *model.Submission) error
}

// SubmitObserverFunc adapts a function to SubmitObserver
type SubmitObserverFunc func(ctx context.Context, submission *model.Submission) error

// OnSubmit calls f
func (f SubmitObserverFunc) OnSubmit(ctx context.Context, submission *model.Submission) error {
	return f(ctx, submission)
}
