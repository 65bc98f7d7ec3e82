package interfaces

import (
	"context"
	"time"

	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
)

// FormRepository stores one Form per session
type FormRepository interface {
	// Create stores a new form. It fails if the session already exists.
	Create(ctx context.Context, sessionID types.SessionID, form *model.Form) error

	// Get returns a copy of the form of the session
	Get(ctx context.Context, sessionID types.SessionID) (*model.Form, error)

	// Update runs fn on a private copy of the form while holding the session
	// exclusively, and stores the copy only when fn returns nil. The stored
	// form is returned.
	Update(ctx context.Context, sessionID types.SessionID, fn func(form *model.Form) error) (*model.Form, error)

	// Delete removes the session
	Delete(ctx context.Context, sessionID types.SessionID) error

	// Sweep removes sessions not accessed since idleBefore and returns how
	// many were removed
	Sweep(ctx context.Context, idleBefore time.Time) (int, error)
}
