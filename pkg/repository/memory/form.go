package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
)

type formEntry struct {
	form       *model.Form
	lastAccess time.Time
}

type formRepository struct {
	mu    sync.Mutex
	forms map[types.SessionID]*formEntry
	now   func() time.Time
}

func newFormRepository() *formRepository {
	return &formRepository{
		forms: make(map[types.SessionID]*formEntry),
		now:   time.Now,
	}
}

func (r *formRepository) Create(ctx context.Context, sessionID types.SessionID, form *model.Form) error {
	if form == nil {
		return goerr.New("form is nil", goerr.V("session_id", sessionID))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[sessionID]; exists {
		return goerr.Wrap(ErrAlreadyExists, "session already exists", goerr.V("session_id", sessionID))
	}

	r.forms[sessionID] = &formEntry{
		form:       form.Clone(),
		lastAccess: r.now(),
	}
	return nil
}

func (r *formRepository) Get(ctx context.Context, sessionID types.SessionID) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.forms[sessionID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", sessionID))
	}
	entry.lastAccess = r.now()

	return entry.form.Clone(), nil
}

func (r *formRepository) Update(ctx context.Context, sessionID types.SessionID, fn func(form *model.Form) error) (*model.Form, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, exists := r.forms[sessionID]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", sessionID))
	}
	entry.lastAccess = r.now()

	working := entry.form.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}

	entry.form = working
	return working.Clone(), nil
}

func (r *formRepository) Delete(ctx context.Context, sessionID types.SessionID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.forms[sessionID]; !exists {
		return goerr.Wrap(ErrNotFound, "session not found", goerr.V("session_id", sessionID))
	}

	delete(r.forms, sessionID)
	return nil
}

func (r *formRepository) Sweep(ctx context.Context, idleBefore time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, entry := range r.forms {
		if entry.lastAccess.Before(idleBefore) {
			delete(r.forms, id)
			removed++
		}
	}
	return removed, nil
}
