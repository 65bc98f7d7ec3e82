package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/utils/errutil"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
	"golang.org/x/sync/errgroup"
)

// FormUseCase runs the roster form operations against the form of one
// session. Every mutation goes through FormRepository.Update, so a session's
// form has a single writer at any time.
type FormUseCase struct {
	repo      interfaces.Repository
	observers []interfaces.SubmitObserver
	now       func() time.Time
}

func NewFormUseCase(repo interfaces.Repository, observers []interfaces.SubmitObserver, now func() time.Time) *FormUseCase {
	if now == nil {
		now = time.Now
	}
	return &FormUseCase{
		repo:      repo,
		observers: observers,
		now:       now,
	}
}

// Open returns the form of sessionID. When the session is empty, malformed or
// unknown, a new session holding a fresh form is created and its ID returned.
func (uc *FormUseCase) Open(ctx context.Context, sessionID types.SessionID) (types.SessionID, *model.Form, error) {
	if sessionID.Validate() == nil {
		form, err := uc.repo.Form().Get(ctx, sessionID)
		if err == nil {
			return sessionID, form, nil
		}
		if !errors.Is(err, interfaces.ErrNotFound) {
			return "", nil, goerr.Wrap(err, "failed to get form", goerr.V(SessionIDKey, sessionID))
		}
	}

	newID := types.NewSessionID()
	form := model.NewForm()
	if err := uc.repo.Form().Create(ctx, newID, form); err != nil {
		return "", nil, goerr.Wrap(err, "failed to create form", goerr.V(SessionIDKey, newID))
	}
	logging.From(ctx).Debug("form session created", "session_id", newID)

	return newID, form, nil
}

// Get returns the form of sessionID
func (uc *FormUseCase) Get(ctx context.Context, sessionID types.SessionID) (*model.Form, error) {
	form, err := uc.repo.Form().Get(ctx, sessionID)
	if err != nil {
		return nil, uc.wrapRepoErr(err, "failed to get form", sessionID)
	}
	return form, nil
}

// AddField appends an empty field and returns the form with the new field
func (uc *FormUseCase) AddField(ctx context.Context, sessionID types.SessionID) (*model.Form, model.Field, error) {
	var added model.Field
	form, err := uc.repo.Form().Update(ctx, sessionID, func(f *model.Form) error {
		added = f.Add()
		return nil
	})
	if err != nil {
		return nil, model.Field{}, uc.wrapRepoErr(err, "failed to add field", sessionID)
	}
	return form, added, nil
}

// RemoveField removes a field. Removing an unknown field is not an error.
func (uc *FormUseCase) RemoveField(ctx context.Context, sessionID types.SessionID, fieldID types.FieldID) (*model.Form, error) {
	form, err := uc.repo.Form().Update(ctx, sessionID, func(f *model.Form) error {
		return f.Remove(fieldID)
	})
	if err != nil {
		return nil, uc.wrapRepoErr(err, "failed to remove field", sessionID, goerr.V(FieldIDKey, fieldID))
	}
	return form, nil
}

// UpdateFields applies updates in order. Either all of them are applied or,
// if one fails, none is.
func (uc *FormUseCase) UpdateFields(ctx context.Context, sessionID types.SessionID, updates ...model.FieldUpdate) (*model.Form, error) {
	form, err := uc.repo.Form().Update(ctx, sessionID, func(f *model.Form) error {
		for _, u := range updates {
			if err := f.Apply(u); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, uc.wrapRepoErr(err, "failed to update fields", sessionID)
	}
	return form, nil
}

// Validate recomputes the errors of the form and reports whether it is valid
func (uc *FormUseCase) Validate(ctx context.Context, sessionID types.SessionID) (*model.Form, bool, error) {
	var valid bool
	form, err := uc.repo.Form().Update(ctx, sessionID, func(f *model.Form) error {
		valid = f.Validate()
		return nil
	})
	if err != nil {
		return nil, false, uc.wrapRepoErr(err, "failed to validate form", sessionID)
	}
	return form, valid, nil
}

// Submit validates the form and, when it is accepted, hands the fields to
// every observer concurrently and waits for them. A failing observer is
// logged; it does not reject the submission.
func (uc *FormUseCase) Submit(ctx context.Context, sessionID types.SessionID) (*model.Form, model.SubmitResult, error) {
	var result model.SubmitResult
	form, err := uc.repo.Form().Update(ctx, sessionID, func(f *model.Form) error {
		result = f.Submit()
		return nil
	})
	if err != nil {
		return nil, model.SubmitResult{}, uc.wrapRepoErr(err, "failed to submit form", sessionID)
	}

	logger := logging.From(ctx)
	if !result.Accepted {
		logger.Info("form has validation errors",
			"session_id", sessionID,
			"invalid_fields", len(result.Errors),
		)
		return form, result, nil
	}

	submission := &model.Submission{
		SessionID:   sessionID,
		SubmittedAt: uc.now().UTC(),
		Fields:      result.Fields,
	}
	var eg errgroup.Group
	for _, obs := range uc.observers {
		eg.Go(func() error {
			if err := obs.OnSubmit(ctx, submission); err != nil {
				_ = errutil.Handle(ctx, goerr.Wrap(err, "observer rejected submission", goerr.V(SessionIDKey, sessionID)), "submit observer failed")
			}
			return nil
		})
	}
	_ = eg.Wait()

	return form, result, nil
}

func (uc *FormUseCase) wrapRepoErr(err error, msg string, sessionID types.SessionID, values ...goerr.Option) error {
	opts := append([]goerr.Option{goerr.V(SessionIDKey, sessionID)}, values...)
	if errors.Is(err, interfaces.ErrNotFound) {
		return goerr.Wrap(ErrSessionNotFound, msg, opts...)
	}
	return goerr.Wrap(err, msg, opts...)
}
