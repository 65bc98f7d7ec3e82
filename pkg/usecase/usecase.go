package usecase

import (
	"time"

	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
)

type UseCases struct {
	repo      interfaces.Repository
	observers []interfaces.SubmitObserver
	now       func() time.Time
	Form      *FormUseCase
}

type Option func(*UseCases)

// WithSubmitObserver registers an observer notified of accepted submissions
func WithSubmitObserver(obs interfaces.SubmitObserver) Option {
	return func(uc *UseCases) {
		if obs != nil {
			uc.observers = append(uc.observers, obs)
		}
	}
}

// WithClock replaces the time source used for submission timestamps
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(repo interfaces.Repository, opts ...Option) *UseCases {
	uc := &UseCases{
		repo: repo,
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Form = NewFormUseCase(repo, uc.observers, uc.now)

	return uc
}
