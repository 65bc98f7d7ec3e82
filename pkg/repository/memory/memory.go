package memory

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
)

// ErrNotFound is returned when a session does not exist
var ErrNotFound = interfaces.ErrNotFound

// ErrAlreadyExists is returned when creating a session that already exists
var ErrAlreadyExists = goerr.New("already exists")

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	form *formRepository
}

var _ interfaces.Repository = &Memory{}

// Option configures Memory
type Option func(*Memory)

// WithClock replaces the time source used for session access times
func WithClock(now func() time.Time) Option {
	return func(m *Memory) {
		m.form.now = now
	}
}

func New(opts ...Option) *Memory {
	m := &Memory{
		form: newFormRepository(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory) Form() interfaces.FormRepository {
	return m.form
}

// Close is a no-op for the in-memory backend
func (m *Memory) Close() error {
	return nil
}
