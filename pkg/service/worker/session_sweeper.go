package worker

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
	"github.com/secmon-lab/rosterform/pkg/utils/errutil"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
)

// SessionSweeper periodically evicts form sessions that have been idle for
// longer than the configured TTL
//
// Architecture assumptions:
// - Single server instance; sessions live in process memory
type SessionSweeper struct {
	repo     interfaces.Repository
	ttl      time.Duration
	interval time.Duration
	now      func() time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// SweeperOption configures SessionSweeper
type SweeperOption func(*SessionSweeper)

// WithSweeperClock replaces the time source used to compute the idle cutoff
func WithSweeperClock(now func() time.Time) SweeperOption {
	return func(w *SessionSweeper) {
		w.now = now
	}
}

// NewSessionSweeper creates a new worker evicting sessions idle for ttl,
// checking every interval
func NewSessionSweeper(repo interfaces.Repository, ttl, interval time.Duration, opts ...SweeperOption) *SessionSweeper {
	w := &SessionSweeper{
		repo:     repo,
		ttl:      ttl,
		interval: interval,
		now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Start begins the background sweep loop
func (w *SessionSweeper) Start(ctx context.Context) error {
	if w.ttl <= 0 {
		return goerr.New("session TTL must be positive", goerr.V("ttl", w.ttl.String()))
	}
	if w.interval <= 0 {
		return goerr.New("sweep interval must be positive", goerr.V("interval", w.interval.String()))
	}

	logging.Default().Info("Session sweeper starting",
		"ttl", w.ttl.String(),
		"interval", w.interval.String())

	go w.run(ctx)

	return nil
}

// Stop signals the worker to stop and waits for completion
func (w *SessionSweeper) Stop() {
	logging.Default().Info("Session sweeper stopping")
	close(w.stopCh)
	<-w.doneCh
	logging.Default().Info("Session sweeper stopped")
}

// run is the main worker loop (runs in goroutine)
func (w *SessionSweeper) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				_ = errutil.Handle(ctx, err, "Session sweep failed (will retry next interval)")
			}

		case <-w.stopCh:
			return

		case <-ctx.Done():
			logging.Default().Info("Session sweeper context cancelled")
			return
		}
	}
}

// Sweep performs a single eviction pass and returns the number of removed sessions
func (w *SessionSweeper) Sweep(ctx context.Context) (int, error) {
	cutoff := w.now().Add(-w.ttl)
	removed, err := w.repo.Form().Sweep(ctx, cutoff)
	if err != nil {
		return 0, goerr.Wrap(err, "failed to sweep idle sessions", goerr.V("cutoff", cutoff))
	}

	if removed > 0 {
		logging.Default().Info("Idle sessions evicted", "count", removed)
	}
	return removed, nil
}
