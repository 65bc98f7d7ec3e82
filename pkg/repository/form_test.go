package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/repository/memory"
)

func runFormRepositoryTest(t *testing.T, newRepo func(t *testing.T) interfaces.Repository) {
	t.Helper()

	t.Run("Create then Get returns a copy", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sid := types.NewSessionID()

		gt.NoError(t, repo.Form().Create(ctx, sid, model.NewForm())).Required()

		got, err := repo.Form().Get(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Number(t, got.Len()).Equal(1)

		got.Add()
		again, err := repo.Form().Get(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Number(t, again.Len()).Equal(1)
	})

	t.Run("Create twice fails", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sid := types.NewSessionID()

		gt.NoError(t, repo.Form().Create(ctx, sid, model.NewForm())).Required()
		gt.Error(t, repo.Form().Create(ctx, sid, model.NewForm())).Is(memory.ErrAlreadyExists)
	})

	t.Run("Get unknown session", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.Form().Get(context.Background(), types.NewSessionID())
		gt.Error(t, err).Is(memory.ErrNotFound)
	})

	t.Run("Update commits on success", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sid := types.NewSessionID()
		gt.NoError(t, repo.Form().Create(ctx, sid, model.NewForm())).Required()

		updated, err := repo.Form().Update(ctx, sid, func(f *model.Form) error {
			f.Add()
			return nil
		})
		gt.NoError(t, err).Required()
		gt.Number(t, updated.Len()).Equal(2)

		got, err := repo.Form().Get(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Number(t, got.Len()).Equal(2)
	})

	t.Run("Update discards changes on error", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sid := types.NewSessionID()
		gt.NoError(t, repo.Form().Create(ctx, sid, model.NewForm())).Required()

		failure := goerr.New("boom")
		_, err := repo.Form().Update(ctx, sid, func(f *model.Form) error {
			f.Add()
			f.Add()
			return failure
		})
		gt.Error(t, err).Is(failure)

		got, err := repo.Form().Get(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Number(t, got.Len()).Equal(1)
	})

	t.Run("concurrent updates are serialized", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sid := types.NewSessionID()
		gt.NoError(t, repo.Form().Create(ctx, sid, model.NewForm())).Required()

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Form().Update(ctx, sid, func(f *model.Form) error {
					f.Add()
					return nil
				})
				if err != nil {
					t.Errorf("update failed: %v", err)
				}
			}()
		}
		wg.Wait()

		got, err := repo.Form().Get(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Number(t, got.Len()).Equal(51)
	})

	t.Run("Delete removes the session", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		sid := types.NewSessionID()
		gt.NoError(t, repo.Form().Create(ctx, sid, model.NewForm())).Required()

		gt.NoError(t, repo.Form().Delete(ctx, sid)).Required()
		_, err := repo.Form().Get(ctx, sid)
		gt.Error(t, err).Is(memory.ErrNotFound)
		gt.Error(t, repo.Form().Delete(ctx, sid)).Is(memory.ErrNotFound)
	})
}

func TestMemoryFormRepository(t *testing.T) {
	runFormRepositoryTest(t, func(t *testing.T) interfaces.Repository {
		return memory.New()
	})
}

func TestMemoryFormRepository_Sweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 7, 12, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	repo := memory.New(memory.WithClock(clock))

	idle := types.NewSessionID()
	active := types.NewSessionID()
	gt.NoError(t, repo.Form().Create(ctx, idle, model.NewForm())).Required()
	gt.NoError(t, repo.Form().Create(ctx, active, model.NewForm())).Required()

	now = now.Add(20 * time.Minute)
	_, err := repo.Form().Get(ctx, active)
	gt.NoError(t, err).Required()

	removed, err := repo.Form().Sweep(ctx, now.Add(-10*time.Minute))
	gt.NoError(t, err).Required()
	gt.Number(t, removed).Equal(1)

	_, err = repo.Form().Get(ctx, idle)
	gt.Error(t, err).Is(memory.ErrNotFound)
	_, err = repo.Form().Get(ctx, active)
	gt.NoError(t, err)
}
