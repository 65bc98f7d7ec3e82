package usecase_test

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/rosterform/pkg/domain/interfaces"
	"github.com/secmon-lab/rosterform/pkg/domain/model"
	"github.com/secmon-lab/rosterform/pkg/domain/types"
	"github.com/secmon-lab/rosterform/pkg/repository/memory"
	"github.com/secmon-lab/rosterform/pkg/usecase"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
)

type recordingObserver struct {
	mu          sync.Mutex
	submissions []*model.Submission
	err         error
}

func (o *recordingObserver) OnSubmit(ctx context.Context, s *model.Submission) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.submissions = append(o.submissions, s)
	return o.err
}

func (o *recordingObserver) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.submissions)
}

func openForm(t *testing.T, uc *usecase.UseCases) (types.SessionID, *model.Form) {
	t.Helper()
	sid, form, err := uc.Form.Open(context.Background(), "")
	gt.NoError(t, err).Required()
	return sid, form
}

func TestFormUseCase_Open(t *testing.T) {
	ctx := context.Background()

	t.Run("empty session creates a new form", func(t *testing.T) {
		uc := usecase.New(memory.New())
		sid, form, err := uc.Form.Open(ctx, "")
		gt.NoError(t, err).Required()
		gt.NoError(t, sid.Validate())
		gt.Number(t, form.Len()).Equal(1)
	})

	t.Run("existing session is reused", func(t *testing.T) {
		uc := usecase.New(memory.New())
		sid, _ := openForm(t, uc)
		_, _, err := uc.Form.AddField(ctx, sid)
		gt.NoError(t, err).Required()

		again, form, err := uc.Form.Open(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Value(t, again).Equal(sid)
		gt.Number(t, form.Len()).Equal(2)
	})

	t.Run("unknown session gets a new ID", func(t *testing.T) {
		uc := usecase.New(memory.New())
		unknown := types.NewSessionID()
		sid, _, err := uc.Form.Open(ctx, unknown)
		gt.NoError(t, err).Required()
		gt.Value(t, sid).NotEqual(unknown)
	})

	t.Run("malformed session gets a new ID", func(t *testing.T) {
		uc := usecase.New(memory.New())
		sid, _, err := uc.Form.Open(ctx, "garbage")
		gt.NoError(t, err).Required()
		gt.NoError(t, sid.Validate())
	})
}

func TestFormUseCase_SessionNotFound(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	sid := types.NewSessionID()

	_, err := uc.Form.Get(ctx, sid)
	gt.Error(t, err).Is(usecase.ErrSessionNotFound)
	_, _, err = uc.Form.AddField(ctx, sid)
	gt.Error(t, err).Is(usecase.ErrSessionNotFound)
	_, err = uc.Form.RemoveField(ctx, sid, 1)
	gt.Error(t, err).Is(usecase.ErrSessionNotFound)
	_, _, err = uc.Form.Validate(ctx, sid)
	gt.Error(t, err).Is(usecase.ErrSessionNotFound)
	_, _, err = uc.Form.Submit(ctx, sid)
	gt.Error(t, err).Is(usecase.ErrSessionNotFound)
}

func TestFormUseCase_AddRemove(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	sid, form := openForm(t, uc)
	first := form.Fields()[0].ID

	form, added, err := uc.Form.AddField(ctx, sid)
	gt.NoError(t, err).Required()
	gt.Number(t, form.Len()).Equal(2)
	gt.Value(t, added.ID).NotEqual(first)

	form, err = uc.Form.RemoveField(ctx, sid, added.ID)
	gt.NoError(t, err).Required()
	gt.Number(t, form.Len()).Equal(1)

	_, err = uc.Form.RemoveField(ctx, sid, 12345)
	gt.NoError(t, err)

	_, err = uc.Form.RemoveField(ctx, sid, first)
	gt.Error(t, err).Is(model.ErrLastField)
}

func TestFormUseCase_UpdateFields(t *testing.T) {
	ctx := context.Background()

	t.Run("applies all updates", func(t *testing.T) {
		uc := usecase.New(memory.New())
		sid, form := openForm(t, uc)
		id := form.Fields()[0].ID

		form, err := uc.Form.UpdateFields(ctx, sid,
			model.SetName{ID: id, Name: "Alice"},
			model.SetRole{ID: id, Role: types.RoleTeacher},
		)
		gt.NoError(t, err).Required()
		gt.Value(t, form.Fields()[0]).Equal(model.Field{ID: id, Name: "Alice", Role: types.RoleTeacher})
	})

	t.Run("is all or nothing", func(t *testing.T) {
		uc := usecase.New(memory.New())
		sid, form := openForm(t, uc)
		id := form.Fields()[0].ID

		_, err := uc.Form.UpdateFields(ctx, sid,
			model.SetName{ID: id, Name: "Alice"},
			model.SetName{ID: 999, Name: "Ghost"},
		)
		gt.Error(t, err).Is(model.ErrFieldNotFound)

		form, err = uc.Form.Get(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Value(t, form.Fields()[0].Name).Equal("")
	})
}

func TestFormUseCase_Submit(t *testing.T) {
	ctx := context.Background()
	submittedAt := time.Date(2025, 7, 12, 9, 30, 0, 0, time.UTC)

	t.Run("invalid form never reaches the observer", func(t *testing.T) {
		obs := &recordingObserver{}
		uc := usecase.New(memory.New(), usecase.WithSubmitObserver(obs))
		sid, _ := openForm(t, uc)

		form, result, err := uc.Form.Submit(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Accepted).False()
		gt.Number(t, len(form.Errors())).Equal(1)
		gt.Number(t, obs.count()).Equal(0)
	})

	t.Run("valid form is handed to every observer", func(t *testing.T) {
		obs1 := &recordingObserver{}
		obs2 := &recordingObserver{}
		uc := usecase.New(memory.New(),
			usecase.WithSubmitObserver(obs1),
			usecase.WithSubmitObserver(obs2),
			usecase.WithClock(func() time.Time { return submittedAt }),
		)
		sid, form := openForm(t, uc)
		id := form.Fields()[0].ID
		_, err := uc.Form.UpdateFields(ctx, sid,
			model.SetName{ID: id, Name: "Alice"},
			model.SetRole{ID: id, Role: types.RoleStaff},
		)
		gt.NoError(t, err).Required()

		form, result, err := uc.Form.Submit(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Accepted).True()
		gt.Number(t, form.Len()).Equal(1)

		gt.Number(t, obs1.count()).Equal(1)
		gt.Number(t, obs2.count()).Equal(1)
		got := obs1.submissions[0]
		gt.Value(t, got.SessionID).Equal(sid)
		gt.Value(t, got.SubmittedAt).Equal(submittedAt)
		gt.Value(t, got.Fields).Equal([]model.Field{{ID: id, Name: "Alice", Role: types.RoleStaff}})
	})

	t.Run("failing observer does not reject the submission", func(t *testing.T) {
		failing := &recordingObserver{err: goerr.New("slack is down")}
		after := &recordingObserver{}
		uc := usecase.New(memory.New(),
			usecase.WithSubmitObserver(failing),
			usecase.WithSubmitObserver(after),
		)
		sid, form := openForm(t, uc)
		id := form.Fields()[0].ID
		_, err := uc.Form.UpdateFields(ctx, sid,
			model.SetName{ID: id, Name: "Alice"},
			model.SetRole{ID: id, Role: types.RoleStudent},
		)
		gt.NoError(t, err).Required()

		_, result, err := uc.Form.Submit(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Accepted).True()
		gt.Number(t, after.count()).Equal(1)
	})

	t.Run("observer failure is logged through the error handler", func(t *testing.T) {
		var buf bytes.Buffer
		logCtx := logging.With(ctx, slog.New(slog.NewJSONHandler(&buf, nil)))

		failing := &recordingObserver{err: goerr.New("slack is down")}
		uc := usecase.New(memory.New(), usecase.WithSubmitObserver(failing))
		sid, form := openForm(t, uc)
		id := form.Fields()[0].ID
		_, err := uc.Form.UpdateFields(logCtx, sid,
			model.SetName{ID: id, Name: "Alice"},
			model.SetRole{ID: id, Role: types.RoleStudent},
		)
		gt.NoError(t, err).Required()

		_, result, err := uc.Form.Submit(logCtx, sid)
		gt.NoError(t, err).Required()
		gt.Bool(t, result.Accepted).True()
		gt.Number(t, failing.count()).Equal(1)

		out := buf.String()
		gt.String(t, out).Contains("submit observer failed")
		gt.String(t, out).Contains("slack is down")
		gt.String(t, out).Contains(sid.String())
	})

	t.Run("observer func adapter", func(t *testing.T) {
		called := 0
		obs := interfaces.SubmitObserverFunc(func(ctx context.Context, s *model.Submission) error {
			called++
			return nil
		})
		uc := usecase.New(memory.New(), usecase.WithSubmitObserver(obs))
		sid, form := openForm(t, uc)
		id := form.Fields()[0].ID
		_, err := uc.Form.UpdateFields(ctx, sid,
			model.SetName{ID: id, Name: "Alice"},
			model.SetRole{ID: id, Role: types.RoleStudent},
		)
		gt.NoError(t, err).Required()

		_, _, err = uc.Form.Submit(ctx, sid)
		gt.NoError(t, err).Required()
		gt.Number(t, called).Equal(1)
	})
}

func TestFormUseCase_Scenario(t *testing.T) {
	ctx := context.Background()
	uc := usecase.New(memory.New())
	sid, form := openForm(t, uc)
	id1 := form.Fields()[0].ID

	_, added, err := uc.Form.AddField(ctx, sid)
	gt.NoError(t, err).Required()
	id2 := added.ID

	_, err = uc.Form.UpdateFields(ctx, sid,
		model.SetName{ID: id1, Name: "Alice"},
		model.SetRole{ID: id1, Role: types.RoleTeacher},
		model.SetName{ID: id2, Name: "Bob"},
	)
	gt.NoError(t, err).Required()

	form, valid, err := uc.Form.Validate(ctx, sid)
	gt.NoError(t, err).Required()
	gt.Bool(t, valid).False()
	gt.Value(t, form.Errors()).Equal(model.ErrorMap{
		id2: {Role: model.MessageRoleRequired},
	})
}
