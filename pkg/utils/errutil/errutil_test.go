package errutil_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/rosterform/pkg/utils/errutil"
	"github.com/secmon-lab/rosterform/pkg/utils/logging"
)

func TestHandleHTTP(t *testing.T) {
	t.Run("server error is logged with values", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
		rec := httptest.NewRecorder()

		errutil.HandleHTTP(ctx, rec, goerr.New("store exploded", goerr.V("session_id", "abc")), http.StatusInternalServerError)

		gt.Value(t, rec.Code).Equal(http.StatusInternalServerError)
		gt.String(t, rec.Body.String()).Contains("store exploded")
		gt.String(t, buf.String()).Contains(`"level":"ERROR"`)
		gt.String(t, buf.String()).Contains("session_id")
	})

	t.Run("client error is a warning", func(t *testing.T) {
		var buf bytes.Buffer
		ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))
		rec := httptest.NewRecorder()

		errutil.HandleHTTP(ctx, rec, goerr.New("bad field id"), http.StatusBadRequest)

		gt.Value(t, rec.Code).Equal(http.StatusBadRequest)
		gt.String(t, buf.String()).Contains(`"level":"WARN"`)
	})

	t.Run("nil error writes nothing", func(t *testing.T) {
		rec := httptest.NewRecorder()
		errutil.HandleHTTP(context.Background(), rec, nil, http.StatusInternalServerError)
		gt.Value(t, rec.Body.Len()).Equal(0)
	})
}

func TestHandle(t *testing.T) {
	var buf bytes.Buffer
	ctx := logging.With(context.Background(), slog.New(slog.NewJSONHandler(&buf, nil)))

	err := goerr.New("oops")
	gt.Value(t, errutil.Handle(ctx, err, "failed to do something")).Equal(error(err))
	gt.String(t, buf.String()).Contains("failed to do something")
	gt.Value(t, errutil.Handle(ctx, nil, "ignored")).Nil()
}
