package slack_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/rosterform/pkg/service/slack"
	goslack "github.com/slack-go/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates service when token is provided", func(t *testing.T) {
		svc, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, svc).NotNil()
	})
}

func TestPostMessage(t *testing.T) {
	var mu sync.Mutex
	var gotChannel, gotText, gotBlocks string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat.postMessage" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		gotChannel = r.FormValue("channel")
		gotText = r.FormValue("text")
		gotBlocks = r.FormValue("blocks")
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok":      true,
			"channel": "C0123",
			"ts":      "1720776600.000100",
		})
	}))
	defer srv.Close()

	svc, err := slack.New("test-token", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	blocks := []goslack.Block{
		goslack.NewSectionBlock(goslack.NewTextBlockObject(goslack.MarkdownType, "*hello*", false, false), nil, nil),
	}
	ts, err := svc.PostMessage(context.Background(), "C0123", blocks, "hello")
	gt.NoError(t, err).Required()
	gt.Value(t, ts).Equal("1720776600.000100")

	mu.Lock()
	defer mu.Unlock()
	gt.Value(t, gotChannel).Equal("C0123")
	gt.Value(t, gotText).Equal("hello")
	gt.String(t, gotBlocks).Contains("*hello*")
}

func TestPostMessage_RequiresChannel(t *testing.T) {
	svc, err := slack.New("test-token")
	gt.NoError(t, err).Required()

	_, err = svc.PostMessage(context.Background(), "", nil, "hello")
	gt.Value(t, err).NotNil()
}
