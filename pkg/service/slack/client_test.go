package slack_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/slack"
)

func TestNew(t *testing.T) {
	t.Run("returns error when token is empty", func(t *testing.T) {
		_, err := slack.New("")
		gt.Value(t, err).NotNil()
	})

	t.Run("creates directory when token is provided", func(t *testing.T) {
		dir, err := slack.New("test-token")
		gt.NoError(t, err).Required()
		gt.Value(t, dir).NotNil()
	})
}

func newFakeSlack(t *testing.T, calls *int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if err := r.ParseForm(); err != nil {
			t.Errorf("failed to parse form: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.FormValue("user") {
		case "U_ACTIVE":
			_, _ = w.Write([]byte(`{"ok":true,"user":{"id":"U_ACTIVE","name":"active"}}`))
		case "U_BOT":
			_, _ = w.Write([]byte(`{"ok":true,"user":{"id":"U_BOT","name":"bot","is_bot":true}}`))
		case "U_GONE":
			_, _ = w.Write([]byte(`{"ok":true,"user":{"id":"U_GONE","name":"gone","deleted":true}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":false,"error":"user_not_found"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDirectoryExists(t *testing.T) {
	ctx := context.Background()
	var calls int32
	srv := newFakeSlack(t, &calls)

	dir, err := slack.New("xoxb-test", slack.WithAPIURL(srv.URL+"/"))
	gt.NoError(t, err).Required()

	t.Run("active member exists", func(t *testing.T) {
		ok, err := dir.Exists(ctx, "default", "U_ACTIVE")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
	})

	t.Run("bots and deleted users do not count", func(t *testing.T) {
		ok, err := dir.Exists(ctx, "default", "U_BOT")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).False()

		ok, err = dir.Exists(ctx, "default", "U_GONE")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).False()
	})

	t.Run("unknown user", func(t *testing.T) {
		ok, err := dir.Exists(ctx, "default", "U_NOBODY")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).False()
	})

	t.Run("lookups are cached", func(t *testing.T) {
		before := atomic.LoadInt32(&calls)
		ok, err := dir.Exists(ctx, "default", "U_ACTIVE")
		gt.NoError(t, err).Required()
		gt.Bool(t, ok).True()
		gt.Number(t, atomic.LoadInt32(&calls)).Equal(before)
		gt.Number(t, dir.CacheSize()).Equal(4)
	})
}

func TestIntegration(t *testing.T) {
	token := os.Getenv("TEST_SLACK_BOT_TOKEN")
	userID := os.Getenv("TEST_SLACK_USER_ID")
	if token == "" || userID == "" {
		t.Skip("TEST_SLACK_BOT_TOKEN or TEST_SLACK_USER_ID is not set")
	}

	dir, err := slack.New(token)
	gt.NoError(t, err).Required()

	ok, err := dir.Exists(context.Background(), "default", types.UserID(userID))
	gt.NoError(t, err).Required()
	gt.Bool(t, ok).True()
}
