package async

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/utils/errutil"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

// DefaultTimeout bounds a dispatched handler
const DefaultTimeout = 30 * time.Second

var inflight sync.WaitGroup

// Dispatch runs handler in a new goroutine detached from the request context.
// The logger and Sentry hub of ctx are carried over. Errors and panics are
// reported through errutil.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		bgCtx = sentry.SetHubOnContext(bgCtx, hub.Clone())
	}

	inflight.Add(1)
	go func() {
		defer inflight.Done()

		ctx, cancel := context.WithTimeout(bgCtx, DefaultTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				_ = errutil.Handle(ctx, goerr.New("panic in async handler", goerr.V("panic", r)), "async handler panicked")
			}
		}()

		if err := handler(ctx); err != nil {
			_ = errutil.Handle(ctx, err, "async handler failed")
		}
	}()
}

// Wait blocks until every dispatched handler returns or ctx is done
func Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		logging.From(ctx).Warn("async handlers still running at shutdown", slog.Any("error", ctx.Err()))
	}
}
