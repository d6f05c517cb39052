package errutil

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

// Handle logs the error with a message and forwards it to Sentry when a client is bound.
// The error is returned unchanged so the caller can keep propagating it.
func Handle(ctx context.Context, err error, msg string) error {
	if err == nil {
		return nil
	}

	logError(ctx, msg, err)
	capture(ctx, err)
	return err
}

// HandleHTTP logs the error and writes an HTTP error response. The response body is
// the public message only; internal details stay in the log.
func HandleHTTP(ctx context.Context, w http.ResponseWriter, err error, statusCode int, publicMsg string) {
	if err == nil {
		return
	}

	logError(ctx, "HTTP error", err, "status", statusCode)
	if statusCode >= http.StatusInternalServerError {
		capture(ctx, err)
	}

	if publicMsg == "" {
		publicMsg = http.StatusText(statusCode)
	}
	http.Error(w, publicMsg, statusCode)
}

func logError(ctx context.Context, msg string, err error, attrs ...any) {
	logger := logging.From(ctx)

	var ge *goerr.Error
	if errors.As(err, &ge) {
		attrs = append(attrs,
			"error", err.Error(),
			"values", ge.Values(),
			"stack", ge.Stacks(),
		)
	} else {
		attrs = append(attrs, "error", err.Error())
	}
	logger.Error(msg, attrs...)
}

func capture(ctx context.Context, err error) {
	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}
	hub.CaptureException(err)
}
