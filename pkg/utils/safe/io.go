package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

// Close closes closer and logs the error if any. A nil closer is ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// DrainClose discards what is left in rc and closes it, so the underlying
// HTTP connection can be reused.
func DrainClose(ctx context.Context, rc io.ReadCloser) {
	if rc == nil {
		return
	}
	if _, err := io.Copy(io.Discard, rc); err != nil {
		logging.From(ctx).Warn("Failed to drain body", slog.Any("error", err))
	}
	Close(ctx, rc)
}

// ReadAll reads at most limit bytes from r. Exceeding the limit is an error
// instead of a silent truncation.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read body")
	}
	if int64(len(data)) > limit {
		return nil, goerr.New("body too large", goerr.V("limit", limit))
	}
	return data, nil
}
