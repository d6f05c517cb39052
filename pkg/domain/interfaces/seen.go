package interfaces

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// SeenStore remembers external event ids already ingested by the pollers
type SeenStore interface {
	// Add marks id as seen. It returns false when id was already marked.
	Add(ctx context.Context, channel types.Channel, id string) (bool, error)

	// Remove forgets id so that a failed ingestion is retried on the next poll
	Remove(ctx context.Context, channel types.Channel, id string) error
}
