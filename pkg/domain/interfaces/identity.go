package interfaces

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
)

// IdentityRepository stores encrypted identity records. Records are written once and never updated.
type IdentityRepository interface {
	Put(ctx context.Context, record *model.IdentityRecord) error

	// Get returns nil, nil when the record does not exist
	Get(ctx context.Context, id model.IdentityID) (*model.IdentityRecord, error)
}
