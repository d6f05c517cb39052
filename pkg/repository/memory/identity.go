package memory

import (
	"context"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
)

type identityRepository struct {
	mu      sync.RWMutex
	records map[model.IdentityID]*model.IdentityRecord
}

func newIdentityRepository() *identityRepository {
	return &identityRepository{
		records: make(map[model.IdentityID]*model.IdentityRecord),
	}
}

func (r *identityRepository) Put(ctx context.Context, record *model.IdentityRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[record.ID]; exists {
		return goerr.Wrap(model.ErrAlreadyExists, "identity record already exists", goerr.V(model.IdentityIDKey, record.ID))
	}

	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *identityRepository) Get(ctx context.Context, id model.IdentityID) (*model.IdentityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, exists := r.records[id]
	if !exists {
		return nil, nil
	}

	copied := *record
	return &copied, nil
}
