package interfaces

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// CaseMutator modifies a case inside an atomic update. Returning an error aborts the update.
type CaseMutator func(c *model.Case) error

// CaseRepository defines the interface for Case data access. All operations are
// partitioned by tenant.
type CaseRepository interface {
	// Create persists a new case. The case must carry an ID.
	Create(ctx context.Context, tenantID types.TenantID, c *model.Case) (*model.Case, error)

	// Get retrieves a case by ID. Returns model.ErrNotFound if missing.
	Get(ctx context.Context, tenantID types.TenantID, id model.CaseID) (*model.Case, error)

	// List retrieves cases ordered by creation time, oldest first
	List(ctx context.Context, tenantID types.TenantID, opts ...ListCaseOption) ([]*model.Case, error)

	// Update applies mutate atomically to the stored case, bumps Version and
	// UpdatedAt, and returns the stored result. Concurrent updates of the same
	// case never lose each other's changes.
	Update(ctx context.Context, tenantID types.TenantID, id model.CaseID, mutate CaseMutator) (*model.Case, error)
}
