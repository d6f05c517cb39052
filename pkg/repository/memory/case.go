package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

type caseRepository struct {
	mu    sync.RWMutex
	cases map[types.TenantID]map[model.CaseID]*model.Case
}

func newCaseRepository() *caseRepository {
	return &caseRepository{
		cases: make(map[types.TenantID]map[model.CaseID]*model.Case),
	}
}

func (r *caseRepository) ensureTenant(tenantID types.TenantID) {
	if _, exists := r.cases[tenantID]; !exists {
		r.cases[tenantID] = make(map[model.CaseID]*model.Case)
	}
}

func (r *caseRepository) Create(ctx context.Context, tenantID types.TenantID, c *model.Case) (*model.Case, error) {
	if c.ID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "case ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ensureTenant(tenantID)
	if _, exists := r.cases[tenantID][c.ID]; exists {
		return nil, goerr.Wrap(model.ErrAlreadyExists, "case already exists", goerr.V(model.CaseIDKey, c.ID))
	}

	created := c.Copy()
	created.TenantID = tenantID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	created.UpdatedAt = created.CreatedAt
	created.Version = 1

	r.cases[tenantID][created.ID] = created
	return created.Copy(), nil
}

func (r *caseRepository) Get(ctx context.Context, tenantID types.TenantID, id model.CaseID) (*model.Case, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, exists := r.cases[tenantID][id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.CaseIDKey, id), goerr.V(model.TenantIDKey, tenantID))
	}

	return c.Copy(), nil
}

func (r *caseRepository) List(ctx context.Context, tenantID types.TenantID, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cfg := interfaces.BuildListCaseConfig(opts...)

	r.mu.RLock()
	defer r.mu.RUnlock()

	cases := make([]*model.Case, 0, len(r.cases[tenantID]))
	for _, c := range r.cases[tenantID] {
		if s := cfg.Status(); s != nil && c.Status != *s {
			continue
		}
		if u := cfg.CreatedBy(); u != nil && !c.IsAuthoredBy(*u) {
			continue
		}
		cases = append(cases, c.Copy())
	}

	sort.Slice(cases, func(i, j int) bool {
		if cases[i].CreatedAt.Equal(cases[j].CreatedAt) {
			return cases[i].ID < cases[j].ID
		}
		return cases[i].CreatedAt.Before(cases[j].CreatedAt)
	})

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, tenantID types.TenantID, id model.CaseID, mutate interfaces.CaseMutator) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.cases[tenantID][id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.CaseIDKey, id), goerr.V(model.TenantIDKey, tenantID))
	}

	updated := existing.Copy()
	if err := mutate(updated); err != nil {
		return nil, err
	}

	// identity columns are not mutable
	updated.ID = existing.ID
	updated.TenantID = existing.TenantID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	updated.Version = existing.Version + 1

	r.cases[tenantID][id] = updated
	return updated.Copy(), nil
}
