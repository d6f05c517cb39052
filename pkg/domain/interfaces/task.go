package interfaces

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// TaskMutator modifies a task inside an atomic update
type TaskMutator func(t *model.Task) error

// TaskRepository stores investigation tasks per case
type TaskRepository interface {
	// CreateBatch stores tasks for a case. It fails without writing anything if the
	// case already has tasks and returns model.ErrAlreadyExists.
	CreateBatch(ctx context.Context, tenantID types.TenantID, caseID model.CaseID, tasks []*model.Task) error

	// List returns tasks of a case ordered by due date
	List(ctx context.Context, tenantID types.TenantID, caseID model.CaseID) ([]*model.Task, error)

	// Update applies mutate atomically. Returns model.ErrNotFound if missing.
	Update(ctx context.Context, tenantID types.TenantID, caseID model.CaseID, id model.TaskID, mutate TaskMutator) (*model.Task, error)
}
