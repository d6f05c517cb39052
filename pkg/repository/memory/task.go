package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// taskKey is a composite key for task buckets (tenantID + caseID)
type taskKey struct {
	tenantID types.TenantID
	caseID   model.CaseID
}

type taskRepository struct {
	mu    sync.RWMutex
	tasks map[taskKey]map[model.TaskID]*model.Task
}

func newTaskRepository() *taskRepository {
	return &taskRepository{
		tasks: make(map[taskKey]map[model.TaskID]*model.Task),
	}
}

func (r *taskRepository) CreateBatch(ctx context.Context, tenantID types.TenantID, caseID model.CaseID, tasks []*model.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := taskKey{tenantID: tenantID, caseID: caseID}
	if len(r.tasks[key]) > 0 {
		return goerr.Wrap(model.ErrAlreadyExists, "tasks already generated", goerr.V(model.CaseIDKey, caseID))
	}

	bucket := make(map[model.TaskID]*model.Task, len(tasks))
	for _, t := range tasks {
		copied := t.Copy()
		copied.CaseID = caseID
		bucket[t.ID] = copied
	}
	r.tasks[key] = bucket
	return nil
}

func (r *taskRepository) List(ctx context.Context, tenantID types.TenantID, caseID model.CaseID) ([]*model.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bucket := r.tasks[taskKey{tenantID: tenantID, caseID: caseID}]
	tasks := make([]*model.Task, 0, len(bucket))
	for _, t := range bucket {
		tasks = append(tasks, t.Copy())
	}

	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, tenantID types.TenantID, caseID model.CaseID, id model.TaskID, mutate interfaces.TaskMutator) (*model.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.tasks[taskKey{tenantID: tenantID, caseID: caseID}][id]
	if !exists {
		return nil, goerr.Wrap(model.ErrNotFound, "task not found", goerr.V(model.TaskIDKey, id), goerr.V(model.CaseIDKey, caseID))
	}

	updated := existing.Copy()
	if err := mutate(updated); err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.CaseID = existing.CaseID

	r.tasks[taskKey{tenantID: tenantID, caseID: caseID}][id] = updated
	return updated.Copy(), nil
}
