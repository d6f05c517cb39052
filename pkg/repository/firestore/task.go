package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type taskRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newTaskRepository(client *firestore.Client) *taskRepository {
	return &taskRepository{
		client:           client,
		collectionPrefix: "",
	}
}

// tasksRef returns tenants/{tenantID}/cases/{caseID}/tasks
func (r *taskRepository) tasksRef(tenantID types.TenantID, caseID model.CaseID) *firestore.CollectionRef {
	return r.client.Collection(tenantsCollection(r.collectionPrefix)).
		Doc(tenantID.String()).
		Collection("cases").
		Doc(string(caseID)).
		Collection("tasks")
}

func (r *taskRepository) CreateBatch(ctx context.Context, tenantID types.TenantID, caseID model.CaseID, tasks []*model.Task) error {
	col := r.tasksRef(tenantID, caseID)

	return r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col.Limit(1)).GetAll()
		if err != nil {
			return goerr.Wrap(err, "failed to check existing tasks", goerr.V(model.CaseIDKey, caseID))
		}
		if len(existing) > 0 {
			return goerr.Wrap(model.ErrAlreadyExists, "tasks already generated", goerr.V(model.CaseIDKey, caseID))
		}

		for _, t := range tasks {
			copied := t.Copy()
			copied.CaseID = caseID
			if err := tx.Create(col.Doc(string(copied.ID)), copied); err != nil {
				return goerr.Wrap(err, "failed to create task", goerr.V(model.TaskIDKey, copied.ID))
			}
		}
		return nil
	})
}

func (r *taskRepository) List(ctx context.Context, tenantID types.TenantID, caseID model.CaseID) ([]*model.Task, error) {
	iter := r.tasksRef(tenantID, caseID).OrderBy("dueDate", firestore.Asc).Documents(ctx)
	defer iter.Stop()

	var tasks []*model.Task
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate tasks", goerr.V(model.CaseIDKey, caseID))
		}

		var t model.Task
		if err := docSnap.DataTo(&t); err != nil {
			return nil, goerr.Wrap(err, "failed to decode task", goerr.V("doc_id", docSnap.Ref.ID))
		}
		tasks = append(tasks, &t)
	}

	return tasks, nil
}

func (r *taskRepository) Update(ctx context.Context, tenantID types.TenantID, caseID model.CaseID, id model.TaskID, mutate interfaces.TaskMutator) (*model.Task, error) {
	docRef := r.tasksRef(tenantID, caseID).Doc(string(id))

	var result *model.Task
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "task not found", goerr.V(model.TaskIDKey, id), goerr.V(model.CaseIDKey, caseID))
			}
			return goerr.Wrap(err, "failed to get task in transaction", goerr.V(model.TaskIDKey, id))
		}

		var existing model.Task
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode task", goerr.V(model.TaskIDKey, id))
		}

		updated := existing.Copy()
		if err := mutate(updated); err != nil {
			return err
		}
		updated.ID = existing.ID
		updated.CaseID = existing.CaseID

		if err := tx.Set(docRef, updated); err != nil {
			return goerr.Wrap(err, "failed to update task", goerr.V(model.TaskIDKey, id))
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
