package firestore

import (
	"context"
	"sort"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type caseRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newCaseRepository(client *firestore.Client) *caseRepository {
	return &caseRepository{
		client:           client,
		collectionPrefix: "",
	}
}

// casesRef returns tenants/{tenantID}/cases
func (r *caseRepository) casesRef(tenantID types.TenantID) *firestore.CollectionRef {
	return r.client.Collection(tenantsCollection(r.collectionPrefix)).Doc(tenantID.String()).Collection("cases")
}

func (r *caseRepository) Create(ctx context.Context, tenantID types.TenantID, c *model.Case) (*model.Case, error) {
	if c.ID == "" {
		return nil, goerr.Wrap(model.ErrValidation, "case ID is required")
	}

	created := c.Copy()
	created.TenantID = tenantID
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}
	created.UpdatedAt = created.CreatedAt
	created.Version = 1

	if _, err := r.casesRef(tenantID).Doc(string(created.ID)).Create(ctx, created); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return nil, goerr.Wrap(model.ErrAlreadyExists, "case already exists", goerr.V(model.CaseIDKey, created.ID))
		}
		return nil, goerr.Wrap(err, "failed to create case", goerr.V(model.CaseIDKey, created.ID), goerr.V(model.TenantIDKey, tenantID))
	}

	return created, nil
}

func (r *caseRepository) Get(ctx context.Context, tenantID types.TenantID, id model.CaseID) (*model.Case, error) {
	docSnap, err := r.casesRef(tenantID).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.CaseIDKey, id), goerr.V(model.TenantIDKey, tenantID))
		}
		return nil, goerr.Wrap(err, "failed to get case", goerr.V(model.CaseIDKey, id))
	}

	var c model.Case
	if err := docSnap.DataTo(&c); err != nil {
		return nil, goerr.Wrap(err, "failed to decode case", goerr.V(model.CaseIDKey, id))
	}

	return &c, nil
}

func (r *caseRepository) List(ctx context.Context, tenantID types.TenantID, opts ...interfaces.ListCaseOption) ([]*model.Case, error) {
	cfg := interfaces.BuildListCaseConfig(opts...)

	query := r.casesRef(tenantID).Query
	if s := cfg.Status(); s != nil {
		query = query.Where("status", "==", string(*s))
	}
	if u := cfg.CreatedBy(); u != nil {
		query = query.Where("createdBy", "==", string(*u))
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var cases []*model.Case
	for {
		docSnap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate cases", goerr.V(model.TenantIDKey, tenantID))
		}

		var c model.Case
		if err := docSnap.DataTo(&c); err != nil {
			return nil, goerr.Wrap(err, "failed to decode case", goerr.V("doc_id", docSnap.Ref.ID))
		}

		cases = append(cases, &c)
	}

	// sorted client-side to avoid requiring composite indexes for filtered queries
	sort.Slice(cases, func(i, j int) bool {
		if cases[i].CreatedAt.Equal(cases[j].CreatedAt) {
			return cases[i].ID < cases[j].ID
		}
		return cases[i].CreatedAt.Before(cases[j].CreatedAt)
	})

	return cases, nil
}

func (r *caseRepository) Update(ctx context.Context, tenantID types.TenantID, id model.CaseID, mutate interfaces.CaseMutator) (*model.Case, error) {
	docRef := r.casesRef(tenantID).Doc(string(id))

	var result *model.Case
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		docSnap, err := tx.Get(docRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(model.ErrNotFound, "case not found", goerr.V(model.CaseIDKey, id), goerr.V(model.TenantIDKey, tenantID))
			}
			return goerr.Wrap(err, "failed to get case in transaction", goerr.V(model.CaseIDKey, id))
		}

		var existing model.Case
		if err := docSnap.DataTo(&existing); err != nil {
			return goerr.Wrap(err, "failed to decode case", goerr.V(model.CaseIDKey, id))
		}

		updated := existing.Copy()
		if err := mutate(updated); err != nil {
			return err
		}
		updated.ID = existing.ID
		updated.TenantID = existing.TenantID
		updated.CreatedAt = existing.CreatedAt
		updated.UpdatedAt = time.Now().UTC()
		updated.Version = existing.Version + 1

		if err := tx.Set(docRef, updated); err != nil {
			return goerr.Wrap(err, "failed to update case", goerr.V(model.CaseIDKey, id))
		}
		result = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
