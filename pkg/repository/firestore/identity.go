package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type identityRepository struct {
	client           *firestore.Client
	collectionPrefix string
}

func newIdentityRepository(client *firestore.Client) *identityRepository {
	return &identityRepository{
		client:           client,
		collectionPrefix: "",
	}
}

func (r *identityRepository) identitiesCollection() string {
	if r.collectionPrefix != "" {
		return r.collectionPrefix + "_identities"
	}
	return "identities"
}

func (r *identityRepository) Put(ctx context.Context, record *model.IdentityRecord) error {
	_, err := r.client.Collection(r.identitiesCollection()).Doc(string(record.ID)).Create(ctx, record)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return goerr.Wrap(model.ErrAlreadyExists, "identity record already exists", goerr.V(model.IdentityIDKey, record.ID))
		}
		return goerr.Wrap(err, "failed to put identity record", goerr.V(model.IdentityIDKey, record.ID))
	}
	return nil
}

func (r *identityRepository) Get(ctx context.Context, id model.IdentityID) (*model.IdentityRecord, error) {
	docSnap, err := r.client.Collection(r.identitiesCollection()).Doc(string(id)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to get identity record", goerr.V(model.IdentityIDKey, id))
	}

	var record model.IdentityRecord
	if err := docSnap.DataTo(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode identity record", goerr.V(model.IdentityIDKey, id))
	}
	return &record, nil
}
