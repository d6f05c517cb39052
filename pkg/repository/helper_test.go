package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/repository/firestore"
	"github.com/secmon-lab/ouvidoria/pkg/repository/memory"
)

type repoFactory func(t *testing.T) interfaces.Repository

func newMemory(t *testing.T) interfaces.Repository {
	return memory.New()
}

func newFirestoreFactory(t *testing.T) repoFactory {
	projectID := os.Getenv("TEST_FIRESTORE_PROJECT_ID")
	if projectID == "" {
		t.Skip("TEST_FIRESTORE_PROJECT_ID not set")
	}
	databaseID := os.Getenv("TEST_FIRESTORE_DATABASE_ID")

	return func(t *testing.T) interfaces.Repository {
		// unique prefix per test keeps runs isolated
		repo, err := firestore.New(context.Background(), projectID, databaseID,
			firestore.WithCollectionPrefix("test_"+uuid.NewString()))
		gt.NoError(t, err).Required()
		t.Cleanup(func() { _ = repo.Close(context.Background()) })
		return repo
	}
}

func newTenantID() types.TenantID {
	return types.TenantID("tenant-" + uuid.NewString())
}

func newAnonymousCase(title string) *model.Case {
	return &model.Case{
		ID:          model.NewCaseID(),
		Title:       title,
		Description: "descrição",
		Categories:  []string{"fraude"},
		Priority:    model.Priority{Score: 3, Level: types.PriorityMedium},
		Status:      types.CaseStatusNew,
		Anonymous:   true,
		Source:      types.ChannelWeb,
	}
}
