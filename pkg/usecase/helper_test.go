package usecase_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/repository/memory"
	"github.com/secmon-lab/ouvidoria/pkg/service/vault"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
)

const testTenant types.TenantID = "tenant-a"

var testNow = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestUseCases(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory, *vault.Vaults) {
	t.Helper()

	repo := memory.New()
	vaults, err := vault.New(bytes.Repeat([]byte{0x42}, vault.KeySize), repo.Identity())
	gt.NoError(t, err).Required()

	opts = append([]usecase.Option{usecase.WithClock(func() time.Time { return testNow })}, opts...)
	return usecase.New(repo, vaults, opts...), repo, vaults
}

func newActor(id string, role types.Role) *model.Actor {
	return &model.Actor{
		ID:       types.UserID(id),
		Role:     role,
		TenantID: testTenant,
		Name:     "Name of " + id,
		Email:    id + "@example.com",
	}
}

type stubDirectory struct {
	users map[types.UserID]bool
}

func (d *stubDirectory) Exists(_ context.Context, _ types.TenantID, userID types.UserID) (bool, error) {
	return d.users[userID], nil
}
