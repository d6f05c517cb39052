package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/m-mizutani/gt"
	httpctrl "github.com/secmon-lab/ouvidoria/pkg/controller/http"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/repository/memory"
	"github.com/secmon-lab/ouvidoria/pkg/service/vault"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
)

type recordingIngester struct {
	mu     sync.Mutex
	events []*model.ReportEvent
	tenant types.TenantID
}

func (r *recordingIngester) Ingest(_ context.Context, tenantID types.TenantID, ev *model.ReportEvent) (*model.Case, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	r.tenant = tenantID
	return &model.Case{ID: "case-1"}, nil
}

func (r *recordingIngester) Events() []*model.ReportEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*model.ReportEvent(nil), r.events...)
}

func (r *recordingIngester) Tenant() types.TenantID {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tenant
}

func newTestUseCasesWithRepo(t *testing.T, opts ...usecase.Option) (*usecase.UseCases, *memory.Memory) {
	t.Helper()

	repo := memory.New()
	vaults, err := vault.New(bytes.Repeat([]byte{0x07}, vault.KeySize), repo.Identity())
	gt.NoError(t, err).Required()

	return usecase.New(repo, vaults, opts...), repo
}

func newTestUseCases(t *testing.T, opts ...usecase.Option) *usecase.UseCases {
	t.Helper()
	uc, _ := newTestUseCasesWithRepo(t, opts...)
	return uc
}

func newTestServer(t *testing.T) (*httpctrl.Server, *memory.Memory) {
	t.Helper()
	uc, repo := newTestUseCasesWithRepo(t)
	return httpctrl.New(uc, httpctrl.WithAuthenticator(httpctrl.NewHeaderAuthenticator())), repo
}

type testUser struct {
	id   string
	role types.Role
}

func doRequest(t *testing.T, srv http.Handler, method, path string, user *testUser, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		gt.NoError(t, err).Required()
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(httpctrl.HeaderTenantID, "tenant-a")
	if user != nil {
		req.Header.Set(httpctrl.HeaderUserID, user.id)
		req.Header.Set(httpctrl.HeaderUserRole, string(user.role))
		req.Header.Set(httpctrl.HeaderUserName, "Name "+user.id)
		req.Header.Set(httpctrl.HeaderUserEmail, user.id+"@example.com")
	}

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}
