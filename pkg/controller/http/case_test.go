package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	httpctrl "github.com/secmon-lab/ouvidoria/pkg/controller/http"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/metrics"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
)

var (
	reporter     = &testUser{id: "u-1", role: types.RoleUser}
	otherUser    = &testUser{id: "u-2", role: types.RoleUser}
	adminUser    = &testUser{id: "admin", role: types.RoleAdmin}
	triageUser   = &testUser{id: "tri", role: types.RoleTriage}
	investigator = &testUser{id: "inv", role: types.RoleInvestigator}
)

func submitCase(t *testing.T, srv http.Handler, anonymous bool) *model.Case {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/cases", reporter, map[string]any{
		"title":       "Relato",
		"description": "Houve assédio na equipe",
		"anonymous":   anonymous,
	})
	gt.Number(t, rec.Code).Equal(http.StatusCreated)

	var created model.Case
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created)).Required()
	return &created
}

func TestCaseAPI_Auth(t *testing.T) {
	srv, _ := newTestServer(t)

	t.Run("missing identity headers", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/cases", nil, nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("unknown role", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, "/api/cases", &testUser{id: "x", role: "root"}, nil)
		gt.Number(t, rec.Code).Equal(http.StatusUnauthorized)
	})

	t.Run("malformed tenant header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/cases", nil)
		req.Header.Set(httpctrl.HeaderTenantID, "../other/cases")
		req.Header.Set(httpctrl.HeaderUserID, adminUser.id)
		req.Header.Set(httpctrl.HeaderUserRole, string(adminUser.role))
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("case API is not served without authenticator", func(t *testing.T) {
		plain := httpctrl.New(newTestUseCases(t))
		rec := doRequest(t, plain, http.MethodGet, "/api/cases", reporter, nil)
		gt.Number(t, rec.Code).Equal(http.StatusNotFound)
	})
}

func TestCaseAPI_Lifecycle(t *testing.T) {
	srv, _ := newTestServer(t)
	created := submitCase(t, srv, false)
	gt.Value(t, created.Status).Equal(types.CaseStatusNew)
	casePath := "/api/cases/" + string(created.ID)

	t.Run("owner posts and reads message", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, casePath+"/messages", reporter, map[string]string{"content": "complemento"})
		gt.Number(t, rec.Code).Equal(http.StatusCreated)

		rec = doRequest(t, srv, http.MethodGet, casePath, reporter, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var view struct {
			ID       model.CaseID    `json:"id"`
			Messages []model.Message `json:"messages"`
		}
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view)).Required()
		gt.Value(t, view.ID).Equal(created.ID)
		gt.Array(t, view.Messages).Length(1)
		gt.Value(t, view.Messages[0].Content).Equal("complemento")
	})

	t.Run("empty message is a bad request", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, casePath+"/messages", reporter, map[string]string{"content": ""})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)
	})

	t.Run("other user is forbidden", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, casePath, otherUser, nil)
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)
	})

	t.Run("reveal identity", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodGet, casePath+"/identity", triageUser, nil)
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)

		rec = doRequest(t, srv, http.MethodGet, casePath+"/identity", adminUser, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var identity model.Identity
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &identity)).Required()
		gt.Value(t, identity.UserID).Equal(types.UserID("u-1"))
		gt.Value(t, identity.Email).Equal("u-1@example.com")
	})

	t.Run("assign drives workflow and tasks", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPost, casePath+"/assign", investigator, map[string]string{"roleName": "triage", "userId": "tri"})
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)

		rec = doRequest(t, srv, http.MethodPost, casePath+"/assign", triageUser, map[string]string{"roleName": "triage", "userId": "tri"})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		rec = doRequest(t, srv, http.MethodPost, casePath+"/assign", triageUser, map[string]string{"roleName": "investigator", "userId": "inv"})
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var updated model.Case
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated)).Required()
		gt.Value(t, updated.Status).Equal(types.CaseStatusInvestigation)

		rec = doRequest(t, srv, http.MethodGet, casePath+"/tasks", investigator, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var tasks []model.Task
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks)).Required()
		gt.Array(t, tasks).Length(10)

		rec = doRequest(t, srv, http.MethodPost, casePath+"/tasks/"+string(tasks[0].ID)+"/complete", investigator, nil)
		gt.Number(t, rec.Code).Equal(http.StatusOK)

		var done model.Task
		gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &done)).Required()
		gt.Value(t, done.Status).Equal(types.TaskStatusDone)

		rec = doRequest(t, srv, http.MethodPost, casePath+"/tasks/"+string(tasks[1].ID)+"/assign", investigator, map[string]string{"userId": "inv"})
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})

	t.Run("patch status", func(t *testing.T) {
		rec := doRequest(t, srv, http.MethodPatch, casePath, reporter, map[string]string{"status": "encerrado"})
		gt.Number(t, rec.Code).Equal(http.StatusForbidden)

		rec = doRequest(t, srv, http.MethodPatch, casePath, adminUser, map[string]string{"status": "bogus"})
		gt.Number(t, rec.Code).Equal(http.StatusBadRequest)

		rec = doRequest(t, srv, http.MethodPatch, casePath, adminUser, map[string]string{"status": "encerrado"})
		gt.Number(t, rec.Code).Equal(http.StatusOK)
	})
}

func TestCaseAPI_Anonymous(t *testing.T) {
	srv, _ := newTestServer(t)
	created := submitCase(t, srv, true)
	gt.Bool(t, created.Anonymous).True()
	gt.Value(t, created.IdentityID).Nil()

	rec := doRequest(t, srv, http.MethodGet, "/api/cases/"+string(created.ID)+"/identity", adminUser, nil)
	gt.Number(t, rec.Code).Equal(http.StatusNotFound)
}

func TestCaseAPI_List(t *testing.T) {
	srv, _ := newTestServer(t)
	submitCase(t, srv, false)
	submitCase(t, srv, true)

	rec := doRequest(t, srv, http.MethodGet, "/api/cases", reporter, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	var own []model.Case
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &own)).Required()
	gt.Array(t, own).Length(1)

	rec = doRequest(t, srv, http.MethodGet, "/api/cases", adminUser, nil)
	var all []model.Case
	gt.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all)).Required()
	gt.Array(t, all).Length(2)

	rec = doRequest(t, srv, http.MethodGet, "/api/cases?status=bogus", adminUser, nil)
	gt.Number(t, rec.Code).Equal(http.StatusBadRequest)

	rec = doRequest(t, srv, http.MethodGet, "/api/cases/missing", otherUser, nil)
	gt.Number(t, rec.Code).Equal(http.StatusForbidden)

	rec = doRequest(t, srv, http.MethodGet, "/api/cases/missing", adminUser, nil)
	gt.Number(t, rec.Code).Equal(http.StatusNotFound)
}

func TestHealthAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	srv := httpctrl.New(newTestUseCases(t, usecase.WithMetrics(m)), httpctrl.WithMetrics(reg))

	rec := doRequest(t, srv, http.MethodGet, "/health", nil, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	rec = doRequest(t, srv, http.MethodPost, "/api/webhooks/phone", nil, map[string]string{
		"from":          "+5511912345678",
		"transcription": "relato de fraude",
		"callSid":       "CA1",
	})
	gt.Number(t, rec.Code).Equal(http.StatusOK)

	rec = doRequest(t, srv, http.MethodGet, "/metrics", nil, nil)
	gt.Number(t, rec.Code).Equal(http.StatusOK)
	gt.String(t, rec.Body.String()).Contains(`ouvidoria_ingest_total{channel="phone",result="created"} 1`)
}
