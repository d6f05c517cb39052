package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
	"github.com/secmon-lab/ouvidoria/pkg/utils/safe"
)

const maxRequestBodySize = 1 << 20

type submitCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Anonymous   bool   `json:"anonymous"`
}

type appendMessageRequest struct {
	Content string `json:"content"`
}

type patchCaseRequest struct {
	Status string `json:"status"`
}

type assignCaseRequest struct {
	RoleName string `json:"roleName"`
	UserID   string `json:"userId"`
}

type assignTaskRequest struct {
	UserID string `json:"userId"`
}

type caseHandler struct {
	uc *usecase.UseCases
}

// decodeBody reads a JSON request body into v
func decodeBody(r *http.Request, v any) error {
	body, err := safe.ReadAll(r.Body, maxRequestBodySize)
	if err != nil {
		return goerr.Wrap(model.ErrValidation, "failed to read request body", goerr.V("reason", err.Error()))
	}
	if err := json.Unmarshal(body, v); err != nil {
		return goerr.Wrap(model.ErrValidation, "malformed JSON body", goerr.V("reason", err.Error()))
	}
	return nil
}

func caseIDParam(r *http.Request) model.CaseID {
	return model.CaseID(chi.URLParam(r, "caseID"))
}

func (h *caseHandler) submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req submitCaseRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	input := usecase.SubmitInput{
		Title:       req.Title,
		Description: req.Description,
		Anonymous:   req.Anonymous,
	}
	if req.Category != "" {
		input.Categories = []string{req.Category}
	}

	created, err := h.uc.Case.Submit(ctx, actorFromContext(ctx), input)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, created)
}

func (h *caseHandler) list(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var opts []interfaces.ListCaseOption
	if s := r.URL.Query().Get("status"); s != "" {
		status, err := types.ParseCaseStatus(s)
		if err != nil {
			handleError(ctx, w, goerr.Wrap(model.ErrValidation, "invalid status filter", goerr.V("status", s)))
			return
		}
		opts = append(opts, interfaces.WithStatus(status))
	}

	cases, err := h.uc.Case.List(ctx, actorFromContext(ctx), opts...)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, cases)
}

func (h *caseHandler) get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.uc.Case.Get(ctx, actorFromContext(ctx), caseIDParam(r))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, view)
}

func (h *caseHandler) appendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req appendMessageRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	msg, err := h.uc.Case.AppendMessage(ctx, actorFromContext(ctx), caseIDParam(r), req.Content)
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusCreated, msg)
}

func (h *caseHandler) patch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req patchCaseRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	updated, err := h.uc.Case.SetStatus(ctx, actorFromContext(ctx), caseIDParam(r), types.CaseStatus(req.Status))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, updated)
}

func (h *caseHandler) assign(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req assignCaseRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	updated, err := h.uc.Case.Assign(ctx, actorFromContext(ctx), caseIDParam(r),
		types.Role(req.RoleName), types.UserID(req.UserID))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, updated)
}

func (h *caseHandler) identity(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	identity, err := h.uc.Case.RevealIdentity(ctx, actorFromContext(ctx), caseIDParam(r))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, identity)
}

func (h *caseHandler) listTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tasks, err := h.uc.Task.List(ctx, actorFromContext(ctx), caseIDParam(r))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, tasks)
}

func (h *caseHandler) completeTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	task, err := h.uc.Task.Complete(ctx, actorFromContext(ctx), caseIDParam(r), model.TaskID(chi.URLParam(r, "taskID")))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, task)
}

func (h *caseHandler) assignTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req assignTaskRequest
	if err := decodeBody(r, &req); err != nil {
		handleError(ctx, w, err)
		return
	}

	task, err := h.uc.Task.Assign(ctx, actorFromContext(ctx), caseIDParam(r),
		model.TaskID(chi.URLParam(r, "taskID")), types.UserID(req.UserID))
	if err != nil {
		handleError(ctx, w, err)
		return
	}
	writeJSON(ctx, w, http.StatusOK, task)
}
