package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/utils/errutil"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to write response", "error", err)
	}
}

// handleError maps domain errors to HTTP responses. Internal details are only logged.
func handleError(ctx context.Context, w http.ResponseWriter, err error) {
	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, model.ErrValidation):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, model.ErrNotFound):
		status, msg = http.StatusNotFound, "not found"
	case errors.Is(err, model.ErrPermissionDenied):
		status, msg = http.StatusForbidden, "permission denied"
	case errors.Is(err, model.ErrIntegrity):
		msg = "vault integrity failure"
	}

	if status >= http.StatusInternalServerError {
		errutil.HandleHTTP(ctx, w, err, status, msg)
		return
	}

	logging.From(ctx).Info("request rejected", "status", status, "error", err.Error())
	writeJSON(ctx, w, status, errorResponse{Error: msg})
}
