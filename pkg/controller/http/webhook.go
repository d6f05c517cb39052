package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/channel"
	"github.com/secmon-lab/ouvidoria/pkg/utils/errutil"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
	"github.com/secmon-lab/ouvidoria/pkg/utils/safe"
)

const (
	maxWebhookBodySize = 1 << 20

	// EventReceived acknowledges a webhook delivery
	EventReceived = "EVENT_RECEIVED"
)

// WebhookHandler receives channel webhooks and files them as reports. Reports
// are ingested before the response is written.
type WebhookHandler struct {
	adapters *channel.Registry
	ingester interfaces.ReportIngester
}

func NewWebhookHandler(adapters *channel.Registry, ingester interfaces.ReportIngester) *WebhookHandler {
	return &WebhookHandler{
		adapters: adapters,
		ingester: ingester,
	}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tenantID, err := tenantFromRequest(r)
	if err != nil {
		handleError(ctx, w, err)
		return
	}

	ch, err := types.ParseChannel(chi.URLParam(r, "channel"))
	if err != nil {
		writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "unknown channel"})
		return
	}
	adapter := h.adapters.Get(ch)
	if adapter == nil {
		writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: "unknown channel"})
		return
	}

	body, err := safe.ReadAll(r.Body, maxWebhookBodySize)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read webhook body"), http.StatusBadRequest, "")
		return
	}

	ev := adapter.Parse(body)
	if ev == nil {
		logging.From(ctx).Info("webhook payload not recognized", "channel", ch)
		writeJSON(ctx, w, http.StatusBadRequest, errorResponse{Error: "invalid payload"})
		return
	}

	if _, err := h.ingester.Ingest(ctx, tenantID, ev); err != nil {
		handleError(ctx, w, goerr.Wrap(err, "failed to ingest webhook report",
			goerr.V(model.ChannelKey, ch), goerr.V(model.TenantIDKey, tenantID)))
		return
	}

	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(EventReceived)); err != nil {
		logging.From(ctx).Error("failed to write webhook response", "error", err)
	}
}
