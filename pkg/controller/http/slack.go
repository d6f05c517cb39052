package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/channel"
	"github.com/secmon-lab/ouvidoria/pkg/utils/async"
	"github.com/secmon-lab/ouvidoria/pkg/utils/errutil"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
	"github.com/secmon-lab/ouvidoria/pkg/utils/safe"
	"github.com/slack-go/slack/slackevents"
)

// maxSlackBodySize bounds the body read before the signature is checked
const maxSlackBodySize = 1 << 20

// verifySlackSignature verifies the Slack request signature
func verifySlackSignature(signingSecret, timestamp, signature string, body []byte) error {
	if timestamp == "" {
		return goerr.New("missing timestamp")
	}

	if signature == "" {
		return goerr.New("missing signature")
	}

	// Check timestamp to prevent replay attacks (within 5 minutes)
	ts, err := strconv.ParseInt(timestamp, 10, 64)
	if err != nil {
		return goerr.Wrap(err, "invalid timestamp")
	}

	now := time.Now().Unix()
	if now-ts > 60*5 {
		return goerr.New("timestamp too old", goerr.V("timestamp", timestamp), goerr.V("now", now))
	}

	// Compute expected signature
	baseString := fmt.Sprintf("v0:%s:%s", timestamp, body)
	mac := hmac.New(sha256.New, []byte(signingSecret))
	if _, err := mac.Write([]byte(baseString)); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expectedSignature := "v0=" + hex.EncodeToString(mac.Sum(nil))

	// Compare signatures
	if !hmac.Equal([]byte(expectedSignature), []byte(signature)) {
		return goerr.New("signature mismatch")
	}

	return nil
}

// SlackSignatureMiddleware creates a middleware that verifies Slack request signatures
func SlackSignatureMiddleware(signingSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			body, err := safe.ReadAll(r.Body, maxSlackBodySize)
			if err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest, "")
				return
			}
			safe.Close(ctx, r.Body)

			// Get headers
			timestamp := r.Header.Get("X-Slack-Request-Timestamp")
			signature := r.Header.Get("X-Slack-Signature")

			// Verify signature
			if err := verifySlackSignature(signingSecret, timestamp, signature, body); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "slack signature verification failed"), http.StatusUnauthorized, "")
				return
			}

			// Restore the body for the next handler
			r.Body = io.NopCloser(bytes.NewBuffer(body))
			next.ServeHTTP(w, r)
		})
	}
}

// SlackWebhookHandler turns direct messages to the intake app into reports
type SlackWebhookHandler struct {
	ingester interfaces.ReportIngester
	tenantID types.TenantID
}

// NewSlackWebhookHandler creates a handler that files reports under tenantID
func NewSlackWebhookHandler(ingester interfaces.ReportIngester, tenantID types.TenantID) *SlackWebhookHandler {
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}
	return &SlackWebhookHandler{
		ingester: ingester,
		tenantID: tenantID,
	}
}

// ServeHTTP handles Slack webhook requests
func (h *SlackWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Read body (already verified by middleware)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to read request body"), http.StatusBadRequest, "")
		return
	}

	eventsAPIEvent, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse slack event"), http.StatusBadRequest, "")
		return
	}

	switch eventsAPIEvent.Type {
	case slackevents.URLVerification:
		var r *slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &r); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to unmarshal challenge"), http.StatusBadRequest, "")
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(r.Challenge)); err != nil {
			logger := logging.From(ctx)
			logger.Error("failed to write challenge response", "error", err)
		}
		return

	case slackevents.CallbackEvent:
		// Return 200 immediately to satisfy Slack's 3-second timeout requirement
		w.WriteHeader(http.StatusOK)

		ev := channel.SlackEvent(&eventsAPIEvent)
		if ev == nil {
			return
		}

		tenantID := h.tenantID
		async.Dispatch(ctx, func(ctx context.Context) error {
			logger := logging.From(ctx)
			logger.Info("processing slack report",
				"team_id", eventsAPIEvent.TeamID,
				"external_id", ev.ExternalID,
			)

			if _, err := h.ingester.Ingest(ctx, tenantID, ev); err != nil {
				return goerr.Wrap(err, "failed to ingest slack report",
					goerr.V(model.ChannelKey, ev.Channel), goerr.V(model.TenantIDKey, tenantID))
			}
			return nil
		})

	default:
		logger := logging.From(ctx)
		logger.Warn("unknown slack event type", "type", eventsAPIEvent.Type)
		w.WriteHeader(http.StatusOK)
	}
}
