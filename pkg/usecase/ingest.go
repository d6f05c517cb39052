package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/metrics"
	"github.com/secmon-lab/ouvidoria/pkg/service/vault"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

// Ingest results reported to metrics
const (
	IngestCreated  = "created"
	IngestRejected = "rejected"
	IngestError    = "error"
)

// IngestUseCase turns normalized channel events into anonymous cases
type IngestUseCase struct {
	repo       interfaces.Repository
	messages   *vault.MessageVault
	classifier interfaces.Classifier
	metrics    *metrics.Metrics
	now        func() time.Time
}

var _ interfaces.ReportIngester = (*IngestUseCase)(nil)

func NewIngestUseCase(repo interfaces.Repository, messages *vault.MessageVault, classifier interfaces.Classifier, m *metrics.Metrics, now func() time.Time) *IngestUseCase {
	if now == nil {
		now = time.Now
	}
	return &IngestUseCase{
		repo:       repo,
		messages:   messages,
		classifier: classifier,
		metrics:    m,
		now:        now,
	}
}

// Ingest creates a case from ev. Events without text are dropped and nil is
// returned without error. External reports are always anonymous: the sender
// reference is kept only as the author of the first message.
func (uc *IngestUseCase) Ingest(ctx context.Context, tenantID types.TenantID, ev *model.ReportEvent) (*model.Case, error) {
	if ev == nil || strings.TrimSpace(ev.Text) == "" {
		if ev != nil {
			uc.metrics.ObserveIngest(ev.Channel, IngestRejected)
			logging.From(ctx).Debug("report event without text dropped", "channel", ev.Channel)
		}
		return nil, nil
	}
	if tenantID == "" {
		tenantID = types.DefaultTenantID
	}

	created, err := uc.ingest(ctx, tenantID, ev)
	if err != nil {
		uc.metrics.ObserveIngest(ev.Channel, IngestError)
		return nil, goerr.Wrap(err, "failed to ingest report",
			goerr.V(model.TenantIDKey, tenantID), goerr.V(model.ChannelKey, ev.Channel))
	}

	uc.metrics.ObserveIngest(ev.Channel, IngestCreated)
	logging.From(ctx).Info("report ingested",
		"case_id", created.ID,
		"channel", ev.Channel,
		"priority", created.Priority.Level,
	)
	return created, nil
}

func (uc *IngestUseCase) ingest(ctx context.Context, tenantID types.TenantID, ev *model.ReportEvent) (*model.Case, error) {
	classification, err := uc.classifier.Analyze(ctx, ev.Text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to classify report")
	}

	sender := ev.Sender()
	env, err := uc.messages.Encrypt(ev.Text)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encrypt report text")
	}

	now := uc.now().UTC()
	c := &model.Case{
		ID:             model.NewCaseID(),
		TenantID:       tenantID,
		Title:          fmt.Sprintf("[%s] Denúncia via canal externo", ev.Channel),
		Description:    ev.Text,
		Summary:        classification.Summary,
		Categories:     classification.Categories,
		Priority:       classification.Priority,
		Status:         types.CaseStatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
		Anonymous:      true,
		Source:         ev.Channel,
		ExternalSender: &sender,
		Assignments:    map[types.Role]types.UserID{},
		Messages: []model.MessageRef{
			{
				ID:        model.NewMessageID(now),
				Author:    sender,
				Encrypted: *env,
				CreatedAt: now,
			},
		},
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	created, err := uc.repo.Case().Create(ctx, tenantID, c)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create case", goerr.V(model.CaseIDKey, c.ID))
	}
	return created, nil
}
