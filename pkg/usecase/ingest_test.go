package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/metrics"
	"github.com/secmon-lab/ouvidoria/pkg/usecase"
)

func TestIngestUseCase(t *testing.T) {
	ctx := context.Background()

	t.Run("external report becomes anonymous case", func(t *testing.T) {
		m := metrics.New(prometheus.NewRegistry())
		uc, _, vaults := newTestUseCases(t, usecase.WithMetrics(m))

		c, err := uc.Ingest.Ingest(ctx, testTenant, &model.ReportEvent{
			Channel:    types.ChannelWhatsApp,
			Text:       "Vi um caso de suborno no almoxarifado",
			SenderRef:  "5511999999999",
			ExternalID: "wamid.1",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, c).NotNil()
		gt.Bool(t, c.Anonymous).True()
		gt.Value(t, c.IdentityID).Nil()
		gt.Value(t, c.CreatedBy).Nil()
		gt.Value(t, c.Source).Equal(types.ChannelWhatsApp)
		gt.Value(t, c.Title).Equal("[whatsapp] Denúncia via canal externo")
		gt.Value(t, c.Status).Equal(types.CaseStatusNew)
		gt.Value(t, *c.ExternalSender).Equal("5511999999999")
		gt.Array(t, c.Categories).Has("fraude")

		gt.Array(t, c.Messages).Length(1)
		gt.Value(t, c.Messages[0].Author).Equal("5511999999999")
		text, err := vaults.Message.Decrypt(&c.Messages[0].Encrypted)
		gt.NoError(t, err).Required()
		gt.Value(t, text).Equal("Vi um caso de suborno no almoxarifado")

		gt.Number(t, testutil.ToFloat64(m.IngestTotal.WithLabelValues("whatsapp", usecase.IngestCreated))).Equal(1)
	})

	t.Run("missing sender uses placeholder", func(t *testing.T) {
		uc, _, _ := newTestUseCases(t)
		c, err := uc.Ingest.Ingest(ctx, testTenant, &model.ReportEvent{
			Channel: types.ChannelPhone,
			Text:    "relato por telefone",
		})
		gt.NoError(t, err).Required()
		gt.Value(t, *c.ExternalSender).Equal(model.DefaultExternalSender)
		gt.Value(t, c.Messages[0].Author).Equal(model.DefaultExternalSender)
	})

	t.Run("empty tenant falls back to default", func(t *testing.T) {
		uc, repo, _ := newTestUseCases(t)
		c, err := uc.Ingest.Ingest(ctx, "", &model.ReportEvent{Channel: types.ChannelEmail, Text: "texto"})
		gt.NoError(t, err).Required()
		gt.Value(t, c.TenantID).Equal(types.DefaultTenantID)

		stored, err := repo.Case().Get(ctx, types.DefaultTenantID, c.ID)
		gt.NoError(t, err).Required()
		gt.Value(t, stored.ID).Equal(c.ID)
	})

	t.Run("blank text is rejected without a case", func(t *testing.T) {
		m := metrics.New(prometheus.NewRegistry())
		uc, repo, _ := newTestUseCases(t, usecase.WithMetrics(m))

		c, err := uc.Ingest.Ingest(ctx, testTenant, &model.ReportEvent{Channel: types.ChannelInstagram, Text: "   "})
		gt.NoError(t, err)
		gt.Value(t, c).Nil()

		c, err = uc.Ingest.Ingest(ctx, testTenant, nil)
		gt.NoError(t, err)
		gt.Value(t, c).Nil()

		cases, err := repo.Case().List(ctx, testTenant)
		gt.NoError(t, err)
		gt.Array(t, cases).Length(0)
		gt.Number(t, testutil.ToFloat64(m.IngestTotal.WithLabelValues("instagram", usecase.IngestRejected))).Equal(1)
	})
}
