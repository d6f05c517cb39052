package interfaces

import (
	"context"

	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// ChannelAdapter turns a raw webhook payload into a ReportEvent. Parse returns
// nil when the payload is not a report.
type ChannelAdapter interface {
	Channel() types.Channel
	Parse(raw []byte) *model.ReportEvent
}

// PollSource fetches pending reports from an external channel
type PollSource interface {
	Channel() types.Channel
	Fetch(ctx context.Context) ([]*model.ReportEvent, error)
}

// ReportIngester accepts normalized reports from channels
type ReportIngester interface {
	Ingest(ctx context.Context, tenantID types.TenantID, ev *model.ReportEvent) (*model.Case, error)
}
