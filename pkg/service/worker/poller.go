package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/ouvidoria/pkg/domain/interfaces"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/service/metrics"
	"github.com/secmon-lab/ouvidoria/pkg/utils/errutil"
	"github.com/secmon-lab/ouvidoria/pkg/utils/logging"
)

// Poller periodically fetches reports from an external channel and ingests the
// ones not seen before.
//
// Architecture assumptions:
//   - One poller per channel per process. With a shared Redis seen store several
//     processes may poll the same channel without double ingestion.
type Poller struct {
	source   interfaces.PollSource
	seen     interfaces.SeenStore
	ingester interfaces.ReportIngester
	tenantID types.TenantID
	interval time.Duration
	metrics  *metrics.Metrics

	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

type PollerOption func(*Poller)

// WithMetrics records poll results
func WithMetrics(m *metrics.Metrics) PollerOption {
	return func(p *Poller) {
		p.metrics = m
	}
}

// WithTenant sets the tenant that receives polled reports, default "default"
func WithTenant(tenantID types.TenantID) PollerOption {
	return func(p *Poller) {
		p.tenantID = tenantID
	}
}

// NewPoller creates a poller for source
func NewPoller(source interfaces.PollSource, seen interfaces.SeenStore, ingester interfaces.ReportIngester, interval time.Duration, opts ...PollerOption) *Poller {
	p := &Poller{
		source:   source,
		seen:     seen,
		ingester: ingester,
		tenantID: types.DefaultTenantID,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Channel returns the polled channel
func (p *Poller) Channel() types.Channel {
	return p.source.Channel()
}

// Start begins the poll loop in a background goroutine. The first iteration runs immediately.
func (p *Poller) Start(ctx context.Context) {
	logging.From(ctx).Info("Poller starting",
		slog.String("channel", p.Channel().String()),
		slog.String("interval", p.interval.String()))

	go p.run(ctx)
}

// Stop signals the poller to stop and waits until an in-flight iteration completes
func (p *Poller) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
	})
	<-p.doneCh
	logging.Default().Info("Poller stopped", slog.String("channel", p.Channel().String()))
}

// run is the main poll loop (runs in goroutine)
func (p *Poller) run(ctx context.Context) {
	defer close(p.doneCh)

	logger := logging.From(ctx).With(slog.String("channel", p.Channel().String()))
	ctx = logging.With(ctx, logger)

	if err := p.PollOnce(ctx); err != nil {
		_ = errutil.Handle(ctx, err, "Initial poll failed (will retry next interval)")
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// a stop requested while the tick was pending wins
			select {
			case <-p.stopCh:
				return
			default:
			}

			if err := p.PollOnce(ctx); err != nil {
				_ = errutil.Handle(ctx, err, "Poll failed (will retry next interval)")
			}

		case <-p.stopCh:
			logger.Info("Poller received stop signal")
			return

		case <-ctx.Done():
			logger.Info("Poller context cancelled")
			return
		}
	}
}

// PollOnce runs a single fetch and ingest cycle. Events are marked seen before
// ingestion and unmarked if ingestion fails, so a failed event is retried on
// the next poll.
func (p *Poller) PollOnce(ctx context.Context) error {
	start := time.Now()
	ch := p.Channel()

	events, err := p.source.Fetch(ctx)
	if err != nil {
		p.metrics.ObservePoll(ch, metrics.ResultError, time.Since(start))
		return goerr.Wrap(err, "failed to fetch events", goerr.V(model.ChannelKey, ch))
	}

	var failed int
	for _, ev := range events {
		if ev == nil || ev.ExternalID == "" {
			continue
		}

		added, err := p.seen.Add(ctx, ch, ev.ExternalID)
		if err != nil {
			p.metrics.ObservePoll(ch, metrics.ResultError, time.Since(start))
			return goerr.Wrap(err, "failed to check seen store", goerr.V(model.ChannelKey, ch))
		}
		if !added {
			p.metrics.ObservePollEvent(ch, metrics.ResultDuplicate)
			continue
		}

		created, err := p.ingester.Ingest(ctx, p.tenantID, ev)
		if err != nil {
			failed++
			p.metrics.ObservePollEvent(ch, metrics.ResultError)
			if rmErr := p.seen.Remove(ctx, ch, ev.ExternalID); rmErr != nil {
				_ = errutil.Handle(ctx, rmErr, "failed to unmark event after ingest failure")
			}
			_ = errutil.Handle(ctx, err, "failed to ingest polled event")
			continue
		}

		if created == nil {
			p.metrics.ObservePollEvent(ch, metrics.ResultRejected)
		} else {
			p.metrics.ObservePollEvent(ch, metrics.ResultCreated)
		}
	}

	if failed > 0 {
		p.metrics.ObservePoll(ch, metrics.ResultError, time.Since(start))
		return goerr.New("some polled events were not ingested",
			goerr.V(model.ChannelKey, ch),
			goerr.V("failed", failed),
			goerr.V("fetched", len(events)))
	}

	p.metrics.ObservePoll(ch, metrics.ResultOK, time.Since(start))
	logging.From(ctx).Debug("Poll completed",
		slog.Int("fetched", len(events)),
		slog.String("duration", time.Since(start).String()))
	return nil
}
