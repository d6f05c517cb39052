package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/ouvidoria/pkg/domain/model"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
	"github.com/secmon-lab/ouvidoria/pkg/repository/memory"
	"github.com/secmon-lab/ouvidoria/pkg/service/worker"
)

// mockSource is a PollSource returning a fixed event list
type mockSource struct {
	mu      sync.Mutex
	events  []*model.ReportEvent
	err     error
	fetched int
}

func (m *mockSource) Channel() types.Channel {
	return types.ChannelInstagram
}

func (m *mockSource) Fetch(ctx context.Context) ([]*model.ReportEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetched++
	if m.err != nil {
		return nil, m.err
	}
	result := make([]*model.ReportEvent, len(m.events))
	for i, ev := range m.events {
		copied := *ev
		result[i] = &copied
	}
	return result, nil
}

func (m *mockSource) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetched
}

// mockIngester records ingested events and can fail a number of times
type mockIngester struct {
	mu       sync.Mutex
	ingested []*model.ReportEvent
	tenants  []types.TenantID
	failures int
}

func (m *mockIngester) Ingest(ctx context.Context, tenantID types.TenantID, ev *model.ReportEvent) (*model.Case, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failures > 0 {
		m.failures--
		return nil, errors.New("store unavailable")
	}
	m.ingested = append(m.ingested, ev)
	m.tenants = append(m.tenants, tenantID)
	return &model.Case{ID: model.NewCaseID()}, nil
}

func (m *mockIngester) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.ingested)
}

func TestPollerDeduplicates(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{events: []*model.ReportEvent{
		{Channel: types.ChannelInstagram, Text: "Relato", SenderRef: "u1", ExternalID: "m1"},
	}}
	ingester := &mockIngester{}
	p := worker.NewPoller(source, memory.NewSeenStore(), ingester, time.Hour)

	gt.NoError(t, p.PollOnce(ctx)).Required()
	gt.NoError(t, p.PollOnce(ctx)).Required()

	gt.Number(t, ingester.count()).Equal(1)
	gt.Value(t, ingester.tenants[0]).Equal(types.DefaultTenantID)
}

func TestPollerSkipsEventsWithoutID(t *testing.T) {
	source := &mockSource{events: []*model.ReportEvent{
		{Channel: types.ChannelInstagram, Text: "sem id"},
	}}
	ingester := &mockIngester{}
	p := worker.NewPoller(source, memory.NewSeenStore(), ingester, time.Hour)

	gt.NoError(t, p.PollOnce(context.Background())).Required()
	gt.Number(t, ingester.count()).Equal(0)
}

func TestPollerRetriesFailedIngest(t *testing.T) {
	ctx := context.Background()
	source := &mockSource{events: []*model.ReportEvent{
		{Channel: types.ChannelInstagram, Text: "Relato", ExternalID: "m1"},
	}}
	ingester := &mockIngester{failures: 1}
	p := worker.NewPoller(source, memory.NewSeenStore(), ingester, time.Hour, worker.WithTenant("acme"))

	gt.Error(t, p.PollOnce(ctx))
	gt.Number(t, ingester.count()).Equal(0)

	gt.NoError(t, p.PollOnce(ctx)).Required()
	gt.Number(t, ingester.count()).Equal(1)
	gt.Value(t, ingester.tenants[0]).Equal(types.TenantID("acme"))
}

func TestPollerFetchError(t *testing.T) {
	source := &mockSource{err: errors.New("graph down")}
	p := worker.NewPoller(source, memory.NewSeenStore(), &mockIngester{}, time.Hour)
	gt.Error(t, p.PollOnce(context.Background()))
}

func TestPollerStartStop(t *testing.T) {
	t.Run("first iteration runs immediately and stop halts the loop", func(t *testing.T) {
		source := &mockSource{}
		p := worker.NewPoller(source, memory.NewSeenStore(), &mockIngester{}, time.Hour)

		p.Start(context.Background())
		deadline := time.Now().Add(2 * time.Second)
		for source.fetchCount() == 0 && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		p.Stop()

		gt.Number(t, source.fetchCount()).Equal(1)
	})

	t.Run("no tick runs after stop", func(t *testing.T) {
		source := &mockSource{}
		p := worker.NewPoller(source, memory.NewSeenStore(), &mockIngester{}, 10*time.Millisecond)

		p.Start(context.Background())
		time.Sleep(50 * time.Millisecond)
		p.Stop()

		after := source.fetchCount()
		time.Sleep(50 * time.Millisecond)
		gt.Number(t, source.fetchCount()).Equal(after)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		p := worker.NewPoller(&mockSource{}, memory.NewSeenStore(), &mockIngester{}, time.Hour)
		p.Start(context.Background())
		p.Stop()
		p.Stop()
	})

	t.Run("group stops all pollers", func(t *testing.T) {
		s1, s2 := &mockSource{}, &mockSource{}
		g := worker.NewGroup(
			worker.NewPoller(s1, memory.NewSeenStore(), &mockIngester{}, time.Hour),
			worker.NewPoller(s2, memory.NewSeenStore(), &mockIngester{}, time.Hour),
		)
		g.Start(context.Background())
		g.Stop()
		gt.Number(t, g.Len()).Equal(2)
	})
}
