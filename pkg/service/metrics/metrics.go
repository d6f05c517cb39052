package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/secmon-lab/ouvidoria/pkg/domain/types"
)

// Result labels
const (
	ResultCreated   = "created"
	ResultRejected  = "rejected"
	ResultDuplicate = "duplicate"
	ResultError     = "error"
	ResultOK        = "ok"
)

// Metrics holds Prometheus metrics for intake. A nil *Metrics is valid and records nothing.
type Metrics struct {
	IngestTotal  *prometheus.CounterVec
	PollTotal    *prometheus.CounterVec
	PollEvents   *prometheus.CounterVec
	PollDuration *prometheus.HistogramVec
}

// New registers and returns intake metrics on the given registerer
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		IngestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ouvidoria_ingest_total",
			Help: "Total ingested reports by channel and result.",
		}, []string{"channel", "result"}),
		PollTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ouvidoria_poll_total",
			Help: "Total poll iterations by channel and result.",
		}, []string{"channel", "result"}),
		PollEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ouvidoria_poll_events_total",
			Help: "Events fetched by pollers by channel and result.",
		}, []string{"channel", "result"}),
		PollDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ouvidoria_poll_duration_seconds",
			Help:    "Duration of poll iterations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10), // 0.1s .. ~51s
		}, []string{"channel"}),
	}

	reg.MustRegister(
		m.IngestTotal,
		m.PollTotal,
		m.PollEvents,
		m.PollDuration,
	)

	return m
}

func (m *Metrics) ObserveIngest(ch types.Channel, result string) {
	if m == nil {
		return
	}
	m.IngestTotal.WithLabelValues(ch.String(), result).Inc()
}

func (m *Metrics) ObservePoll(ch types.Channel, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.PollTotal.WithLabelValues(ch.String(), result).Inc()
	m.PollDuration.WithLabelValues(ch.String()).Observe(elapsed.Seconds())
}

func (m *Metrics) ObservePollEvent(ch types.Channel, result string) {
	if m == nil {
		return
	}
	m.PollEvents.WithLabelValues(ch.String(), result).Inc()
}
