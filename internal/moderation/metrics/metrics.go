package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the moderation module.
type Metrics struct {
	// Decision outcomes by action and result
	Decisions *prometheus.CounterVec

	// Decide latency including persistence and signing
	DecideLatency prometheus.Histogram
}

// New creates a new Metrics instance with all moderation metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgate_moderation_decisions_total",
			Help: "Total moderation decisions by action and result",
		}, []string{"action", "result"}), // result: "applied", "not_pending", "invalid"

		DecideLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetgate_moderation_decide_duration_seconds",
			Help:    "Duration of decide operations including signing and persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementDecision records a decision attempt outcome.
func (m *Metrics) IncrementDecision(action, result string) {
	if m != nil {
		m.Decisions.WithLabelValues(action, result).Inc()
	}
}

// ObserveDecideLatency records the duration of a decide call.
func (m *Metrics) ObserveDecideLatency(d time.Duration) {
	if m != nil {
		m.DecideLatency.Observe(d.Seconds())
	}
}
