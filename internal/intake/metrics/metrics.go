package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the intake module.
type Metrics struct {
	// Sessions started by form kind
	SessionsStarted *prometheus.CounterVec

	// Media captures by form kind and source
	Captures *prometheus.CounterVec

	// Submissions committed by form kind
	Commits *prometheus.CounterVec

	// Finalize latency including validation and persistence
	FinalizeLatency prometheus.Histogram
}

// New creates a new Metrics instance with all intake metrics registered.
func New() *Metrics {
	return &Metrics{
		SessionsStarted: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgate_intake_sessions_started_total",
			Help: "Total intake sessions started by form kind",
		}, []string{"form_kind"}),

		Captures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgate_intake_captures_total",
			Help: "Total media captures by form kind and source",
		}, []string{"form_kind", "source"}),

		Commits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "assetgate_intake_commits_total",
			Help: "Total submissions committed by form kind",
		}, []string{"form_kind"}),

		FinalizeLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "assetgate_intake_finalize_duration_seconds",
			Help:    "Duration of finalize operations including validation and persistence",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementSessionsStarted records a started or resumed session.
func (m *Metrics) IncrementSessionsStarted(formKind string) {
	if m != nil {
		m.SessionsStarted.WithLabelValues(formKind).Inc()
	}
}

// IncrementCaptures records an accepted media capture.
func (m *Metrics) IncrementCaptures(formKind, source string) {
	if m != nil {
		m.Captures.WithLabelValues(formKind, source).Inc()
	}
}

// IncrementCommits records a successful submission commit.
func (m *Metrics) IncrementCommits(formKind string) {
	if m != nil {
		m.Commits.WithLabelValues(formKind).Inc()
	}
}

// ObserveFinalizeLatency records the duration of a finalize call.
func (m *Metrics) ObserveFinalizeLatency(d time.Duration) {
	if m != nil {
		m.FinalizeLatency.Observe(d.Seconds())
	}
}
