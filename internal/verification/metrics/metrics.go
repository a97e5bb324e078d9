package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the verification engine.
type Metrics struct {
	Outcomes        *prometheus.CounterVec
	ScoresClamped   *prometheus.CounterVec
	EvaluateLatency prometheus.Histogram
	ThresholdReload prometheus.Counter
}

// New creates and registers all verification metrics.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veristat_verifications_total",
			Help: "Total number of resolved verification attempts, labeled by status",
		}, []string{"status"}),
		ScoresClamped: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "veristat_scores_clamped_total",
			Help: "Total number of out-of-range input scores clamped during normalization, labeled by field kind",
		}, []string{"field"}),
		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "veristat_evaluate_latency_seconds",
			Help:    "Latency of verification evaluations in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ThresholdReload: promauto.NewCounter(prometheus.CounterOpts{
			Name: "veristat_threshold_reloads_total",
			Help: "Total number of successful threshold snapshot reloads",
		}),
	}
}

// IncrementOutcome records one resolved attempt by terminal status.
func (m *Metrics) IncrementOutcome(status string) {
	m.Outcomes.WithLabelValues(status).Inc()
}

// IncrementClamped records one clamped input score by field kind.
func (m *Metrics) IncrementClamped(field string) {
	m.ScoresClamped.WithLabelValues(field).Inc()
}

// ObserveEvaluateLatency records the duration of one evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	m.EvaluateLatency.Observe(d.Seconds())
}

// IncrementThresholdReload records one successful snapshot swap.
func (m *Metrics) IncrementThresholdReload() {
	m.ThresholdReload.Inc()
}
