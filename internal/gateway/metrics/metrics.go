package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus metrics.
type Metrics struct {
	Decisions      *prometheus.CounterVec
	VerifyDuration prometheus.Histogram
	VerifyFailures prometheus.Counter
}

// New creates and registers all gateway metrics. Call once per process.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "taskgate_gateway_decisions_total",
			Help: "Gateway decisions by route class and outcome",
		}, []string{"class", "outcome"}),
		VerifyDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskgate_verify_duration_seconds",
			Help:    "Latency of credential verification against the authority",
			Buckets: prometheus.DefBuckets,
		}),
		VerifyFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "taskgate_verify_failures_total",
			Help: "Verifications that failed closed (missing, rejected, or unreachable)",
		}),
	}
}

// ObserveDecision records one evaluated request.
func (m *Metrics) ObserveDecision(class, outcome string) {
	m.Decisions.WithLabelValues(class, outcome).Inc()
}

// ObserveVerification records a verification round trip.
func (m *Metrics) ObserveVerification(d time.Duration, valid bool) {
	m.VerifyDuration.Observe(d.Seconds())
	if !valid {
		m.VerifyFailures.Inc()
	}
}
