// Package metrics provides Prometheus metrics for feature lifecycles and token decoding.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"society-platform/internal/lifecycle"
)

// Metrics holds all Prometheus collectors. A disabled instance is a no-op.
type Metrics struct {
	enabled bool

	transitionsTotal *prometheus.CounterVec
	triggerDuration  *prometheus.HistogramVec
	decodeFailures   *prometheus.CounterVec
}

// New registers collectors on reg. If enabled is false or reg is nil, it
// returns a no-op Metrics instance.
func New(enabled bool, reg prometheus.Registerer) *Metrics {
	m := &Metrics{enabled: enabled && reg != nil}
	if !m.enabled {
		return m
	}

	f := promauto.With(reg)

	m.transitionsTotal = f.NewCounterVec(prometheus.CounterOpts{
		Name: "society_feature_transitions_total",
		Help: "Applied lifecycle transitions by feature and target status",
	}, []string{"feature", "status"})

	m.triggerDuration = f.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "society_feature_trigger_duration_seconds",
		Help:    "Duration of feature triggers by outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"feature", "outcome"})

	m.decodeFailures = f.NewCounterVec(prometheus.CounterOpts{
		Name: "society_token_decode_failures_total",
		Help: "Token payload decodes absorbed as absent claims",
	}, []string{"reason"})

	return m
}

// ObserveTransition counts an applied lifecycle transition.
// It has the lifecycle.Observer signature.
func (m *Metrics) ObserveTransition(tr lifecycle.Transition) {
	if !m.enabled {
		return
	}
	m.transitionsTotal.WithLabelValues(tr.Machine, string(tr.To)).Inc()
}

// ObserveTrigger records how long a trigger took. Outcome is "resolved",
// "rejected", "superseded" or "panic".
func (m *Metrics) ObserveTrigger(feature, outcome string, seconds float64) {
	if !m.enabled {
		return
	}
	m.triggerDuration.WithLabelValues(feature, outcome).Observe(seconds)
}

// RecordDecodeFailure counts an absorbed token decode failure.
func (m *Metrics) RecordDecodeFailure(reason string) {
	if !m.enabled {
		return
	}
	m.decodeFailures.WithLabelValues(reason).Inc()
}
