// Package metrics exposes Prometheus instruments for the transition engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Transitions counts committed life-cycle operations by kind.
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_transitions_total",
		Help: "Committed transfer and promotion operations.",
	}, []string{"kind"})

	// TransitionsRejected counts operations refused before or during the
	// transaction, by reason.
	TransitionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_transitions_rejected_total",
		Help: "Transfer and promotion operations rejected.",
	}, []string{"kind", "reason"})

	// TransitionDuration observes end-to-end operation latency.
	TransitionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bigoffice_transition_duration_seconds",
		Help:    "End-to-end transition operation latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
)
