// Package metrics holds the process-wide HTTP instruments. Module-specific
// counters live next to their modules; only transport-level measurements
// belong here.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts served requests by method and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_http_requests_total",
		Help: "HTTP requests served.",
	}, []string{"method", "status"})

	// HTTPDuration observes request latency by method.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bigoffice_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	// HTTPInFlight gauges requests currently being served.
	HTTPInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bigoffice_http_requests_in_flight",
		Help: "HTTP requests currently in flight.",
	})
)
