// Package metrics exposes Prometheus instruments for the audit recorder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsWritten counts audit rows durably persisted, by access type.
	RecordsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_audit_records_written_total",
		Help: "Audit access records durably persisted.",
	}, []string{"access_type"})

	// RecordsDropped counts records lost because the async queue was full or
	// retries were exhausted. Nonzero values mean disclosures happened without
	// a durable trail and should alert.
	RecordsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_audit_records_dropped_total",
		Help: "Audit access records dropped before being persisted.",
	}, []string{"reason"})

	// WriteRetries counts store write attempts beyond the first.
	WriteRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigoffice_audit_write_retries_total",
		Help: "Audit store write retry attempts.",
	})

	// QueueDepth tracks the async submission queue occupancy.
	QueueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bigoffice_audit_queue_depth",
		Help: "Records waiting in the async audit queue.",
	})
)
