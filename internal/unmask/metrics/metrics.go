// Package metrics exposes Prometheus instruments for the unmask workflow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsCreated counts unmask requests accepted into pending state.
	RequestsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_unmask_requests_created_total",
		Help: "Unmask requests accepted into pending state.",
	}, []string{"field"})

	// RequestsDenied counts requests refused before a row was written.
	RequestsDenied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_unmask_requests_denied_total",
		Help: "Unmask requests denied before creation.",
	}, []string{"reason"})

	// CodeVerifications counts second-factor verification attempts by outcome.
	CodeVerifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_unmask_code_verifications_total",
		Help: "Second-factor verification attempts.",
	}, []string{"result"})

	// Decisions counts approve/reject/expire transitions.
	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_unmask_decisions_total",
		Help: "Unmask request state transitions out of pending.",
	}, []string{"status"})

	// Disclosures counts unmasked values actually handed out.
	Disclosures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_unmask_disclosures_total",
		Help: "Unmasked field values disclosed to requesters.",
	}, []string{"field"})
)
