// Package metrics exposes Prometheus instruments for the record filter.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordsFiltered counts officer records projected into views.
	RecordsFiltered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigoffice_officer_records_filtered_total",
		Help: "Officer records projected into role-appropriate views.",
	})

	// RecordsHidden counts records withheld entirely (unpublished profile,
	// anonymous viewer).
	RecordsHidden = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigoffice_officer_records_hidden_total",
		Help: "Officer records hidden entirely from the viewer.",
	})

	// FieldsMasked counts fields exposed in redacted form, by group.
	FieldsMasked = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_officer_fields_masked_total",
		Help: "Officer fields exposed in masked form.",
	}, []string{"group"})

	// FieldsWithheld counts fields removed by the visibility decision, by group.
	FieldsWithheld = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bigoffice_officer_fields_withheld_total",
		Help: "Officer fields withheld from the view.",
	}, []string{"group"})
)
