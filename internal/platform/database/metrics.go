package database

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	txBegan = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigoffice_tx_began_total",
		Help: "Write transactions begun by the transaction engine",
	})
	txCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigoffice_tx_committed_total",
		Help: "Write transactions committed",
	})
	txRolledBack = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigoffice_tx_rolled_back_total",
		Help: "Write transactions rolled back after a handler error",
	})
	txFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigoffice_tx_failed_total",
		Help: "Transactions that failed to begin or commit",
	})
)
