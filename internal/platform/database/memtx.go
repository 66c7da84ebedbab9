package database

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	dErrors "bigoffice/pkg/domain-errors"
)

// Snapshotter is implemented by in-memory stores that can capture their state
// and hand back a restore function. The memory engine uses it to undo every
// mutation a failed handler made.
type Snapshotter interface {
	Snapshot() (restore func())
}

type memTxKey struct{}

// MemManager is the in-memory Engine for tests and database-free deployments.
// It snapshots every registered store before running the handler and restores
// all of them when the handler fails, so no partial state survives.
type MemManager struct {
	logger *slog.Logger
	stores []Snapshotter
	mu     sync.Mutex
}

// NewMemManager creates a memory transaction engine over the given stores.
// Every store the handler may mutate must be registered, otherwise its writes
// would survive a rollback.
func NewMemManager(logger *slog.Logger, stores ...Snapshotter) *MemManager {
	return &MemManager{logger: logger, stores: stores}
}

// WithTransaction runs fn under the single-writer lock with all registered
// stores snapshotted. A handler error restores every snapshot (in reverse
// registration order) and is returned unchanged.
func (m *MemManager) WithTransaction(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if ctx.Value(memTxKey{}) != nil {
		return dErrors.New(dErrors.CodeInvariantViolation, "nested write transaction")
	}
	if opts.CorrelationID == "" {
		opts.CorrelationID = uuid.New().String()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	txBegan.Inc()
	m.logger.InfoContext(ctx, "tx begin",
		"correlation_id", opts.CorrelationID,
		"operation", opts.Operation,
	)

	restores := make([]func(), 0, len(m.stores))
	for _, s := range m.stores {
		restores = append(restores, s.Snapshot())
	}

	if err := fn(context.WithValue(ctx, memTxKey{}, opts.CorrelationID)); err != nil {
		for i := len(restores) - 1; i >= 0; i-- {
			restores[i]()
		}
		txRolledBack.Inc()
		m.logger.WarnContext(ctx, "tx rollback",
			"correlation_id", opts.CorrelationID,
			"operation", opts.Operation,
			"error", err,
		)
		return err
	}

	txCommitted.Inc()
	m.logger.InfoContext(ctx, "tx commit",
		"correlation_id", opts.CorrelationID,
		"operation", opts.Operation,
	)
	return nil
}
