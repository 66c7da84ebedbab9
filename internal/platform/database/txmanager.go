package database

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	dErrors "bigoffice/pkg/domain-errors"
	"bigoffice/pkg/platform/tx"
)

// TxOptions names one engine invocation for traceability. Every begin, commit
// and rollback line carries the correlation ID and operation name.
type TxOptions struct {
	CorrelationID string
	Operation     string
}

// Engine executes a handler as one atomic unit: either every statement inside
// the handler is durably persisted or none are. Implementations serialize
// write transactions so only one is in flight at a time.
//
// Nested use is an explicit error (CodeInvariantViolation), not undefined
// behavior: a handler must never call back into the engine.
type Engine interface {
	WithTransaction(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error
}

// Manager is the PostgreSQL-backed Engine. The transaction is carried through
// context (pkg/platform/tx) so stores bound to the same operation share it.
type Manager struct {
	db     *sql.DB
	logger *slog.Logger
	mu     sync.Mutex
}

// NewManager creates the SQL transaction engine over an open pool.
func NewManager(db *sql.DB, logger *slog.Logger) *Manager {
	return &Manager{db: db, logger: logger}
}

// WithTransaction begins an exclusive write transaction, invokes fn with the
// transaction in context, and commits on success. Any error from fn triggers
// rollback and is returned unchanged; a rollback failure is logged but the
// original error stays authoritative.
func (m *Manager) WithTransaction(ctx context.Context, opts TxOptions, fn func(ctx context.Context) error) error {
	if _, ok := tx.From(ctx); ok {
		return dErrors.New(dErrors.CodeInvariantViolation, "nested write transaction")
	}
	if opts.CorrelationID == "" {
		opts.CorrelationID = uuid.New().String()
	}

	// Single writer: readers proceed concurrently, write transactions queue.
	m.mu.Lock()
	defer m.mu.Unlock()

	txBegan.Inc()
	m.logger.InfoContext(ctx, "tx begin",
		"correlation_id", opts.CorrelationID,
		"operation", opts.Operation,
	)

	sqlTx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		txFailed.Inc()
		return dErrors.Wrap(err, dErrors.CodeTransactionFailure, "begin transaction")
	}

	if err := fn(tx.WithTx(ctx, sqlTx)); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil {
			m.logger.ErrorContext(ctx, "tx rollback failed",
				"correlation_id", opts.CorrelationID,
				"operation", opts.Operation,
				"error", rbErr,
			)
		} else {
			m.logger.WarnContext(ctx, "tx rollback",
				"correlation_id", opts.CorrelationID,
				"operation", opts.Operation,
				"error", err,
			)
		}
		txRolledBack.Inc()
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		txFailed.Inc()
		return dErrors.Wrap(err, dErrors.CodeTransactionFailure, "commit transaction")
	}

	txCommitted.Inc()
	m.logger.InfoContext(ctx, "tx commit",
		"correlation_id", opts.CorrelationID,
		"operation", opts.Operation,
	)
	return nil
}
