package activity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/tx"
)

// PostgresStore persists activity entries in PostgreSQL, joining the
// context-carried transaction when one is present.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, e *Entry) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO activity_log (id, actor_id, actor_role, action, entity_type, entity_id, details, correlation_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		uuid.UUID(e.ID), uuid.UUID(e.ActorID), string(e.ActorRole),
		e.Action, e.EntityType, e.EntityID, e.Details, e.CorrelationID, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append activity entry: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByEntity(ctx context.Context, entityType, entityID string) ([]*Entry, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, actor_id, actor_role, action, entity_type, entity_id, details, correlation_id, created_at
		FROM activity_log
		WHERE entity_type = $1 AND entity_id = $2
		ORDER BY created_at`,
		entityType, entityID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activity entries: %w", err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		var e Entry
		var entryID, actorID uuid.UUID
		var role string
		if err := rows.Scan(&entryID, &actorID, &role, &e.Action, &e.EntityType, &e.EntityID, &e.Details, &e.CorrelationID, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity entry: %w", err)
		}
		e.ID = id.ActivityID(entryID)
		e.ActorID = id.UserID(actorID)
		e.ActorRole = id.Role(role)
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity entries: %w", err)
	}
	return out, nil
}
