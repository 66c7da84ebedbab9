package unmask

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
	"bigoffice/pkg/platform/tx"
)

// PostgresStore persists unmask requests in PostgreSQL, joining the
// context-carried transaction when one is present. The quota count and the
// insert run inside one engine transaction, which closes the race between
// concurrent requests from the same actor.
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

const requestColumns = `
	request_id, user_id, officer_id, field_name, status,
	requires_mfa, requires_approval, mfa_code_hash, mfa_code_expires_at, mfa_verified,
	decided_by, decided_at, created_at`

func (s *PostgresStore) Insert(ctx context.Context, r *Request) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO unmask_requests (`+requestColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		uuid.UUID(r.ID), uuid.UUID(r.UserID), uuid.UUID(r.OfficerID), string(r.Field), string(r.Status),
		r.RequiresMFA, r.RequiresApproval, r.MFACodeHash, nullableTime(r.MFACodeExpiresAt), r.MFAVerified,
		nullableUUID(uuid.UUID(r.DecidedBy)), nullableTime(r.DecidedAt), r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert unmask request: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, requestID id.UnmaskRequestID) (*Request, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM unmask_requests WHERE request_id = $1`,
		uuid.UUID(requestID),
	)
	r, err := scanRequest(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get unmask request: %w", err)
	}
	return r, nil
}

func (s *PostgresStore) Update(ctx context.Context, r *Request) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE unmask_requests SET
			status = $2, mfa_verified = $3, decided_by = $4, decided_at = $5
		WHERE request_id = $1`,
		uuid.UUID(r.ID), string(r.Status), r.MFAVerified,
		nullableUUID(uuid.UUID(r.DecidedBy)), nullableTime(r.DecidedAt),
	)
	if err != nil {
		return fmt.Errorf("update unmask request: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update unmask request rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountActiveSince(ctx context.Context, userID id.UserID, field id.Field, since time.Time) (int, error) {
	var count int
	err := s.execer(ctx).QueryRowContext(ctx, `
		SELECT COUNT(*) FROM unmask_requests
		WHERE user_id = $1 AND field_name = $2
		  AND status IN ('pending', 'approved')
		  AND created_at >= $3`,
		uuid.UUID(userID), string(field), since,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count unmask requests: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) ListPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]*Request, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT `+requestColumns+` FROM unmask_requests
		WHERE status = 'pending' AND mfa_code_expires_at IS NOT NULL AND mfa_code_expires_at < $1
		ORDER BY mfa_code_expires_at
		LIMIT $2`,
		cutoff, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list expiring unmask requests: %w", err)
	}
	defer rows.Close()

	var out []*Request
	for rows.Next() {
		r, err := scanRequest(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan unmask request: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate unmask requests: %w", err)
	}
	return out, nil
}

func scanRequest(scan func(dest ...any) error) (*Request, error) {
	var r Request
	var requestID, userID, officerID uuid.UUID
	var decidedBy uuid.NullUUID
	var field, status string
	var expiresAt, decidedAt sql.NullTime
	err := scan(
		&requestID, &userID, &officerID, &field, &status,
		&r.RequiresMFA, &r.RequiresApproval, &r.MFACodeHash, &expiresAt, &r.MFAVerified,
		&decidedBy, &decidedAt, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	r.ID = id.UnmaskRequestID(requestID)
	r.UserID = id.UserID(userID)
	r.OfficerID = id.OfficerID(officerID)
	r.Field = id.Field(field)
	r.Status = Status(status)
	if expiresAt.Valid {
		r.MFACodeExpiresAt = expiresAt.Time
	}
	if decidedBy.Valid {
		r.DecidedBy = id.UserID(decidedBy.UUID)
	}
	if decidedAt.Valid {
		r.DecidedAt = decidedAt.Time
	}
	return &r, nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}

func nullableUUID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
