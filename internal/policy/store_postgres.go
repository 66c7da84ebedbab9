package policy

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
	"bigoffice/pkg/platform/tx"
)

// PostgresStore persists field access policies in PostgreSQL.
// When the context carries a transaction (pkg/platform/tx), all statements
// run inside it.
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

func (s *PostgresStore) Get(ctx context.Context, role id.Role, field id.Field) (*FieldAccessPolicy, error) {
	query := `
		SELECT role, field_name, can_view, can_unmask, requires_mfa, requires_approval, max_requests_per_day
		FROM field_access_policies
		WHERE role = $1 AND field_name = $2
	`
	var p FieldAccessPolicy
	err := s.execer(ctx).QueryRowContext(ctx, query, string(role), string(field)).Scan(
		&p.Role, &p.Field, &p.CanView, &p.CanUnmask, &p.RequiresMFA, &p.RequiresApproval, &p.MaxRequestsPerDay,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get field access policy: %w", err)
	}
	return &p, nil
}

func (s *PostgresStore) Upsert(ctx context.Context, p *FieldAccessPolicy) error {
	if p == nil {
		return fmt.Errorf("policy is required")
	}
	query := `
		INSERT INTO field_access_policies (role, field_name, can_view, can_unmask, requires_mfa, requires_approval, max_requests_per_day)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (role, field_name) DO UPDATE SET
			can_view = EXCLUDED.can_view,
			can_unmask = EXCLUDED.can_unmask,
			requires_mfa = EXCLUDED.requires_mfa,
			requires_approval = EXCLUDED.requires_approval,
			max_requests_per_day = EXCLUDED.max_requests_per_day
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		string(p.Role), string(p.Field), p.CanView, p.CanUnmask, p.RequiresMFA, p.RequiresApproval, p.MaxRequestsPerDay,
	)
	if err != nil {
		return fmt.Errorf("upsert field access policy: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, role id.Role, field id.Field) error {
	res, err := s.execer(ctx).ExecContext(ctx,
		`DELETE FROM field_access_policies WHERE role = $1 AND field_name = $2`,
		string(role), string(field),
	)
	if err != nil {
		return fmt.Errorf("delete field access policy: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete field access policy rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*FieldAccessPolicy, error) {
	query := `
		SELECT role, field_name, can_view, can_unmask, requires_mfa, requires_approval, max_requests_per_day
		FROM field_access_policies
		ORDER BY role, field_name
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list field access policies: %w", err)
	}
	defer rows.Close()

	var out []*FieldAccessPolicy
	for rows.Next() {
		var p FieldAccessPolicy
		if err := rows.Scan(&p.Role, &p.Field, &p.CanView, &p.CanUnmask, &p.RequiresMFA, &p.RequiresApproval, &p.MaxRequestsPerDay); err != nil {
			return nil, fmt.Errorf("scan field access policy: %w", err)
		}
		out = append(out, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate field access policies: %w", err)
	}
	return out, nil
}
