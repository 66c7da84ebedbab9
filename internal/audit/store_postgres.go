package audit

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/tx"
)

// PostgresStore persists access records in PostgreSQL. The audit table is
// insert-only; no update or delete statement exists in this package.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresStore) Append(ctx context.Context, rec *AccessRecord) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO audit_read_records (
			id, user_id, user_role, user_name, officer_id, officer_name,
			field_name, field_value_masked, access_type, access_reason,
			ip_address, user_agent, request_id, mfa_verified, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		uuid.UUID(rec.ID), uuid.UUID(rec.UserID), string(rec.UserRole), rec.UserName,
		uuid.UUID(rec.OfficerID), rec.OfficerName,
		string(rec.Field), rec.MaskedValue, string(rec.AccessType), rec.AccessReason,
		rec.IPAddress, rec.UserAgent, rec.RequestID, rec.MFAVerified, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByOfficer(ctx context.Context, officerID id.OfficerID, limit int) ([]*AccessRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, user_id, user_role, user_name, officer_id, officer_name,
		       field_name, field_value_masked, access_type, access_reason,
		       ip_address, user_agent, request_id, mfa_verified, created_at
		FROM audit_read_records
		WHERE officer_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		uuid.UUID(officerID), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var out []*AccessRecord
	for rows.Next() {
		var rec AccessRecord
		var recID, userID, offID uuid.UUID
		var role, accessType string
		if err := rows.Scan(
			&recID, &userID, &role, &rec.UserName, &offID, &rec.OfficerName,
			&rec.Field, &rec.MaskedValue, &accessType, &rec.AccessReason,
			&rec.IPAddress, &rec.UserAgent, &rec.RequestID, &rec.MFAVerified, &rec.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.ID = id.AuditRecordID(recID)
		rec.UserID = id.UserID(userID)
		rec.UserRole = id.Role(role)
		rec.OfficerID = id.OfficerID(offID)
		rec.AccessType = AccessType(accessType)
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit records: %w", err)
	}
	return out, nil
}
