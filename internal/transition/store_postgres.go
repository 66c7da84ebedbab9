package transition

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/tx"
)

// PostgresStore persists history events in PostgreSQL. Events insert inside
// the context-carried transaction; both tables are insert-only.
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

func (s *PostgresStore) InsertTransfer(ctx context.Context, e *TransferEvent) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO transfer_events (id, officer_id, from_office_id, to_office_id, to_designation_id, effective_date, order_ref, remarks, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		uuid.UUID(e.ID), uuid.UUID(e.OfficerID), nullableUUID(uuid.UUID(e.FromOfficeID)), uuid.UUID(e.ToOfficeID),
		nullableUUID(uuid.UUID(e.ToDesignationID)), e.EffectiveDate, e.OrderRef, e.Remarks, uuid.UUID(e.CreatedBy), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transfer event: %w", err)
	}
	return nil
}

func (s *PostgresStore) InsertPromotion(ctx context.Context, e *PromotionEvent) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO promotion_events (id, officer_id, from_designation_id, to_designation_id, from_grade, to_grade, new_salary, effective_date, order_ref, remarks, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		uuid.UUID(e.ID), uuid.UUID(e.OfficerID), nullableUUID(uuid.UUID(e.FromDesignationID)), uuid.UUID(e.ToDesignationID),
		e.FromGrade, e.ToGrade, e.NewSalary, e.EffectiveDate, e.OrderRef, e.Remarks, uuid.UUID(e.CreatedBy), e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert promotion event: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListTransfers(ctx context.Context, officerID id.OfficerID) ([]*TransferEvent, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, officer_id, from_office_id, to_office_id, to_designation_id, effective_date, order_ref, remarks, created_by, created_at
		FROM transfer_events
		WHERE officer_id = $1
		ORDER BY effective_date DESC, created_at DESC`,
		uuid.UUID(officerID),
	)
	if err != nil {
		return nil, fmt.Errorf("list transfer events: %w", err)
	}
	defer rows.Close()

	var out []*TransferEvent
	for rows.Next() {
		var e TransferEvent
		var eventID, offID, toOffice, createdBy uuid.UUID
		var fromOffice, toDesignation uuid.NullUUID
		if err := rows.Scan(&eventID, &offID, &fromOffice, &toOffice, &toDesignation, &e.EffectiveDate, &e.OrderRef, &e.Remarks, &createdBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan transfer event: %w", err)
		}
		e.ID = id.TransferEventID(eventID)
		e.OfficerID = id.OfficerID(offID)
		e.ToOfficeID = id.OfficeID(toOffice)
		e.CreatedBy = id.UserID(createdBy)
		if fromOffice.Valid {
			e.FromOfficeID = id.OfficeID(fromOffice.UUID)
		}
		if toDesignation.Valid {
			e.ToDesignationID = id.DesignationID(toDesignation.UUID)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer events: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) ListPromotions(ctx context.Context, officerID id.OfficerID) ([]*PromotionEvent, error) {
	rows, err := s.execer(ctx).QueryContext(ctx, `
		SELECT id, officer_id, from_designation_id, to_designation_id, from_grade, to_grade, new_salary, effective_date, order_ref, remarks, created_by, created_at
		FROM promotion_events
		WHERE officer_id = $1
		ORDER BY effective_date DESC, created_at DESC`,
		uuid.UUID(officerID),
	)
	if err != nil {
		return nil, fmt.Errorf("list promotion events: %w", err)
	}
	defer rows.Close()

	var out []*PromotionEvent
	for rows.Next() {
		var e PromotionEvent
		var eventID, offID, toDesignation, createdBy uuid.UUID
		var fromDesignation uuid.NullUUID
		if err := rows.Scan(&eventID, &offID, &fromDesignation, &toDesignation, &e.FromGrade, &e.ToGrade, &e.NewSalary, &e.EffectiveDate, &e.OrderRef, &e.Remarks, &createdBy, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan promotion event: %w", err)
		}
		e.ID = id.PromotionEventID(eventID)
		e.OfficerID = id.OfficerID(offID)
		e.ToDesignationID = id.DesignationID(toDesignation)
		e.CreatedBy = id.UserID(createdBy)
		if fromDesignation.Valid {
			e.FromDesignationID = id.DesignationID(fromDesignation.UUID)
		}
		out = append(out, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate promotion events: %w", err)
	}
	return out, nil
}

func nullableUUID(u uuid.UUID) any {
	if u == uuid.Nil {
		return nil
	}
	return u
}
