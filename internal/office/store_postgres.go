package office

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	id "bigoffice/pkg/domain"
	"bigoffice/pkg/platform/sentinel"
	"bigoffice/pkg/platform/tx"
)

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PostgresOfficeStore persists offices in PostgreSQL. Statements join the
// transaction carried in the context when one is present.
type PostgresOfficeStore struct {
	db *sql.DB
}

func NewPostgresOfficeStore(db *sql.DB) *PostgresOfficeStore {
	return &PostgresOfficeStore{db: db}
}

func (s *PostgresOfficeStore) execer(ctx context.Context) dbExecutor {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresOfficeStore) Create(ctx context.Context, o *Office) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO offices (id, name, code, district, created_at) VALUES ($1, $2, $3, $4, $5)`,
		uuid.UUID(o.ID), o.Name, o.Code, o.District, o.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create office: %w", err)
	}
	return nil
}

func (s *PostgresOfficeStore) Get(ctx context.Context, officeID id.OfficeID) (*Office, error) {
	var o Office
	var rawID uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT id, name, code, district, created_at FROM offices WHERE id = $1`,
		uuid.UUID(officeID),
	).Scan(&rawID, &o.Name, &o.Code, &o.District, &o.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get office: %w", err)
	}
	o.ID = id.OfficeID(rawID)
	return &o, nil
}

func (s *PostgresOfficeStore) List(ctx context.Context) ([]*Office, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT id, name, code, district, created_at FROM offices ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("list offices: %w", err)
	}
	defer rows.Close()

	var out []*Office
	for rows.Next() {
		var o Office
		var rawID uuid.UUID
		if err := rows.Scan(&rawID, &o.Name, &o.Code, &o.District, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan office: %w", err)
		}
		o.ID = id.OfficeID(rawID)
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate offices: %w", err)
	}
	return out, nil
}

// PostgresDesignationStore persists designations in PostgreSQL.
type PostgresDesignationStore struct {
	db *sql.DB
}

func NewPostgresDesignationStore(db *sql.DB) *PostgresDesignationStore {
	return &PostgresDesignationStore{db: db}
}

func (s *PostgresDesignationStore) execer(ctx context.Context) dbExecutor {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *PostgresDesignationStore) Create(ctx context.Context, d *Designation) error {
	_, err := s.execer(ctx).ExecContext(ctx,
		`INSERT INTO designations (id, title, grade_level, created_at) VALUES ($1, $2, $3, $4)`,
		uuid.UUID(d.ID), d.Title, d.GradeLevel, d.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create designation: %w", err)
	}
	return nil
}

func (s *PostgresDesignationStore) Get(ctx context.Context, designationID id.DesignationID) (*Designation, error) {
	var d Designation
	var rawID uuid.UUID
	err := s.execer(ctx).QueryRowContext(ctx,
		`SELECT id, title, grade_level, created_at FROM designations WHERE id = $1`,
		uuid.UUID(designationID),
	).Scan(&rawID, &d.Title, &d.GradeLevel, &d.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get designation: %w", err)
	}
	d.ID = id.DesignationID(rawID)
	return &d, nil
}

func (s *PostgresDesignationStore) List(ctx context.Context) ([]*Designation, error) {
	rows, err := s.execer(ctx).QueryContext(ctx,
		`SELECT id, title, grade_level, created_at FROM designations ORDER BY grade_level`,
	)
	if err != nil {
		return nil, fmt.Errorf("list designations: %w", err)
	}
	defer rows.Close()

	var out []*Designation
	for rows.Next() {
		var d Designation
		var rawID uuid.UUID
		if err := rows.Scan(&rawID, &d.Title, &d.GradeLevel, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan designation: %w", err)
		}
		d.ID = id.DesignationID(rawID)
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate designations: %w", err)
	}
	return out, nil
}
