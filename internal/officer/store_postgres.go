package officer

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

// PostgresStore persists officers in PostgreSQL, joining the context-carried
// transaction when one is present. Transition use cases rely on that to make
// the current-state update atomic with the history insert.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

const officerColumns = `
	id, full_name,
	personal_mobile, office_phone, personal_email, official_email,
	national_id, passport_no, tin,
	date_of_birth, blood_group, marital_status, permanent_address,
	bank_account, salary,
	office_id, designation_id, grade,
	phone_visibility, email_visibility, nid_visibility, profile_published,
	created_by, created_at, updated_at`

func (s *PostgresStore) Create(ctx context.Context, o *Officer) error {
	_, err := s.execer(ctx).ExecContext(ctx, `
		INSERT INTO officers (`+officerColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15,
		        $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)`,
		uuid.UUID(o.ID), o.FullName,
		o.PersonalMobile, o.OfficePhone, o.PersonalEmail, o.OfficialEmail,
		o.NationalID, o.PassportNo, o.TIN,
		nullTime(o.DateOfBirth), o.BloodGroup, o.MaritalStatus, o.PermanentAddress,
		o.BankAccount, o.Salary,
		uuid.UUID(o.OfficeID), uuid.UUID(o.DesignationID), o.Grade,
		string(o.PhoneVisibility), string(o.EmailVisibility), string(o.NIDVisibility), o.ProfilePublished,
		uuid.UUID(o.CreatedBy), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create officer: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, officerID id.OfficerID) (*Officer, error) {
	row := s.execer(ctx).QueryRowContext(ctx,
		`SELECT `+officerColumns+` FROM officers WHERE id = $1`,
		uuid.UUID(officerID),
	)
	o, err := scanOfficer(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get officer: %w", err)
	}
	return o, nil
}

func (s *PostgresStore) Update(ctx context.Context, o *Officer) error {
	res, err := s.execer(ctx).ExecContext(ctx, `
		UPDATE officers SET
			full_name = $2,
			personal_mobile = $3, office_phone = $4, personal_email = $5, official_email = $6,
			national_id = $7, passport_no = $8, tin = $9,
			date_of_birth = $10, blood_group = $11, marital_status = $12, permanent_address = $13,
			bank_account = $14, salary = $15,
			office_id = $16, designation_id = $17, grade = $18,
			phone_visibility = $19, email_visibility = $20, nid_visibility = $21, profile_published = $22,
			updated_at = $23
		WHERE id = $1`,
		uuid.UUID(o.ID), o.FullName,
		o.PersonalMobile, o.OfficePhone, o.PersonalEmail, o.OfficialEmail,
		o.NationalID, o.PassportNo, o.TIN,
		nullTime(o.DateOfBirth), o.BloodGroup, o.MaritalStatus, o.PermanentAddress,
		o.BankAccount, o.Salary,
		uuid.UUID(o.OfficeID), uuid.UUID(o.DesignationID), o.Grade,
		string(o.PhoneVisibility), string(o.EmailVisibility), string(o.NIDVisibility), o.ProfilePublished,
		o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update officer: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update officer rows: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func scanOfficer(scan func(dest ...any) error) (*Officer, error) {
	var o Officer
	var officerID, officeID, designationID, createdBy uuid.UUID
	var phoneVis, emailVis, nidVis string
	var dob sql.NullTime
	err := scan(
		&officerID, &o.FullName,
		&o.PersonalMobile, &o.OfficePhone, &o.PersonalEmail, &o.OfficialEmail,
		&o.NationalID, &o.PassportNo, &o.TIN,
		&dob, &o.BloodGroup, &o.MaritalStatus, &o.PermanentAddress,
		&o.BankAccount, &o.Salary,
		&officeID, &designationID, &o.Grade,
		&phoneVis, &emailVis, &nidVis, &o.ProfilePublished,
		&createdBy, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.ID = id.OfficerID(officerID)
	o.OfficeID = id.OfficeID(officeID)
	o.DesignationID = id.DesignationID(designationID)
	o.CreatedBy = id.UserID(createdBy)
	o.PhoneVisibility = id.VisibilityLevel(phoneVis)
	o.EmailVisibility = id.VisibilityLevel(emailVis)
	o.NIDVisibility = id.VisibilityLevel(nidVis)
	if dob.Valid {
		o.DateOfBirth = dob.Time
	}
	return &o, nil
}

func nullTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
