//go:build integration

package containers

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"bigoffice/migrations"
	id "bigoffice/pkg/domain"
)

// PostgresContainer wraps a testcontainers Postgres instance.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new Postgres container with migrations applied.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:18-alpine",
		postgres.WithDatabase("bigoffice_test"),
		postgres.WithUsername("bigoffice"),
		postgres.WithPassword("bigoffice_test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to connect to postgres: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		DSN:       dsn,
		DB:        db,
	}

	if err := pc.runMigrations(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Cleanup is left to Ryuk; the container is shared across suites.

	return pc
}

// runMigrations executes all *.sql files from the embedded migrations.FS in
// lexical order.
func (p *PostgresContainer) runMigrations(ctx context.Context) error {
	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	for _, file := range files {
		content, err := fs.ReadFile(migrations.FS, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}

		if _, err := p.DB.ExecContext(ctx, string(content)); err != nil {
			return fmt.Errorf("execute migration %s: %w", file, err)
		}
	}

	return nil
}

// TruncateTables clears all data from the specified tables.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	for _, table := range tables {
		_, err := p.DB.ExecContext(ctx, "TRUNCATE TABLE "+table+" CASCADE")
		if err != nil {
			return fmt.Errorf("truncate %s: %w", table, err)
		}
	}
	return nil
}

// TruncateModuleTables truncates every module table for full isolation.
// CASCADE handles the event-table references back to officers.
func (p *PostgresContainer) TruncateModuleTables(ctx context.Context) error {
	tables := []string{
		"audit_read_records",
		"activity_log",
		"unmask_requests",
		"transfer_events",
		"promotion_events",
		"field_access_policies",
		"officers",
		"designations",
		"offices",
	}
	return p.TruncateTables(ctx, tables...)
}

// Exec runs a SQL statement and returns the result.
func (p *PostgresContainer) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	return p.DB.ExecContext(ctx, query, args...)
}

// Query runs a SQL query and returns rows.
func (p *PostgresContainer) Query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return p.DB.QueryContext(ctx, query, args...)
}

// QueryRow runs a SQL query expected to return a single row.
func (p *PostgresContainer) QueryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return p.DB.QueryRowContext(ctx, query, args...)
}

// CreateTestOffice inserts an office row and returns its ID.
func (p *PostgresContainer) CreateTestOffice(ctx context.Context, t testing.TB) id.OfficeID {
	t.Helper()
	officeID := id.OfficeID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO offices (id, name, code, district, created_at)
		VALUES ($1, $2, $3, 'Dhaka', NOW())
	`, uuid.UUID(officeID), "Test Office "+uuid.NewString(), uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("CreateTestOffice: %v", err)
	}
	return officeID
}

// CreateTestDesignation inserts a designation row at the given grade level.
func (p *PostgresContainer) CreateTestDesignation(ctx context.Context, t testing.TB, gradeLevel int) id.DesignationID {
	t.Helper()
	designationID := id.DesignationID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO designations (id, title, grade_level, created_at)
		VALUES ($1, $2, $3, NOW())
	`, uuid.UUID(designationID), "Test Designation "+uuid.NewString(), gradeLevel)
	if err != nil {
		t.Fatalf("CreateTestDesignation: %v", err)
	}
	return designationID
}

// CreateTestOfficer inserts a minimal officer row posted to the given office
// and designation and returns its ID.
func (p *PostgresContainer) CreateTestOfficer(ctx context.Context, t testing.TB, officeID id.OfficeID, designationID id.DesignationID) id.OfficerID {
	t.Helper()
	officerID := id.OfficerID(uuid.New())
	_, err := p.Exec(ctx, `
		INSERT INTO officers (id, full_name, office_id, designation_id, grade, created_by)
		VALUES ($1, $2, $3, $4, 5, $5)
	`, uuid.UUID(officerID), "Test Officer "+uuid.NewString(),
		uuid.UUID(officeID), uuid.UUID(designationID), uuid.New())
	if err != nil {
		t.Fatalf("CreateTestOfficer: %v", err)
	}
	return officerID
}
