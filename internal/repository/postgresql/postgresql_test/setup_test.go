package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/escopo/escopo-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// TestDatabaseSetup wraps the integration database.
type TestDatabaseSetup struct {
	DB *database.DB
}

// NewTestDatabase connects to TEST_DATABASE_URL and applies the migrations.
// Tests are skipped when the variable is not set.
func NewTestDatabase(t *testing.T) *TestDatabaseSetup {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn, database.PoolOptions{MaxConns: 4, MinConns: 1})
	require.NoError(t, err)

	_, err = db.Migrate(ctx)
	require.NoError(t, err)

	setup := &TestDatabaseSetup{DB: db}
	require.NoError(t, setup.TruncateAllTables(ctx))
	t.Cleanup(setup.Close)
	return setup
}

// TruncateAllTables removes every row written by the repositories.
func (s *TestDatabaseSetup) TruncateAllTables(ctx context.Context) error {
	tx, err := s.DB.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tables := []string{
		"payslips",
		"payroll_rubrics",
		"employee_dependents",
		"employees",
	}

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		if err != nil {
			return fmt.Errorf("failed to truncate table %s: %w", table, err)
		}
	}

	return tx.Commit(ctx)
}

// Close closes the pool.
func (s *TestDatabaseSetup) Close() {
	s.DB.Close()
}

func newID(t *testing.T) string {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	return id.String()
}

// createTestEmployee inserts an employee with the given number of dependents
// eligible for both benefits.
func (s *TestDatabaseSetup) createTestEmployee(t *testing.T, companyID, name, cpf, kind string, dependents int) string {
	t.Helper()
	ctx := context.Background()

	id := newID(t)
	_, err := s.DB.Exec(ctx, `
		INSERT INTO employees (id, company_id, full_name, cpf, payee_kind, base_salary, admission_date)
		VALUES ($1, $2, $3, $4, $5, 3000.00, '2022-03-01')
	`, id, companyID, name, cpf, kind)
	require.NoError(t, err)

	for i := 0; i < dependents; i++ {
		_, err := s.DB.Exec(ctx, `
			INSERT INTO employee_dependents (id, employee_id, name, birth_date, eligible_for_family_allowance, eligible_for_irrf_deduction)
			VALUES ($1, $2, $3, '2015-04-02', true, true)
		`, newID(t), id, fmt.Sprintf("Dependente %d", i+1))
		require.NoError(t, err)
	}

	return id
}
