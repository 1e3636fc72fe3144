package postgresql

import (
	"context"
	"fmt"
	"strings"

	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `e.id, e.company_id, e.full_name, e.cpf, e.payee_kind, e.base_salary,
		e.admission_date, e.is_active, e.created_at, e.updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.CompanyID, &emp.FullName, &emp.CPF, &emp.PayeeKind, &emp.BaseSalary,
		&emp.AdmissionDate, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	query := `
		SELECT ` + employeeColumns + `
		FROM employees e
		WHERE e.id = $1 AND e.company_id = $2 AND e.deleted_at IS NULL
	`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id %s: %w", id, err)
	}

	deps, err := e.dependentsOf(ctx, q, []string{emp.ID})
	if err != nil {
		return employee.Employee{}, err
	}
	emp.Dependents = deps[emp.ID]

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, e.db)

	// Build WHERE conditions
	conditions := []string{"e.company_id = $1", "e.deleted_at IS NULL"}
	args := []interface{}{companyID}
	argIdx := 2

	if filter.Search != nil && *filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(e.full_name ILIKE $%d OR e.cpf ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}
	if filter.PayeeKind != nil && *filter.PayeeKind != "" {
		conditions = append(conditions, fmt.Sprintf("e.payee_kind = $%d", argIdx))
		args = append(args, *filter.PayeeKind)
		argIdx++
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "e.is_active = true")
	}

	whereClause := "WHERE " + strings.Join(conditions, " AND ")

	var total int64
	countQuery := "SELECT COUNT(*) FROM employees e " + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT %s
		FROM employees e
		%s
		ORDER BY e.full_name ASC
		LIMIT $%d OFFSET $%d
	`, employeeColumns, whereClause, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]employee.Employee, 0)
	ids := make([]string, 0)
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
		ids = append(ids, emp.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate employees: %w", err)
	}

	if len(ids) > 0 {
		deps, err := e.dependentsOf(ctx, q, ids)
		if err != nil {
			return nil, 0, err
		}
		for i := range employees {
			employees[i].Dependents = deps[employees[i].ID]
		}
	}

	return employees, total, nil
}

// dependentsOf loads the dependents of the given employees keyed by employee id.
func (e *employeeRepositoryImpl) dependentsOf(ctx context.Context, q database.Querier, employeeIDs []string) (map[string][]employee.Dependent, error) {
	query := `
		SELECT id, employee_id, name, birth_date, eligible_for_family_allowance, eligible_for_irrf_deduction
		FROM employee_dependents
		WHERE employee_id = ANY($1::uuid[])
		ORDER BY employee_id, name
	`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get employee dependents: %w", err)
	}
	defer rows.Close()

	result := make(map[string][]employee.Dependent, len(employeeIDs))
	for rows.Next() {
		var d employee.Dependent
		if err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.Name, &d.BirthDate, &d.EligibleForFamilyAllowance, &d.EligibleForIRRFDeduction,
		); err != nil {
			return nil, fmt.Errorf("failed to scan employee dependent: %w", err)
		}
		result[d.EmployeeID] = append(result[d.EmployeeID], d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee dependents: %w", err)
	}

	return result, nil
}
