package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type payrollRepository struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}

// ========== RUBRICS ==========

const rubricColumns = `id, company_id, code, description, kind, counts_toward_inss, counts_toward_fgts,
		counts_toward_irrf, rule, unhealthy_tier, is_active, created_at, updated_at`

func scanRubric(row pgx.Row) (payroll.Rubric, error) {
	var r payroll.Rubric
	err := row.Scan(
		&r.ID, &r.CompanyID, &r.Code, &r.Description, &r.Kind, &r.CountsTowardINSS, &r.CountsTowardFGTS,
		&r.CountsTowardIRRF, &r.Rule, &r.UnhealthyTier, &r.IsActive, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func (r *payrollRepository) CreateRubric(ctx context.Context, rubric payroll.Rubric) (payroll.Rubric, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_rubrics (
			id, company_id, code, description, kind, counts_toward_inss, counts_toward_fgts,
			counts_toward_irrf, rule, unhealthy_tier, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING ` + rubricColumns

	created, err := scanRubric(q.QueryRow(ctx, query,
		rubric.ID, rubric.CompanyID, rubric.Code, rubric.Description, rubric.Kind, rubric.CountsTowardINSS,
		rubric.CountsTowardFGTS, rubric.CountsTowardIRRF, rubric.Rule, rubric.UnhealthyTier, rubric.IsActive,
	))
	if err != nil {
		if strings.Contains(err.Error(), "uk_rubric_company_code") {
			return payroll.Rubric{}, payroll.ErrRubricCodeExists
		}
		return payroll.Rubric{}, fmt.Errorf("failed to create rubric: %w", err)
	}

	return created, nil
}

func (r *payrollRepository) GetRubricByID(ctx context.Context, id string, companyID string) (payroll.Rubric, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rubricColumns + ` FROM payroll_rubrics WHERE id = $1 AND company_id = $2`

	rubric, err := scanRubric(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Rubric{}, payroll.ErrRubricNotFound
		}
		return payroll.Rubric{}, fmt.Errorf("failed to get rubric: %w", err)
	}

	return rubric, nil
}

func (r *payrollRepository) GetRubricsByIDs(ctx context.Context, ids []string, companyID string) ([]payroll.Rubric, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rubricColumns + ` FROM payroll_rubrics WHERE id = ANY($1::uuid[]) AND company_id = $2`

	return r.queryRubrics(ctx, q, query, ids, companyID)
}

func (r *payrollRepository) ListRubrics(ctx context.Context, companyID string, activeOnly bool) ([]payroll.Rubric, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rubricColumns + ` FROM payroll_rubrics WHERE company_id = $1`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY code"

	return r.queryRubrics(ctx, q, query, companyID)
}

func (r *payrollRepository) queryRubrics(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]payroll.Rubric, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rubrics: %w", err)
	}
	defer rows.Close()

	rubrics := make([]payroll.Rubric, 0)
	for rows.Next() {
		rubric, err := scanRubric(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rubric: %w", err)
		}
		rubrics = append(rubrics, rubric)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rubrics: %w", err)
	}

	return rubrics, nil
}

func (r *payrollRepository) UpdateRubric(ctx context.Context, companyID string, req payroll.UpdateRubricRequest) error {
	q := GetQuerier(ctx, r.db)

	setParts := []string{"updated_at = NOW()"}
	args := []interface{}{req.ID, companyID}
	argIdx := 3

	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", argIdx))
		args = append(args, *req.Description)
		argIdx++
	}
	if req.CountsTowardINSS != nil {
		setParts = append(setParts, fmt.Sprintf("counts_toward_inss = $%d", argIdx))
		args = append(args, *req.CountsTowardINSS)
		argIdx++
	}
	if req.CountsTowardFGTS != nil {
		setParts = append(setParts, fmt.Sprintf("counts_toward_fgts = $%d", argIdx))
		args = append(args, *req.CountsTowardFGTS)
		argIdx++
	}
	if req.CountsTowardIRRF != nil {
		setParts = append(setParts, fmt.Sprintf("counts_toward_irrf = $%d", argIdx))
		args = append(args, *req.CountsTowardIRRF)
		argIdx++
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", argIdx))
		args = append(args, *req.IsActive)
	}

	query := fmt.Sprintf(`
		UPDATE payroll_rubrics
		SET %s
		WHERE id = $1 AND company_id = $2
		RETURNING id
	`, strings.Join(setParts, ", "))

	var updatedID string
	err := q.QueryRow(ctx, query, args...).Scan(&updatedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrRubricNotFound
		}
		return fmt.Errorf("failed to update rubric: %w", err)
	}

	return nil
}

func (r *payrollRepository) DeleteRubric(ctx context.Context, id string, companyID string) error {
	q := GetQuerier(ctx, r.db)

	query := `DELETE FROM payroll_rubrics WHERE id = $1 AND company_id = $2 RETURNING id`

	var deletedID string
	err := q.QueryRow(ctx, query, id, companyID).Scan(&deletedID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.ErrRubricNotFound
		}
		return fmt.Errorf("failed to delete rubric: %w", err)
	}

	return nil
}

// ========== PAYSLIPS ==========

func (r *payrollRepository) CreatePayslip(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	resultJSON, err := json.Marshal(p.Result)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to encode payslip result: %w", err)
	}
	var scheduleJSON []byte
	if p.Vacation != nil {
		if scheduleJSON, err = json.Marshal(p.Vacation); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to encode vacation schedule: %w", err)
		}
	}

	query := `
		INSERT INTO payslips (
			id, company_id, employee_id, kind, reference_month, reference_year, tax_year,
			net_pay, result, vacation_schedule
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at
	`

	err = q.QueryRow(ctx, query,
		p.ID, p.CompanyID, p.EmployeeID, p.Kind, p.ReferenceMonth, p.ReferenceYear, p.TaxYear,
		p.Result.NetPay, resultJSON, scheduleJSON,
	).Scan(&p.CreatedAt)
	if err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to create payslip: %w", err)
	}

	return p, nil
}

const payslipColumns = `ps.id, ps.company_id, ps.employee_id, ps.kind, ps.reference_month, ps.reference_year,
		ps.tax_year, ps.result, ps.vacation_schedule, ps.created_at, e.full_name as employee_name`

func scanPayslip(row pgx.Row) (payroll.Payslip, error) {
	var p payroll.Payslip
	var resultBytes, scheduleBytes []byte
	if err := row.Scan(
		&p.ID, &p.CompanyID, &p.EmployeeID, &p.Kind, &p.ReferenceMonth, &p.ReferenceYear,
		&p.TaxYear, &resultBytes, &scheduleBytes, &p.CreatedAt, &p.EmployeeName,
	); err != nil {
		return payroll.Payslip{}, err
	}
	if err := json.Unmarshal(resultBytes, &p.Result); err != nil {
		return payroll.Payslip{}, fmt.Errorf("failed to decode payslip result: %w", err)
	}
	if len(scheduleBytes) > 0 {
		var schedule payroll.VacationSchedule
		if err := json.Unmarshal(scheduleBytes, &schedule); err != nil {
			return payroll.Payslip{}, fmt.Errorf("failed to decode vacation schedule: %w", err)
		}
		p.Vacation = &schedule
	}
	return p, nil
}

func (r *payrollRepository) GetPayslipByID(ctx context.Context, id string, companyID string) (payroll.Payslip, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + payslipColumns + `
		FROM payslips ps
		JOIN employees e ON ps.employee_id = e.id
		WHERE ps.id = $1 AND ps.company_id = $2
	`

	p, err := scanPayslip(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return payroll.Payslip{}, payroll.ErrPayslipNotFound
		}
		return payroll.Payslip{}, fmt.Errorf("failed to get payslip: %w", err)
	}

	return p, nil
}

func (r *payrollRepository) ListPayslips(ctx context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseQuery := `
		FROM payslips ps
		JOIN employees e ON ps.employee_id = e.id
		WHERE ps.company_id = $1
	`
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil {
		baseQuery += fmt.Sprintf(" AND ps.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Kind != nil {
		baseQuery += fmt.Sprintf(" AND ps.kind = $%d", argIdx)
		args = append(args, *filter.Kind)
		argIdx++
	}
	if filter.Month != nil {
		baseQuery += fmt.Sprintf(" AND ps.reference_month = $%d", argIdx)
		args = append(args, *filter.Month)
		argIdx++
	}
	if filter.Year != nil {
		baseQuery += fmt.Sprintf(" AND ps.reference_year = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}

	// Count query
	var totalCount int64
	countQuery := "SELECT COUNT(*) " + baseQuery
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, fmt.Errorf("failed to count payslips: %w", err)
	}

	// Pagination
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	offset := (filter.Page - 1) * filter.Limit

	selectQuery := fmt.Sprintf(`
		SELECT %s
		%s
		ORDER BY ps.reference_year DESC, ps.reference_month DESC, ps.created_at DESC
		LIMIT $%d OFFSET $%d
	`, payslipColumns, baseQuery, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payslips: %w", err)
	}
	defer rows.Close()

	payslips := make([]payroll.Payslip, 0)
	for rows.Next() {
		p, err := scanPayslip(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payslip: %w", err)
		}
		payslips = append(payslips, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate payslips: %w", err)
	}

	return payslips, totalCount, nil
}
