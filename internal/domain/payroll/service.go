package payroll

import "context"

// PayrollService runs calculations for the company taken from the JWT claims.
type PayrollService interface {
	// Rubrics
	CreateRubric(ctx context.Context, req CreateRubricRequest) (RubricResponse, error)
	GetRubric(ctx context.Context, id string) (RubricResponse, error)
	ListRubrics(ctx context.Context, activeOnly bool) ([]RubricResponse, error)
	UpdateRubric(ctx context.Context, req UpdateRubricRequest) (RubricResponse, error)
	DeleteRubric(ctx context.Context, id string) error
	SeedDefaultRubrics(ctx context.Context) (SeedRubricsResponse, error)

	// Calculations
	CalculateMonthly(ctx context.Context, req MonthlyPayrollRequest) (CalculationResponse, error)
	CalculateThirteenth(ctx context.Context, req ThirteenthRequest) (CalculationResponse, error)
	CalculateVacation(ctx context.Context, req VacationRequest) (CalculationResponse, error)
	CalculateTermination(ctx context.Context, req TerminationRequest) (CalculationResponse, error)

	// History
	GetPayslip(ctx context.Context, id string) (PayslipResponse, error)
	ListPayslips(ctx context.Context, filter PayslipFilter) (ListPayslipResponse, error)

	// Configuration
	GetTaxTable(ctx context.Context, year int) (TaxTableResponse, error)
}
