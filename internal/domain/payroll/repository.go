package payroll

import "context"

// PayrollRepository defines data access methods for payroll.
// All methods include companyID parameter to prevent cross-company data access.
type PayrollRepository interface {
	// Rubrics
	CreateRubric(ctx context.Context, rubric Rubric) (Rubric, error)
	GetRubricByID(ctx context.Context, id string, companyID string) (Rubric, error)
	GetRubricsByIDs(ctx context.Context, ids []string, companyID string) ([]Rubric, error)
	ListRubrics(ctx context.Context, companyID string, activeOnly bool) ([]Rubric, error)
	UpdateRubric(ctx context.Context, companyID string, req UpdateRubricRequest) error
	DeleteRubric(ctx context.Context, id string, companyID string) error

	// Payslips
	CreatePayslip(ctx context.Context, payslip Payslip) (Payslip, error)
	GetPayslipByID(ctx context.Context, id string, companyID string) (Payslip, error)
	ListPayslips(ctx context.Context, companyID string, filter PayslipFilter) ([]Payslip, int64, error)
}
