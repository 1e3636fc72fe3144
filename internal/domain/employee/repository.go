package employee

import "context"

// EmployeeRepository is scoped by company; every method filters on companyID.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (Employee, error)
	List(ctx context.Context, companyID string, filter EmployeeFilter) ([]Employee, int64, error)
}
