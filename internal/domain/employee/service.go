package employee

import (
	"context"
)

// EmployeeService exposes the payee records the payroll calculators consume.
type EmployeeService interface {
	// GetEmployee returns the employee with its dependents (companyID from JWT)
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// ListEmployees lists employees of the caller's company
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)
}
