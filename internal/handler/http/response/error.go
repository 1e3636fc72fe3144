package response

import (
	"errors"
	"net/http"

	"github.com/escopo/escopo-backend-go/internal/domain/auth"
	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/domain/user"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Broken tax tables are never the caller's fault
	var configErr *payroll.ConfigurationError
	if errors.As(err, &configErr) {
		InternalServerError(w, "Payroll configuration is invalid")
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrCompanyClaimMissing):
		Unauthorized(w, "Token is not bound to a company")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Payroll domain errors
	case errors.Is(err, payroll.ErrRubricNotFound):
		NotFound(w, "Rubric not found")
	case errors.Is(err, payroll.ErrRubricCodeExists):
		Conflict(w, "Rubric code already exists")
	case errors.Is(err, payroll.ErrPayslipNotFound):
		NotFound(w, "Payslip not found")
	case errors.Is(err, payroll.ErrTaxYearNotSupported):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, payroll.ErrPartnerNotEntitled):
		BadRequest(w, "Partners are not entitled to this calculation", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
