package employee

import (
	"time"

	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DependentResponse struct {
	ID                         string  `json:"id"`
	Name                       string  `json:"name"`
	BirthDate                  *string `json:"birth_date,omitempty"`
	EligibleForFamilyAllowance bool    `json:"eligible_for_family_allowance"`
	EligibleForIRRFDeduction   bool    `json:"eligible_for_irrf_deduction"`
}

type EmployeeResponse struct {
	ID            string              `json:"id"`
	CompanyID     string              `json:"company_id"`
	FullName      string              `json:"full_name"`
	CPF           string              `json:"cpf"`
	PayeeKind     string              `json:"payee_kind"`
	BaseSalary    *decimal.Decimal    `json:"base_salary,omitempty"`
	AdmissionDate string              `json:"admission_date"`
	IsActive      bool                `json:"is_active"`
	Dependents    []DependentResponse `json:"dependents"`
}

type EmployeeFilter struct {
	Search     *string `json:"search,omitempty"`
	PayeeKind  *string `json:"payee_kind,omitempty"`
	ActiveOnly bool    `json:"active_only"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.PayeeKind != nil && !PayeeKind(*f.PayeeKind).Valid() {
		errs.Add("payee_kind", "must be 'employee' or 'partner'")
	}
	if f.Search != nil && len(*f.Search) > 100 {
		errs.Add("search", "must be at most 100 characters")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	return errs.Err()
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}

// ToResponse maps the entity for the API.
func ToResponse(e Employee) EmployeeResponse {
	deps := make([]DependentResponse, 0, len(e.Dependents))
	for _, d := range e.Dependents {
		var birth *string
		if d.BirthDate != nil {
			s := d.BirthDate.Format(time.DateOnly)
			birth = &s
		}
		deps = append(deps, DependentResponse{
			ID:                         d.ID,
			Name:                       d.Name,
			BirthDate:                  birth,
			EligibleForFamilyAllowance: d.EligibleForFamilyAllowance,
			EligibleForIRRFDeduction:   d.EligibleForIRRFDeduction,
		})
	}
	return EmployeeResponse{
		ID:            e.ID,
		CompanyID:     e.CompanyID,
		FullName:      e.FullName,
		CPF:           e.CPF,
		PayeeKind:     string(e.PayeeKind),
		BaseSalary:    e.BaseSalary,
		AdmissionDate: e.AdmissionDate.Format(time.DateOnly),
		IsActive:      e.IsActive,
		Dependents:    deps,
	}
}
