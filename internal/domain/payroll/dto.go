package payroll

import (
	"strconv"
	"strings"
	"time"

	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========== RUBRIC DTOs ==========

type CreateRubricRequest struct {
	Code             string  `json:"code"`
	Description      string  `json:"description"`
	Kind             string  `json:"kind"` // "earning" or "deduction"
	CountsTowardINSS bool    `json:"counts_toward_inss"`
	CountsTowardFGTS bool    `json:"counts_toward_fgts"`
	CountsTowardIRRF bool    `json:"counts_toward_irrf"`
	Rule             string  `json:"rule"`
	UnhealthyTier    *string `json:"unhealthy_tier,omitempty"`
}

func (r *CreateRubricRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Code = strings.TrimSpace(r.Code)
	if validator.IsEmpty(r.Code) {
		errs.Add("code", "is required")
	} else if len(r.Code) > 20 {
		errs.Add("code", "must be at most 20 characters")
	}
	if validator.IsEmpty(r.Description) {
		errs.Add("description", "is required")
	}
	if !LineKind(r.Kind).Valid() {
		errs.Add("kind", "must be 'earning' or 'deduction'")
	}
	if r.Rule == "" {
		r.Rule = string(RuleGeneric)
	}
	validateRule(&errs, RuleKind(r.Rule), LineKind(r.Kind), r.UnhealthyTier)

	return errs.Err()
}

// validateRule checks that a rule kind may be attached to a catalog rubric.
func validateRule(errs *validator.ValidationErrors, rule RuleKind, kind LineKind, tier *string) {
	if !rule.Valid() {
		errs.Add("rule", "is not a known rule kind")
		return
	}
	if rule.SystemGenerated() {
		errs.Add("rule", "is reserved for lines produced by the calculator")
		return
	}
	if rule != RuleGeneric && kind != LineKindEarning {
		errs.Add("rule", "only earning rubrics may carry a calculation rule")
	}
	if rule == RuleUnhealthyConditions {
		if tier == nil {
			errs.Add("unhealthy_tier", "is required for unhealthy_conditions")
		} else if _, ok := UnhealthyTier(*tier).Rate(); !ok {
			errs.Add("unhealthy_tier", "must be 'minimum', 'medium' or 'maximum'")
		}
	} else if tier != nil {
		errs.Add("unhealthy_tier", "is only allowed for unhealthy_conditions")
	}
}

type UpdateRubricRequest struct {
	ID               string
	Description      *string `json:"description,omitempty"`
	CountsTowardINSS *bool   `json:"counts_toward_inss,omitempty"`
	CountsTowardFGTS *bool   `json:"counts_toward_fgts,omitempty"`
	CountsTowardIRRF *bool   `json:"counts_toward_irrf,omitempty"`
	IsActive         *bool   `json:"is_active,omitempty"`
}

func (r *UpdateRubricRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "must be a valid UUID")
	}
	if r.Description != nil && validator.IsEmpty(*r.Description) {
		errs.Add("description", "cannot be empty")
	}

	return errs.Err()
}

type RubricResponse struct {
	ID               string  `json:"id"`
	Code             string  `json:"code"`
	Description      string  `json:"description"`
	Kind             string  `json:"kind"`
	CountsTowardINSS bool    `json:"counts_toward_inss"`
	CountsTowardFGTS bool    `json:"counts_toward_fgts"`
	CountsTowardIRRF bool    `json:"counts_toward_irrf"`
	Rule             string  `json:"rule"`
	UnhealthyTier    *string `json:"unhealthy_tier,omitempty"`
	IsActive         bool    `json:"is_active"`
}

// SeedRubricsResponse lists the catalog entries added and the codes left untouched.
type SeedRubricsResponse struct {
	Created []RubricResponse `json:"created"`
	Skipped []string         `json:"skipped"`
}

// ========== CALCULATION DTOs ==========

// PeriodEntryRequest is one manually entered line for the period.
// Reference is the quantity for rule-based rubrics (hours); Amount is used by generic rubrics.
type PeriodEntryRequest struct {
	RubricID  string           `json:"rubric_id"`
	Reference *decimal.Decimal `json:"reference,omitempty"`
	Amount    *decimal.Decimal `json:"amount,omitempty"`
}

type MonthlyPayrollRequest struct {
	EmployeeID  string               `json:"employee_id"`
	PeriodMonth int                  `json:"period_month"`
	PeriodYear  int                  `json:"period_year"`
	DaysWorked  *int                 `json:"days_worked,omitempty"`
	Entries     []PeriodEntryRequest `json:"entries"`
	Save        bool                 `json:"save"`
}

func (r *MonthlyPayrollRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if r.PeriodMonth < 1 || r.PeriodMonth > 12 {
		errs.Add("period_month", "must be between 1 and 12")
	}
	if r.PeriodYear < 2000 || r.PeriodYear > 2100 {
		errs.Add("period_year", "must be between 2000 and 2100")
	}
	if r.DaysWorked != nil && (*r.DaysWorked < 1 || *r.DaysWorked > 30) {
		errs.Add("days_worked", "must be between 1 and 30")
	}
	for i, e := range r.Entries {
		field := "entries[" + strconv.Itoa(i) + "]"
		if !validator.IsValidUUID(e.RubricID) {
			errs.Add(field+".rubric_id", "must be a valid UUID")
		}
		if e.Reference == nil && e.Amount == nil {
			errs.Add(field, "reference or amount is required")
		}
		if e.Reference != nil && e.Reference.IsNegative() {
			errs.Add(field+".reference", "must be non-negative")
		}
		if e.Amount != nil && e.Amount.IsNegative() {
			errs.Add(field+".amount", "must be non-negative")
		}
	}

	return errs.Err()
}

type ThirteenthRequest struct {
	EmployeeID string `json:"employee_id"`
	Year       int    `json:"year"`
	Mode       string `json:"mode"` // "first", "second" or "unique"
	Save       bool   `json:"save"`
}

func (r *ThirteenthRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if r.Year < 2000 || r.Year > 2100 {
		errs.Add("year", "must be between 2000 and 2100")
	}
	switch ThirteenthMode(r.Mode) {
	case ThirteenthFirstInstallment, ThirteenthSecondInstallment, ThirteenthUniqueInstallment:
	default:
		errs.Add("mode", "must be 'first', 'second' or 'unique'")
	}

	return errs.Err()
}

type VacationRequest struct {
	EmployeeID        string `json:"employee_id"`
	StartDate         string `json:"start_date"`
	Days              int    `json:"days"`
	SellDays          bool   `json:"sell_days"`
	AdvanceThirteenth bool   `json:"advance_thirteenth"`
	Save              bool   `json:"save"`
}

func (r *VacationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "must be in YYYY-MM-DD format")
	}
	if r.Days < 1 || r.Days > 30 {
		errs.Add("days", "must be between 1 and 30")
	}

	return errs.Err()
}

type TerminationRequest struct {
	EmployeeID      string           `json:"employee_id"`
	TerminationDate string           `json:"termination_date"`
	Reason          string           `json:"reason"`
	NoticeType      string           `json:"notice_type"`
	FGTSBalance     *decimal.Decimal `json:"fgts_balance,omitempty"`
	Save            bool             `json:"save"`
}

func (r *TerminationRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if _, ok := validator.IsValidDate(r.TerminationDate); !ok {
		errs.Add("termination_date", "must be in YYYY-MM-DD format")
	}
	if !TerminationReason(r.Reason).Valid() {
		errs.Add("reason", "is not a known termination reason")
	}
	if !NoticeType(r.NoticeType).Valid() {
		errs.Add("notice_type", "must be 'indenizado', 'trabalhado' or 'dispensado'")
	}
	if r.FGTSBalance != nil && r.FGTSBalance.IsNegative() {
		errs.Add("fgts_balance", "must be non-negative")
	}

	return errs.Err()
}

// CalculationResponse is returned by every calculation endpoint.
// PayslipID is set only when the result was saved.
type CalculationResponse struct {
	PayslipID  *string           `json:"payslip_id,omitempty"`
	EmployeeID string            `json:"employee_id"`
	Result     CalculationResult `json:"result"`
	Vacation   *VacationSchedule `json:"vacation,omitempty"`
}

// ========== PAYSLIP DTOs ==========

type PayslipResponse struct {
	ID             string            `json:"id"`
	EmployeeID     string            `json:"employee_id"`
	EmployeeName   *string           `json:"employee_name,omitempty"`
	Kind           string            `json:"kind"`
	ReferenceMonth int               `json:"reference_month"`
	ReferenceYear  int               `json:"reference_year"`
	TaxYear        int               `json:"tax_year"`
	Result         CalculationResult `json:"result"`
	Vacation       *VacationSchedule `json:"vacation,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

type PayslipFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Kind       *string `json:"kind,omitempty"`
	Month      *int    `json:"month,omitempty"`
	Year       *int    `json:"year,omitempty"`
	Page       int     `json:"page"`
	Limit      int     `json:"limit"`
}

func (f *PayslipFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs.Add("employee_id", "must be a valid UUID")
	}
	if f.Kind != nil && !CalculationKind(*f.Kind).Valid() {
		errs.Add("kind", "is not a known calculation kind")
	}
	if f.Month != nil && (*f.Month < 1 || *f.Month > 12) {
		errs.Add("month", "must be between 1 and 12")
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	return errs.Err()
}

type ListPayslipResponse struct {
	Data       []PayslipResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

// TaxTableResponse exposes the configuration applied to a requested year.
type TaxTableResponse struct {
	RequestedYear int      `json:"requested_year"`
	Table         TaxTable `json:"table"`
}

// ToRubricResponse maps the entity for the API.
func ToRubricResponse(r Rubric) RubricResponse {
	var tier *string
	if r.UnhealthyTier != nil {
		t := string(*r.UnhealthyTier)
		tier = &t
	}
	return RubricResponse{
		ID:               r.ID,
		Code:             r.Code,
		Description:      r.Description,
		Kind:             string(r.Kind),
		CountsTowardINSS: r.CountsTowardINSS,
		CountsTowardFGTS: r.CountsTowardFGTS,
		CountsTowardIRRF: r.CountsTowardIRRF,
		Rule:             string(r.Rule),
		UnhealthyTier:    tier,
		IsActive:         r.IsActive,
	}
}

// ToPayslipResponse maps the stored snapshot for the API.
func ToPayslipResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:             p.ID,
		EmployeeID:     p.EmployeeID,
		EmployeeName:   p.EmployeeName,
		Kind:           string(p.Kind),
		ReferenceMonth: p.ReferenceMonth,
		ReferenceYear:  p.ReferenceYear,
		TaxYear:        p.TaxYear,
		Result:         p.Result,
		Vacation:       p.Vacation,
		CreatedAt:      p.CreatedAt,
	}
}
