package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// LineKind enum
type LineKind string

const (
	LineKindEarning   LineKind = "earning"
	LineKindDeduction LineKind = "deduction"
)

func (k LineKind) Valid() bool {
	return k == LineKindEarning || k == LineKindDeduction
}

// RuleKind tells the event builder how a rubric's amount is computed.
// It is fixed when the rubric is created; nothing dispatches on descriptions.
type RuleKind string

const (
	RuleGeneric             RuleKind = "generic"
	RuleBaseSalary          RuleKind = "base_salary"
	RuleFamilyAllowance     RuleKind = "family_allowance"
	RuleINSSDiscount        RuleKind = "inss_discount"
	RuleIRRFDiscount        RuleKind = "irrf_discount"
	RuleOvertime50          RuleKind = "overtime_50"
	RuleOvertime100         RuleKind = "overtime_100"
	RuleNightShift          RuleKind = "night_shift"
	RuleHazard              RuleKind = "hazard"
	RuleUnhealthyConditions RuleKind = "unhealthy_conditions"
)

var ruleKinds = []RuleKind{
	RuleGeneric, RuleBaseSalary, RuleFamilyAllowance, RuleINSSDiscount, RuleIRRFDiscount,
	RuleOvertime50, RuleOvertime100, RuleNightShift, RuleHazard, RuleUnhealthyConditions,
}

func (k RuleKind) Valid() bool {
	for _, r := range ruleKinds {
		if r == k {
			return true
		}
	}
	return false
}

// SystemGenerated reports whether lines of this kind are produced by the calculators
// and therefore cannot be entered for a period.
func (k RuleKind) SystemGenerated() bool {
	switch k {
	case RuleBaseSalary, RuleFamilyAllowance, RuleINSSDiscount, RuleIRRFDiscount:
		return true
	}
	return false
}

// UnhealthyTier is the insalubridade grade (NR-15).
type UnhealthyTier string

const (
	UnhealthyTierMinimum UnhealthyTier = "minimum"
	UnhealthyTierMedium  UnhealthyTier = "medium"
	UnhealthyTierMaximum UnhealthyTier = "maximum"
)

// Rate returns the share of the minimum wage paid for the tier.
func (t UnhealthyTier) Rate() (decimal.Decimal, bool) {
	switch t {
	case UnhealthyTierMinimum:
		return decimal.NewFromFloat(0.10), true
	case UnhealthyTierMedium:
		return decimal.NewFromFloat(0.20), true
	case UnhealthyTierMaximum:
		return decimal.NewFromFloat(0.40), true
	}
	return decimal.Zero, false
}

// Rubric - payroll line definition (earning line) of a company
type Rubric struct {
	ID               string
	CompanyID        string
	Code             string
	Description      string
	Kind             LineKind
	CountsTowardINSS bool
	CountsTowardFGTS bool
	CountsTowardIRRF bool
	Rule             RuleKind
	UnhealthyTier    *UnhealthyTier
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Contributes reports whether an amount of this rubric enters the given base.
// Deduction lines never contribute.
func (r Rubric) Contributes(base ContributionBase) bool {
	if r.Kind != LineKindEarning {
		return false
	}
	switch base {
	case BaseINSS:
		return r.CountsTowardINSS
	case BaseFGTS:
		return r.CountsTowardFGTS
	case BaseIRRF:
		return r.CountsTowardIRRF
	}
	return false
}

// ContributionBase selects one of the three bases.
type ContributionBase string

const (
	BaseINSS ContributionBase = "inss"
	BaseFGTS ContributionBase = "fgts"
	BaseIRRF ContributionBase = "irrf"
)

// ReferenceUnit describes what ComputedEvent.Reference measures.
type ReferenceUnit string

const (
	UnitNone       ReferenceUnit = ""
	UnitHours      ReferenceUnit = "hours"
	UnitDays       ReferenceUnit = "days"
	UnitPercent    ReferenceUnit = "percent"
	UnitDependents ReferenceUnit = "dependents"
	UnitMonths     ReferenceUnit = "months"
)

// ComputedEvent is one pay-stub line. Only one of Earning/Deduction is non-zero.
type ComputedEvent struct {
	Code             string          `json:"code"`
	Description      string          `json:"description"`
	Kind             LineKind        `json:"kind"`
	Reference        decimal.Decimal `json:"reference"`
	Unit             ReferenceUnit   `json:"unit,omitempty"`
	Earning          decimal.Decimal `json:"earning"`
	Deduction        decimal.Decimal `json:"deduction"`
	CountsTowardINSS bool            `json:"counts_toward_inss"`
	CountsTowardFGTS bool            `json:"counts_toward_fgts"`
	CountsTowardIRRF bool            `json:"counts_toward_irrf"`
}

// Amount returns the line value regardless of kind.
func (e ComputedEvent) Amount() decimal.Decimal {
	if e.Kind == LineKindDeduction {
		return e.Deduction
	}
	return e.Earning
}

// Contributes mirrors Rubric.Contributes for an already computed line.
func (e ComputedEvent) Contributes(base ContributionBase) bool {
	if e.Kind != LineKindEarning {
		return false
	}
	switch base {
	case BaseINSS:
		return e.CountsTowardINSS
	case BaseFGTS:
		return e.CountsTowardFGTS
	case BaseIRRF:
		return e.CountsTowardIRRF
	}
	return false
}

// CalculationKind enum
type CalculationKind string

const (
	CalculationMonthly     CalculationKind = "monthly"
	CalculationThirteenth  CalculationKind = "thirteenth"
	CalculationVacation    CalculationKind = "vacation"
	CalculationTermination CalculationKind = "termination"
)

func (k CalculationKind) Valid() bool {
	switch k {
	case CalculationMonthly, CalculationThirteenth, CalculationVacation, CalculationTermination:
		return true
	}
	return false
}

// CalculationResult - output of every calculator
type CalculationResult struct {
	Kind            CalculationKind `json:"kind"`
	TaxYear         int             `json:"tax_year"`
	Events          []ComputedEvent `json:"events"`
	TotalEarnings   decimal.Decimal `json:"total_earnings"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	NetPay          decimal.Decimal `json:"net_pay"`
	INSSBase        decimal.Decimal `json:"inss_base"`
	IRRFBase        decimal.Decimal `json:"irrf_base"`
	FGTSBase        decimal.Decimal `json:"fgts_base"`
	INSS            decimal.Decimal `json:"inss"`
	IRRF            decimal.Decimal `json:"irrf"`
	FGTS            decimal.Decimal `json:"fgts"`
}

// VacationSchedule is the calendar of a vacation period.
type VacationSchedule struct {
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	ReturnDate     time.Time `json:"return_date"`
	PaymentDueDate time.Time `json:"payment_due_date"`
}

// VacationResult adds the vacation calendar to the result.
type VacationResult struct {
	CalculationResult
	Schedule VacationSchedule `json:"schedule"`
}

// SoldVacationDays is the fixed abono pecuniário length.
const SoldVacationDays = 10

// ThirteenthMode enum
type ThirteenthMode string

const (
	ThirteenthFirstInstallment  ThirteenthMode = "first"
	ThirteenthSecondInstallment ThirteenthMode = "second"
	ThirteenthUniqueInstallment ThirteenthMode = "unique"
)

// TerminationReason enum
type TerminationReason string

const (
	ReasonWithoutCause TerminationReason = "dispensa_sem_justa_causa"
	ReasonWithCause    TerminationReason = "dispensa_com_justa_causa"
	ReasonResignation  TerminationReason = "pedido_demissao"
	ReasonContractEnd  TerminationReason = "termino_contrato"
)

func (r TerminationReason) Valid() bool {
	switch r {
	case ReasonWithoutCause, ReasonWithCause, ReasonResignation, ReasonContractEnd:
		return true
	}
	return false
}

// NoticeType enum
type NoticeType string

const (
	NoticeIndemnified NoticeType = "indenizado"
	NoticeWorked      NoticeType = "trabalhado"
	NoticeWaived      NoticeType = "dispensado"
)

func (n NoticeType) Valid() bool {
	switch n {
	case NoticeIndemnified, NoticeWorked, NoticeWaived:
		return true
	}
	return false
}

// Payslip - persisted snapshot of a calculation
type Payslip struct {
	ID             string
	CompanyID      string
	EmployeeID     string
	Kind           CalculationKind
	ReferenceMonth int
	ReferenceYear  int
	TaxYear        int
	Result         CalculationResult
	Vacation       *VacationSchedule
	CreatedAt      time.Time

	// Joined fields
	EmployeeName *string
}
