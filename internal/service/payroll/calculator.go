package payroll

import (
	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var twelve = decimal.NewFromInt(12)

// Calculator runs every payroll calculation against a single tax table.
// It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	table payroll.TaxTable
}

// NewCalculator fails with a *payroll.ConfigurationError when the table is broken.
func NewCalculator(table payroll.TaxTable) (*Calculator, error) {
	if err := table.Validate(); err != nil {
		return nil, err
	}
	return &Calculator{table: table}, nil
}

func (c *Calculator) Table() payroll.TaxTable {
	return c.table
}

// Events returns an EventBuilder bound to the same table.
func (c *Calculator) Events() *EventBuilder {
	return NewEventBuilder(c.table)
}

// RequireSalary returns the employee salary or a validation error when it is missing or negative.
func RequireSalary(emp employee.Employee) (decimal.Decimal, error) {
	var errs validator.ValidationErrors
	if emp.BaseSalary == nil {
		errs.Add("base_salary", "is required")
		return decimal.Zero, errs
	}
	if emp.BaseSalary.IsNegative() {
		errs.Add("base_salary", "must be non-negative")
		return decimal.Zero, errs
	}
	return *emp.BaseSalary, nil
}

// inss returns the social security contribution. Partners pay a flat rate
// capped at the table's ceiling value instead of the progressive brackets.
func (c *Calculator) inss(base decimal.Decimal, partner bool) (decimal.Decimal, decimal.Decimal) {
	if !partner {
		return LookupBracket(base, c.table.INSS)
	}
	if !base.IsPositive() {
		return decimal.Zero, decimal.Zero
	}
	v := base.Mul(c.table.PartnerINSSRate).Round(2)
	if v.GreaterThan(*c.table.INSS.Ceiling) {
		v = *c.table.INSS.Ceiling
	}
	return v, c.table.PartnerINSSRate.Mul(hundred)
}

// irrf deducts INSS and the per-dependent allowance from gross before the lookup.
// The returned base is the one fed to the table, floored at zero.
func (c *Calculator) irrf(gross, inss decimal.Decimal, dependents int) (base, value, rate decimal.Decimal) {
	base = gross.Sub(inss).Sub(c.table.IRRFDependentDeduction.Mul(decimal.NewFromInt(int64(dependents))))
	if base.IsNegative() {
		base = decimal.Zero
	}
	value, rate = LookupBracket(base, c.table.IRRF)
	return base, value, rate
}

func (c *Calculator) fgts(base decimal.Decimal) decimal.Decimal {
	return base.Mul(c.table.FGTSRate).Round(2)
}

// familyAllowance returns nil when the payee is not entitled.
func (c *Calculator) familyAllowance(inssBase decimal.Decimal, dependents int) *payroll.ComputedEvent {
	if dependents < 1 || inssBase.GreaterThan(c.table.FamilyAllowanceIncomeLimit) {
		return nil
	}
	n := decimal.NewFromInt(int64(dependents))
	return &payroll.ComputedEvent{
		Code:        CodeFamilyAllowance,
		Description: "Salário-família",
		Kind:        payroll.LineKindEarning,
		Reference:   n,
		Unit:        payroll.UnitDependents,
		Earning:     c.table.FamilyAllowancePerDependent.Mul(n).Round(2),
	}
}

func earningEvent(code, description string, reference decimal.Decimal, unit payroll.ReferenceUnit, amount decimal.Decimal) payroll.ComputedEvent {
	return payroll.ComputedEvent{
		Code:        code,
		Description: description,
		Kind:        payroll.LineKindEarning,
		Reference:   reference,
		Unit:        unit,
		Earning:     amount,
	}
}

func deductionEvent(code, description string, reference decimal.Decimal, unit payroll.ReferenceUnit, amount decimal.Decimal) payroll.ComputedEvent {
	return payroll.ComputedEvent{
		Code:        code,
		Description: description,
		Kind:        payroll.LineKindDeduction,
		Reference:   reference,
		Unit:        unit,
		Deduction:   amount,
	}
}

// withholdings are the employee-side contributions of a calculation.
type withholdings struct {
	INSSBase decimal.Decimal
	INSS     decimal.Decimal
	IRRFBase decimal.Decimal
	IRRF     decimal.Decimal
}

// withhold appends the INSS and IRRF lines when they are positive.
func (c *Calculator) withhold(events []payroll.ComputedEvent, inssBase, irrfGross decimal.Decimal, emp employee.Employee) ([]payroll.ComputedEvent, withholdings) {
	w := withholdings{INSSBase: inssBase}
	var inssRate, irrfRate decimal.Decimal
	w.INSS, inssRate = c.inss(inssBase, emp.IsPartner())
	if w.INSS.IsPositive() {
		events = append(events, deductionEvent(CodeINSS, "INSS", inssRate, payroll.UnitPercent, w.INSS))
	}
	w.IRRFBase, w.IRRF, irrfRate = c.irrf(irrfGross, w.INSS, emp.IRRFDependents())
	if w.IRRF.IsPositive() {
		events = append(events, deductionEvent(CodeIRRF, "IRRF", irrfRate, payroll.UnitPercent, w.IRRF))
	}
	return events, w
}

// summarize fills totals from the event list so that earnings minus deductions
// always equals net pay.
func (c *Calculator) summarize(kind payroll.CalculationKind, events []payroll.ComputedEvent, w withholdings, fgtsBase decimal.Decimal) payroll.CalculationResult {
	res := payroll.CalculationResult{
		Kind:            kind,
		TaxYear:         c.table.EffectiveYear,
		Events:          events,
		TotalEarnings:   decimal.Zero,
		TotalDeductions: decimal.Zero,
		INSSBase:        w.INSSBase.Round(2),
		INSS:            w.INSS,
		IRRFBase:        w.IRRFBase.Round(2),
		IRRF:            w.IRRF,
		FGTSBase:        fgtsBase.Round(2),
		FGTS:            c.fgts(fgtsBase),
	}
	for _, e := range events {
		res.TotalEarnings = res.TotalEarnings.Add(e.Earning)
		res.TotalDeductions = res.TotalDeductions.Add(e.Deduction)
	}
	res.NetPay = res.TotalEarnings.Sub(res.TotalDeductions)
	return res
}
