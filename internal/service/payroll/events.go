package payroll

import (
	"fmt"

	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Codes of the lines produced by the calculators themselves.
const (
	CodeBaseSalary             = "001"
	CodeFamilyAllowance        = "002"
	CodeThirteenth             = "010"
	CodeThirteenthFirst        = "011"
	CodeThirteenthOffset       = "012"
	CodeVacation               = "020"
	CodeVacationBonus          = "021"
	CodeSoldVacation           = "022"
	CodeSoldVacationBonus      = "023"
	CodeVacationThirteenth     = "024"
	CodeSalaryBalance          = "030"
	CodeIndemnifiedNotice      = "031"
	CodeProportionalVacation   = "032"
	CodeProportionalVacBonus   = "033"
	CodeProportionalThirteenth = "034"
	CodeFGTSPenalty            = "035"
	CodeINSS                   = "901"
	CodeINSSThirteenth         = "902"
	CodeIRRF                   = "903"
)

var (
	overtime50Factor  = decimal.NewFromFloat(1.5)
	overtime100Factor = decimal.NewFromInt(2)
	nightShiftRate    = decimal.NewFromFloat(0.20)
	hazardRate        = decimal.NewFromFloat(0.30)
	thirty            = decimal.NewFromInt(30)
)

// PeriodEntry is a rubric resolved from the catalog plus what was entered for the period.
type PeriodEntry struct {
	Rubric    payroll.Rubric
	Reference decimal.Decimal
	Amount    decimal.Decimal
}

// EventBuilder turns a salary and the period entries into pay-stub lines.
type EventBuilder struct {
	table payroll.TaxTable
}

func NewEventBuilder(table payroll.TaxTable) *EventBuilder {
	return &EventBuilder{table: table}
}

// Build returns the base salary line followed by one line per entry.
// daysWorked of 0 means the whole month.
func (b *EventBuilder) Build(salary decimal.Decimal, entries []PeriodEntry, daysWorked int) ([]payroll.ComputedEvent, error) {
	var errs validator.ValidationErrors

	if salary.IsNegative() {
		errs.Add("base_salary", "must be non-negative")
	}
	if daysWorked == 0 {
		daysWorked = 30
	}
	if daysWorked < 1 || daysWorked > 30 {
		errs.Add("days_worked", "must be between 1 and 30")
	}
	if len(errs) > 0 {
		return nil, errs
	}

	days := decimal.NewFromInt(int64(daysWorked))
	events := make([]payroll.ComputedEvent, 0, len(entries)+1)
	events = append(events, payroll.ComputedEvent{
		Code:             CodeBaseSalary,
		Description:      "Salário base",
		Kind:             payroll.LineKindEarning,
		Reference:        days,
		Unit:             payroll.UnitDays,
		Earning:          salary.Mul(days).Div(thirty).Round(2),
		CountsTowardINSS: true,
		CountsTowardFGTS: true,
		CountsTowardIRRF: true,
	})

	for i, entry := range entries {
		ev, err := b.buildEntry(salary, entry)
		if err != nil {
			errs.Add(fmt.Sprintf("entries[%d]", i), err.Error())
			continue
		}
		events = append(events, ev)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return events, nil
}

func (b *EventBuilder) buildEntry(salary decimal.Decimal, entry PeriodEntry) (payroll.ComputedEvent, error) {
	r := entry.Rubric
	if entry.Reference.IsNegative() || entry.Amount.IsNegative() {
		return payroll.ComputedEvent{}, fmt.Errorf("reference and amount must be non-negative")
	}
	if !r.Kind.Valid() {
		return payroll.ComputedEvent{}, fmt.Errorf("rubric %s has an invalid kind", r.Code)
	}
	if r.Rule.SystemGenerated() {
		return payroll.ComputedEvent{}, fmt.Errorf("rubric %s is produced by the calculator and cannot be entered", r.Code)
	}

	ev := payroll.ComputedEvent{
		Code:             r.Code,
		Description:      r.Description,
		Kind:             r.Kind,
		CountsTowardINSS: r.Contributes(payroll.BaseINSS),
		CountsTowardFGTS: r.Contributes(payroll.BaseFGTS),
		CountsTowardIRRF: r.Contributes(payroll.BaseIRRF),
	}

	hourly := salary.Div(b.table.MonthlyHours)
	var amount decimal.Decimal
	switch r.Rule {
	case payroll.RuleGeneric, "":
		amount = entry.Amount
		ev.Reference = entry.Reference
	case payroll.RuleOvertime50:
		amount = entry.Reference.Mul(hourly).Mul(overtime50Factor)
		ev.Reference, ev.Unit = entry.Reference, payroll.UnitHours
	case payroll.RuleOvertime100:
		amount = entry.Reference.Mul(hourly).Mul(overtime100Factor)
		ev.Reference, ev.Unit = entry.Reference, payroll.UnitHours
	case payroll.RuleNightShift:
		amount = entry.Reference.Mul(hourly).Mul(nightShiftRate)
		ev.Reference, ev.Unit = entry.Reference, payroll.UnitHours
	case payroll.RuleHazard:
		amount = salary.Mul(hazardRate)
		ev.Reference, ev.Unit = hazardRate.Mul(hundred), payroll.UnitPercent
	case payroll.RuleUnhealthyConditions:
		if r.UnhealthyTier == nil {
			return payroll.ComputedEvent{}, fmt.Errorf("rubric %s has no unhealthy tier", r.Code)
		}
		rate, ok := r.UnhealthyTier.Rate()
		if !ok {
			return payroll.ComputedEvent{}, fmt.Errorf("rubric %s has an unknown unhealthy tier", r.Code)
		}
		amount = b.table.MinimumWage.Mul(rate)
		ev.Reference, ev.Unit = rate.Mul(hundred), payroll.UnitPercent
	default:
		return payroll.ComputedEvent{}, fmt.Errorf("rubric %s has an unknown rule %q", r.Code, r.Rule)
	}

	amount = amount.Round(2)
	if r.Kind == payroll.LineKindDeduction {
		ev.Deduction = amount
	} else {
		ev.Earning = amount
	}
	return ev, nil
}
