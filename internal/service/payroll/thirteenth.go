package payroll

import (
	"time"

	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ThirteenthMonths is the number of months that count toward the 13th salary of year.
func ThirteenthMonths(admission time.Time, year int) int {
	dec31 := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	months := fullMonthsBetween(dateOnly(admission), dec31) + 1
	if months > 12 {
		months = 12
	}
	return months
}

// Thirteenth computes one installment of the 13th salary. INSS and IRRF are
// always computed on the full annual amount; the installment only changes cash flow.
func (c *Calculator) Thirteenth(emp employee.Employee, year int, mode payroll.ThirteenthMode) (payroll.CalculationResult, error) {
	if emp.IsPartner() {
		return payroll.CalculationResult{}, payroll.ErrPartnerNotEntitled
	}
	salary, err := RequireSalary(emp)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	var errs validator.ValidationErrors
	if emp.AdmissionDate.Year() > year {
		errs.Add("year", "employee was admitted after the requested year")
	}
	switch mode {
	case payroll.ThirteenthFirstInstallment, payroll.ThirteenthSecondInstallment, payroll.ThirteenthUniqueInstallment:
	default:
		errs.Add("mode", "must be 'first', 'second' or 'unique'")
	}
	if len(errs) > 0 {
		return payroll.CalculationResult{}, errs
	}

	months := ThirteenthMonths(emp.AdmissionDate, year)
	monthsRef := decimal.NewFromInt(int64(months))
	full := salary.Mul(monthsRef).Div(twelve).Round(2)
	first := full.Div(decimal.NewFromInt(2)).Round(2)

	var (
		events   []payroll.ComputedEvent
		w        withholdings
		fgtsBase decimal.Decimal
	)
	switch mode {
	case payroll.ThirteenthFirstInstallment:
		ev := earningEvent(CodeThirteenthFirst, "13º salário - 1ª parcela", monthsRef, payroll.UnitMonths, first)
		ev.CountsTowardFGTS = true
		events = append(events, ev)
		fgtsBase = first

	case payroll.ThirteenthSecondInstallment:
		events = append(events,
			thirteenthEvent(monthsRef, full),
			deductionEvent(CodeThirteenthOffset, "Adiantamento 13º salário", decimal.Zero, payroll.UnitNone, first),
		)
		events, w = c.withhold(events, full, full, emp)
		fgtsBase = full.Sub(first)

	default:
		events = append(events, thirteenthEvent(monthsRef, full))
		events, w = c.withhold(events, full, full, emp)
		fgtsBase = full
	}

	return c.summarize(payroll.CalculationThirteenth, events, w, fgtsBase), nil
}

func thirteenthEvent(months, amount decimal.Decimal) payroll.ComputedEvent {
	ev := earningEvent(CodeThirteenth, "13º salário", months, payroll.UnitMonths, amount)
	ev.CountsTowardINSS = true
	ev.CountsTowardFGTS = true
	ev.CountsTowardIRRF = true
	return ev
}
