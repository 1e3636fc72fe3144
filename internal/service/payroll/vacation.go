package payroll

import (
	"time"

	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

var three = decimal.NewFromInt(3)

// VacationInput describes one vacation period.
type VacationInput struct {
	StartDate         time.Time
	Days              int
	SellDays          bool
	AdvanceThirteenth bool
}

// Vacation computes vacation pay and its constitutional 1/3 bonus.
// Sold days (abono pecuniário) never enter the INSS or IRRF base, and an
// advanced 13th installment is paid here but only taxed in December.
func (c *Calculator) Vacation(emp employee.Employee, in VacationInput) (payroll.VacationResult, error) {
	if emp.IsPartner() {
		return payroll.VacationResult{}, payroll.ErrPartnerNotEntitled
	}
	salary, err := RequireSalary(emp)
	if err != nil {
		return payroll.VacationResult{}, err
	}

	var errs validator.ValidationErrors
	if in.StartDate.IsZero() {
		errs.Add("start_date", "is required")
	}
	if in.Days < 1 || in.Days > 30 {
		errs.Add("days", "must be between 1 and 30")
	}
	if len(errs) > 0 {
		return payroll.VacationResult{}, errs
	}

	days := decimal.NewFromInt(int64(in.Days))
	pay := salary.Mul(days).Div(thirty).Round(2)
	bonus := pay.Div(three).Round(2)

	taxed := func(ev payroll.ComputedEvent) payroll.ComputedEvent {
		ev.CountsTowardINSS = true
		ev.CountsTowardFGTS = true
		ev.CountsTowardIRRF = true
		return ev
	}
	events := []payroll.ComputedEvent{
		taxed(earningEvent(CodeVacation, "Férias", days, payroll.UnitDays, pay)),
		taxed(earningEvent(CodeVacationBonus, "1/3 constitucional de férias", decimal.Zero, payroll.UnitNone, bonus)),
	}

	if in.SellDays {
		soldDays := decimal.NewFromInt(payroll.SoldVacationDays)
		sold := salary.Mul(soldDays).Div(thirty).Round(2)
		events = append(events,
			earningEvent(CodeSoldVacation, "Abono pecuniário", soldDays, payroll.UnitDays, sold),
			earningEvent(CodeSoldVacationBonus, "1/3 sobre abono pecuniário", decimal.Zero, payroll.UnitNone, sold.Div(three).Round(2)),
		)
	}

	if in.AdvanceThirteenth {
		ev := earningEvent(CodeVacationThirteenth, "Adiantamento 13º salário", decimal.Zero, payroll.UnitNone, salary.Div(decimal.NewFromInt(2)).Round(2))
		ev.CountsTowardFGTS = true
		events = append(events, ev)
	}

	events, w := c.withhold(events, AggregateBase(events, payroll.BaseINSS), AggregateBase(events, payroll.BaseIRRF), emp)
	res := c.summarize(payroll.CalculationVacation, events, w, AggregateBase(events, payroll.BaseFGTS))

	return payroll.VacationResult{
		CalculationResult: res,
		Schedule:          VacationScheduleFor(in.StartDate, in.Days),
	}, nil
}

// VacationScheduleFor lays out the period. Payment is due two days before it starts.
func VacationScheduleFor(start time.Time, days int) payroll.VacationSchedule {
	start = dateOnly(start)
	end := start.AddDate(0, 0, days-1)
	return payroll.VacationSchedule{
		StartDate:      start,
		EndDate:        end,
		ReturnDate:     end.AddDate(0, 0, 1),
		PaymentDueDate: start.AddDate(0, 0, -2),
	}
}
