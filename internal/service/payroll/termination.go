package payroll

import (
	"time"

	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// TerminationInput describes how the contract ends.
type TerminationInput struct {
	Date        time.Time
	Reason      payroll.TerminationReason
	Notice      payroll.NoticeType
	FGTSBalance decimal.Decimal
}

// AcquisitionMonths counts the months of the open vacation acquisition period,
// which restarts on every admission anniversary.
func AcquisitionMonths(admission, termination time.Time) int {
	admission, termination = dateOnly(admission), dateOnly(termination)
	anniversary := addMonths(admission, (termination.Year()-admission.Year())*12)
	if anniversary.After(termination) {
		anniversary = addMonths(anniversary, -12)
	}
	months := monthsWithFraction(anniversary, termination)
	if months > 12 {
		months = 12
	}
	return months
}

// ProportionalThirteenthMonths counts the months worked in the termination year.
func ProportionalThirteenthMonths(admission, termination time.Time) int {
	admission, termination = dateOnly(admission), dateOnly(termination)
	from := time.Date(termination.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if admission.After(from) {
		from = admission
	}
	months := monthsWithFraction(from, termination)
	if months > 12 {
		months = 12
	}
	return months
}

// Termination computes the severance statement.
//
// Salary balance and proportional 13th get independent INSS lookups. IRRF runs
// once over balance, proportional vacation with its bonus and 13th. Indemnified
// notice is paid untaxed.
func (c *Calculator) Termination(emp employee.Employee, in TerminationInput) (payroll.CalculationResult, error) {
	if emp.IsPartner() {
		return payroll.CalculationResult{}, payroll.ErrPartnerNotEntitled
	}
	salary, err := RequireSalary(emp)
	if err != nil {
		return payroll.CalculationResult{}, err
	}

	var errs validator.ValidationErrors
	if in.Date.IsZero() {
		errs.Add("termination_date", "is required")
	} else if dateOnly(in.Date).Before(dateOnly(emp.AdmissionDate)) {
		errs.Add("termination_date", "cannot be before the admission date")
	}
	if !in.Reason.Valid() {
		errs.Add("reason", "is not a known termination reason")
	}
	if !in.Notice.Valid() {
		errs.Add("notice_type", "is not a known notice type")
	}
	if in.FGTSBalance.IsNegative() {
		errs.Add("fgts_balance", "must be non-negative")
	}
	if len(errs) > 0 {
		return payroll.CalculationResult{}, errs
	}

	date := dateOnly(in.Date)
	day := decimal.NewFromInt(int64(date.Day()))
	balance := salary.Mul(day).Div(decimal.NewFromInt(int64(daysInMonth(date)))).Round(2)

	balanceEv := earningEvent(CodeSalaryBalance, "Saldo de salário", day, payroll.UnitDays, balance)
	balanceEv.CountsTowardINSS = true
	balanceEv.CountsTowardFGTS = true
	balanceEv.CountsTowardIRRF = true
	events := []payroll.ComputedEvent{balanceEv}

	notice := decimal.Zero
	if in.Reason == payroll.ReasonWithoutCause && in.Notice == payroll.NoticeIndemnified {
		notice = salary.Round(2)
		ev := earningEvent(CodeIndemnifiedNotice, "Aviso prévio indenizado", decimal.NewFromInt(30), payroll.UnitDays, notice)
		ev.CountsTowardFGTS = true
		events = append(events, ev)
	}

	vacMonths := decimal.NewFromInt(int64(AcquisitionMonths(emp.AdmissionDate, date)))
	vacation := salary.Mul(vacMonths).Div(twelve).Round(2)
	vacBonus := vacation.Div(three).Round(2)
	vacEv := earningEvent(CodeProportionalVacation, "Férias proporcionais", vacMonths, payroll.UnitMonths, vacation)
	vacEv.CountsTowardIRRF = true
	bonusEv := earningEvent(CodeProportionalVacBonus, "1/3 sobre férias proporcionais", decimal.Zero, payroll.UnitNone, vacBonus)
	bonusEv.CountsTowardIRRF = true
	events = append(events, vacEv, bonusEv)

	thMonths := decimal.NewFromInt(int64(ProportionalThirteenthMonths(emp.AdmissionDate, date)))
	thirteenth := salary.Mul(thMonths).Div(twelve).Round(2)
	thEv := earningEvent(CodeProportionalThirteenth, "13º salário proporcional", thMonths, payroll.UnitMonths, thirteenth)
	thEv.CountsTowardINSS = true
	thEv.CountsTowardFGTS = true
	thEv.CountsTowardIRRF = true
	events = append(events, thEv)

	// two independent INSS lookups, summed
	inssBalance, balanceRate := c.inss(balance, false)
	inssThirteenth, thirteenthRate := c.inss(thirteenth, false)
	if inssBalance.IsPositive() {
		events = append(events, deductionEvent(CodeINSS, "INSS", balanceRate, payroll.UnitPercent, inssBalance))
	}
	if inssThirteenth.IsPositive() {
		events = append(events, deductionEvent(CodeINSSThirteenth, "INSS sobre 13º salário", thirteenthRate, payroll.UnitPercent, inssThirteenth))
	}

	w := withholdings{
		INSSBase: balance.Add(thirteenth),
		INSS:     inssBalance.Add(inssThirteenth),
	}
	var irrfRate decimal.Decimal
	w.IRRFBase, w.IRRF, irrfRate = c.irrf(AggregateBase(events, payroll.BaseIRRF), w.INSS, emp.IRRFDependents())
	if w.IRRF.IsPositive() {
		events = append(events, deductionEvent(CodeIRRF, "IRRF", irrfRate, payroll.UnitPercent, w.IRRF))
	}

	if in.Reason == payroll.ReasonWithoutCause && in.FGTSBalance.IsPositive() {
		events = append(events, earningEvent(CodeFGTSPenalty, "Multa rescisória FGTS",
			c.table.FGTSPenaltyRate.Mul(hundred), payroll.UnitPercent, in.FGTSBalance.Mul(c.table.FGTSPenaltyRate).Round(2)))
	}

	return c.summarize(payroll.CalculationTermination, events, w, balance.Add(notice).Add(thirteenth)), nil
}
