package payroll

import (
	"fmt"

	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Monthly computes the monthly payslip from the period's resolved events.
// The input slice is not modified.
func (c *Calculator) Monthly(emp employee.Employee, events []payroll.ComputedEvent) (payroll.CalculationResult, error) {
	if _, err := RequireSalary(emp); err != nil {
		return payroll.CalculationResult{}, err
	}

	var errs validator.ValidationErrors
	for i, e := range events {
		if e.Earning.IsNegative() || e.Deduction.IsNegative() {
			errs.Add(fmt.Sprintf("events[%d]", i), "amounts must be non-negative")
		}
	}
	if len(errs) > 0 {
		return payroll.CalculationResult{}, errs
	}

	out := make([]payroll.ComputedEvent, len(events), len(events)+3)
	copy(out, events)

	partner := emp.IsPartner()
	inssBase := AggregateBase(out, payroll.BaseINSS)

	if !partner {
		if fa := c.familyAllowance(inssBase, emp.FamilyAllowanceDependents()); fa != nil {
			out = append(out, *fa)
		}
	}

	out, w := c.withhold(out, inssBase, AggregateBase(out, payroll.BaseIRRF), emp)

	fgtsBase := decimal.Zero
	if !partner {
		fgtsBase = AggregateBase(out, payroll.BaseFGTS)
	}

	return c.summarize(payroll.CalculationMonthly, out, w, fgtsBase), nil
}
