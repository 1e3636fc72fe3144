package payroll

import (
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// AggregateBase sums the earning lines flagged for the given contribution base.
func AggregateBase(events []payroll.ComputedEvent, base payroll.ContributionBase) decimal.Decimal {
	total := decimal.Zero
	for _, e := range events {
		if e.Contributes(base) {
			total = total.Add(e.Earning)
		}
	}
	return total
}
