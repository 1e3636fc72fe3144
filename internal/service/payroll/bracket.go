package payroll

import (
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LookupBracket returns the contribution for base and the nominal rate (in percent)
// of the bracket that produced it.
//
// A base above the highest finite limit of a table with a ceiling yields the
// ceiling value, whatever the distance above the limit.
func LookupBracket(base decimal.Decimal, table payroll.BracketTable) (value decimal.Decimal, ratePercent decimal.Decimal) {
	if !base.IsPositive() || len(table.Brackets) == 0 {
		return decimal.Zero, decimal.Zero
	}

	last := table.Brackets[len(table.Brackets)-1]
	if !last.Unbounded && base.GreaterThan(last.UpperLimit) {
		if table.Ceiling != nil {
			return *table.Ceiling, last.Rate.Mul(hundred)
		}
		return applyBracket(base, last), last.Rate.Mul(hundred)
	}

	for _, b := range table.Brackets {
		if b.Unbounded || b.UpperLimit.GreaterThanOrEqual(base) {
			return applyBracket(base, b), b.Rate.Mul(hundred)
		}
	}
	return applyBracket(base, last), last.Rate.Mul(hundred)
}

// rounding happens after the deduction is subtracted
func applyBracket(base decimal.Decimal, b payroll.Bracket) decimal.Decimal {
	v := base.Mul(b.Rate).Sub(b.Deduction).Round(2)
	if v.IsNegative() {
		return decimal.Zero
	}
	return v
}
