package payroll

import (
	"testing"

	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLookupBracket_INSS2024(t *testing.T) {
	inss := table(t, 2024).INSS

	tests := []struct {
		name      string
		base      string
		wantValue string
		wantRate  string
	}{
		{"zero base", "0", "0.00", "0"},
		{"negative base", "-150.00", "0.00", "0"},
		{"first bracket", "1000.00", "75.00", "7.5"},
		{"first bracket limit", "1412.00", "105.90", "7.5"},
		{"second bracket", "2000.00", "158.82", "9"},
		{"third bracket", "3000.00", "258.82", "12"},
		{"top bracket limit", "7786.02", "908.86", "14"},
		{"just above top limit", "7786.03", "908.85", "14"},
		{"far above top limit", "100000.00", "908.85", "14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, rate := LookupBracket(d(tt.base), inss)
			assertMoney(t, tt.wantValue, value)
			assert.True(t, d(tt.wantRate).Equal(rate), "rate = %s", rate)
		})
	}
}

func TestLookupBracket_IRRFUnbounded(t *testing.T) {
	irrf := table(t, 2024).IRRF

	value, rate := LookupBracket(d("2000.00"), irrf)
	assertMoney(t, "0.00", value)
	assert.True(t, rate.IsZero())

	value, _ = LookupBracket(d("3000.00"), irrf)
	assertMoney(t, "68.56", value)

	value, rate = LookupBracket(d("10000.00"), irrf)
	assertMoney(t, "1854.00", value)
	assert.True(t, d("27.5").Equal(rate))
}

func TestLookupBracket_ClampsAtZero(t *testing.T) {
	tbl := payroll.BracketTable{Brackets: []payroll.Bracket{
		{UpperLimit: d("1000"), Rate: d("0.10"), Deduction: d("50")},
	}}

	value, rate := LookupBracket(d("100"), tbl)
	assertMoney(t, "0.00", value)
	assert.True(t, d("10").Equal(rate))
}

func TestLookupBracket_NoCeilingUsesTopBracket(t *testing.T) {
	tbl := payroll.BracketTable{Brackets: []payroll.Bracket{
		{UpperLimit: d("1000"), Rate: d("0.10"), Deduction: d("0")},
		{UpperLimit: d("2000"), Rate: d("0.20"), Deduction: d("100")},
	}}

	value, _ := LookupBracket(d("5000"), tbl)
	assertMoney(t, "900.00", value)
}

func TestLookupBracket_MatchesFormulaAndIsMonotonicWithinBracket(t *testing.T) {
	inss := table(t, 2024).INSS
	step := d("7.31")

	lower := d("0.01")
	for _, b := range inss.Brackets {
		prev := decimal.Zero
		for base := lower; base.LessThanOrEqual(b.UpperLimit); base = base.Add(step) {
			value, _ := LookupBracket(base, inss)

			want := base.Mul(b.Rate).Sub(b.Deduction).Round(2)
			if want.IsNegative() {
				want = decimal.Zero
			}
			assert.True(t, want.Equal(value), "base %s: got %s want %s", base, value, want)
			assert.True(t, value.GreaterThanOrEqual(prev), "base %s decreased", base)
			prev = value
		}
		lower = b.UpperLimit.Add(d("0.01"))
	}
}

func TestLookupBracket_Deterministic(t *testing.T) {
	irrf := table(t, 2025).IRRF
	for _, base := range []string{"0.01", "2428.80", "2428.81", "4664.68", "50000"} {
		v1, r1 := LookupBracket(d(base), irrf)
		v2, r2 := LookupBracket(d(base), irrf)
		assert.True(t, v1.Equal(v2))
		assert.True(t, r1.Equal(r2))
	}
}

func TestAggregateBase(t *testing.T) {
	events := []payroll.ComputedEvent{
		{Code: "001", Kind: payroll.LineKindEarning, Earning: d("3000"), CountsTowardINSS: true, CountsTowardFGTS: true, CountsTowardIRRF: true},
		{Code: "050", Kind: payroll.LineKindEarning, Earning: d("200"), CountsTowardINSS: true},
		{Code: "060", Kind: payroll.LineKindEarning, Earning: d("150"), CountsTowardIRRF: true},
		{Code: "070", Kind: payroll.LineKindDeduction, Deduction: d("500"), CountsTowardINSS: true, CountsTowardFGTS: true, CountsTowardIRRF: true},
	}

	assertMoney(t, "3200.00", AggregateBase(events, payroll.BaseINSS))
	assertMoney(t, "3000.00", AggregateBase(events, payroll.BaseFGTS))
	assertMoney(t, "3150.00", AggregateBase(events, payroll.BaseIRRF))
	assertMoney(t, "0.00", AggregateBase(nil, payroll.BaseINSS))
}
