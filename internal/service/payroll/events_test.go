package payroll

import (
	"testing"

	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rubric(code string, rule payroll.RuleKind) payroll.Rubric {
	return payroll.Rubric{
		Code:             code,
		Description:      string(rule),
		Kind:             payroll.LineKindEarning,
		CountsTowardINSS: true,
		CountsTowardFGTS: true,
		CountsTowardIRRF: true,
		Rule:             rule,
		IsActive:         true,
	}
}

func TestEventBuilder_BaseSalary(t *testing.T) {
	b := NewEventBuilder(table(t, 2024))

	events, err := b.Build(d("3000"), nil, 0)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, CodeBaseSalary, events[0].Code)
	assertMoney(t, "3000.00", events[0].Earning)
	assert.True(t, events[0].CountsTowardINSS && events[0].CountsTowardFGTS && events[0].CountsTowardIRRF)

	events, err = b.Build(d("3000"), nil, 15)
	require.NoError(t, err)
	assertMoney(t, "1500.00", events[0].Earning)

	events, err = b.Build(d("1412"), nil, 30)
	require.NoError(t, err)
	assertMoney(t, "1412.00", events[0].Earning)
}

func TestEventBuilder_RuleKinds(t *testing.T) {
	b := NewEventBuilder(table(t, 2024))
	medium := payroll.UnhealthyTierMedium
	unhealthy := rubric("120", payroll.RuleUnhealthyConditions)
	unhealthy.UnhealthyTier = &medium

	tests := []struct {
		name    string
		entry   PeriodEntry
		want    string
		wantRef string
		unit    payroll.ReferenceUnit
	}{
		{"overtime 50", PeriodEntry{Rubric: rubric("100", payroll.RuleOvertime50), Reference: d("10")}, "150.00", "10", payroll.UnitHours},
		{"overtime 100", PeriodEntry{Rubric: rubric("101", payroll.RuleOvertime100), Reference: d("10")}, "200.00", "10", payroll.UnitHours},
		{"night shift", PeriodEntry{Rubric: rubric("102", payroll.RuleNightShift), Reference: d("10")}, "20.00", "10", payroll.UnitHours},
		{"hazard", PeriodEntry{Rubric: rubric("110", payroll.RuleHazard)}, "660.00", "30", payroll.UnitPercent},
		{"unhealthy medium", PeriodEntry{Rubric: unhealthy}, "282.40", "20", payroll.UnitPercent},
		{"generic", PeriodEntry{Rubric: rubric("200", payroll.RuleGeneric), Amount: d("123.456")}, "123.46", "0", payroll.UnitNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := b.Build(d("2200"), []PeriodEntry{tt.entry}, 0)
			require.NoError(t, err)
			require.Len(t, events, 2)

			ev := events[1]
			assert.Equal(t, tt.entry.Rubric.Code, ev.Code)
			assert.Equal(t, payroll.LineKindEarning, ev.Kind)
			assertMoney(t, tt.want, ev.Earning)
			assert.True(t, d(tt.wantRef).Equal(ev.Reference), "reference = %s", ev.Reference)
			assert.Equal(t, tt.unit, ev.Unit)
		})
	}
}

func TestEventBuilder_DeductionRubric(t *testing.T) {
	b := NewEventBuilder(table(t, 2024))
	r := rubric("300", payroll.RuleGeneric)
	r.Kind = payroll.LineKindDeduction

	events, err := b.Build(d("3000"), []PeriodEntry{{Rubric: r, Amount: d("180")}}, 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, payroll.LineKindDeduction, events[1].Kind)
	assertMoney(t, "180.00", events[1].Deduction)
	assert.True(t, events[1].Earning.IsZero())
	assert.False(t, events[1].Contributes(payroll.BaseINSS))
}

func TestEventBuilder_Rejects(t *testing.T) {
	b := NewEventBuilder(table(t, 2024))

	tests := []struct {
		name    string
		salary  string
		entries []PeriodEntry
		days    int
	}{
		{"negative salary", "-1", nil, 0},
		{"days above 30", "3000", nil, 31},
		{"negative days", "3000", nil, -2},
		{"system generated family allowance", "3000", []PeriodEntry{{Rubric: rubric("002", payroll.RuleFamilyAllowance), Amount: d("10")}}, 0},
		{"system generated inss", "3000", []PeriodEntry{{Rubric: rubric("901", payroll.RuleINSSDiscount), Amount: d("10")}}, 0},
		{"negative amount", "3000", []PeriodEntry{{Rubric: rubric("200", payroll.RuleGeneric), Amount: d("-10")}}, 0},
		{"negative hours", "3000", []PeriodEntry{{Rubric: rubric("100", payroll.RuleOvertime50), Reference: d("-1")}}, 0},
		{"unhealthy without tier", "3000", []PeriodEntry{{Rubric: rubric("120", payroll.RuleUnhealthyConditions)}}, 0},
		{"unknown rule", "3000", []PeriodEntry{{Rubric: rubric("999", payroll.RuleKind("keyword"))}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Build(d(tt.salary), tt.entries, tt.days)
			require.Error(t, err)
			var verrs validator.ValidationErrors
			assert.ErrorAs(t, err, &verrs)
		})
	}
}
