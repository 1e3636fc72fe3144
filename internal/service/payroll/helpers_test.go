package payroll

import (
	"testing"
	"time"

	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func date(s string) time.Time {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return t
}

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.Equal(t, want, got.StringFixed(2), msgAndArgs...)
}

func table(t *testing.T, year int) payroll.TaxTable {
	t.Helper()
	set, err := payroll.NewTaxTableSet(payroll.DefaultTaxTables()...)
	require.NoError(t, err)
	tt, err := set.ForYear(year)
	require.NoError(t, err)
	return tt
}

func calculator(t *testing.T, year int) *Calculator {
	t.Helper()
	c, err := NewCalculator(table(t, year))
	require.NoError(t, err)
	return c
}

func newEmployee(salary string, admission string) employee.Employee {
	s := d(salary)
	return employee.Employee{
		ID:            "0192b6a4-6f4e-7c1a-9d55-3c0b1f2a9e01",
		CompanyID:     "0192b6a4-6f4e-7c1a-9d55-3c0b1f2a9e00",
		FullName:      "Maria Souza",
		CPF:           "52998224725",
		PayeeKind:     employee.PayeeEmployee,
		BaseSalary:    &s,
		AdmissionDate: date(admission),
		IsActive:      true,
	}
}

func withDependents(e employee.Employee, familyAllowance, irrf int) employee.Employee {
	n := familyAllowance
	if irrf > n {
		n = irrf
	}
	for i := 0; i < n; i++ {
		e.Dependents = append(e.Dependents, employee.Dependent{
			Name:                       "Dependente",
			EligibleForFamilyAllowance: i < familyAllowance,
			EligibleForIRRFDeduction:   i < irrf,
		})
	}
	return e
}

func findEvent(events []payroll.ComputedEvent, code string) (payroll.ComputedEvent, bool) {
	for _, e := range events {
		if e.Code == code {
			return e, true
		}
	}
	return payroll.ComputedEvent{}, false
}

func assertBalanced(t *testing.T, res payroll.CalculationResult) {
	t.Helper()
	assert.True(t, res.TotalEarnings.Sub(res.TotalDeductions).Equal(res.NetPay),
		"earnings %s - deductions %s != net %s", res.TotalEarnings, res.TotalDeductions, res.NetPay)
}
