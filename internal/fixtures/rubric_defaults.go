package fixtures

import "github.com/escopo/escopo-backend-go/internal/domain/payroll"

// ==========================================
// HELPER FUNCTIONS
// ==========================================

func strPtr(s string) *string { return &s }

// ==========================================
// DEFAULT RUBRIC CATALOG
// ==========================================

// DefaultRubrics is the catalog offered to a company that has not built its own.
// Codes 001 to 099 and 900 onwards are used by lines the calculators generate.
func DefaultRubrics() []payroll.CreateRubricRequest {
	return []payroll.CreateRubricRequest{
		// Earnings driven by a rule
		{
			Code:             "101",
			Description:      "Horas extras 50%",
			Kind:             string(payroll.LineKindEarning),
			CountsTowardINSS: true,
			CountsTowardFGTS: true,
			CountsTowardIRRF: true,
			Rule:             string(payroll.RuleOvertime50),
		},
		{
			Code:             "102",
			Description:      "Horas extras 100%",
			Kind:             string(payroll.LineKindEarning),
			CountsTowardINSS: true,
			CountsTowardFGTS: true,
			CountsTowardIRRF: true,
			Rule:             string(payroll.RuleOvertime100),
		},
		{
			Code:             "103",
			Description:      "Adicional noturno",
			Kind:             string(payroll.LineKindEarning),
			CountsTowardINSS: true,
			CountsTowardFGTS: true,
			CountsTowardIRRF: true,
			Rule:             string(payroll.RuleNightShift),
		},
		{
			Code:             "104",
			Description:      "Adicional de periculosidade",
			Kind:             string(payroll.LineKindEarning),
			CountsTowardINSS: true,
			CountsTowardFGTS: true,
			CountsTowardIRRF: true,
			Rule:             string(payroll.RuleHazard),
		},
		{
			Code:             "105",
			Description:      "Adicional de insalubridade",
			Kind:             string(payroll.LineKindEarning),
			CountsTowardINSS: true,
			CountsTowardFGTS: true,
			CountsTowardIRRF: true,
			Rule:             string(payroll.RuleUnhealthyConditions),
			UnhealthyTier:    strPtr(string(payroll.UnhealthyTierMedium)),
		},

		// Earnings entered by amount
		{
			Code:             "110",
			Description:      "Comissões",
			Kind:             string(payroll.LineKindEarning),
			CountsTowardINSS: true,
			CountsTowardFGTS: true,
			CountsTowardIRRF: true,
			Rule:             string(payroll.RuleGeneric),
		},
		{
			Code:        "111",
			Description: "Reembolso de despesas",
			Kind:        string(payroll.LineKindEarning),
			Rule:        string(payroll.RuleGeneric),
		},

		// Deductions
		{
			Code:        "201",
			Description: "Vale-transporte",
			Kind:        string(payroll.LineKindDeduction),
			Rule:        string(payroll.RuleGeneric),
		},
		{
			Code:        "202",
			Description: "Adiantamento salarial",
			Kind:        string(payroll.LineKindDeduction),
			Rule:        string(payroll.RuleGeneric),
		},
		{
			Code:        "203",
			Description: "Faltas e atrasos",
			Kind:        string(payroll.LineKindDeduction),
			Rule:        string(payroll.RuleGeneric),
		},
	}
}
