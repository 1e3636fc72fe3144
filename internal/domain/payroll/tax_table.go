package payroll

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/shopspring/decimal"
)

// Bracket is one progressive range. Unbounded marks the open top range (IRRF).
type Bracket struct {
	UpperLimit decimal.Decimal `json:"upper_limit"`
	Rate       decimal.Decimal `json:"rate"`
	Deduction  decimal.Decimal `json:"deduction"`
	Unbounded  bool            `json:"unbounded,omitempty"`
}

// BracketTable is ordered by UpperLimit. When Ceiling is set, any base above the
// highest limit yields Ceiling instead of a computed value (INSS teto).
type BracketTable struct {
	Brackets []Bracket        `json:"brackets"`
	Ceiling  *decimal.Decimal `json:"ceiling,omitempty"`
}

// Validate returns a *ConfigurationError describing the first problem found.
func (t BracketTable) Validate(name string) error {
	if len(t.Brackets) == 0 {
		return &ConfigurationError{Table: name, Reason: "no brackets"}
	}
	one := decimal.NewFromInt(1)
	for i, b := range t.Brackets {
		if b.Rate.IsNegative() || b.Rate.GreaterThan(one) {
			return &ConfigurationError{Table: name, Reason: fmt.Sprintf("bracket %d rate %s outside [0, 1]", i, b.Rate)}
		}
		if b.Deduction.IsNegative() {
			return &ConfigurationError{Table: name, Reason: fmt.Sprintf("bracket %d has a negative deduction", i)}
		}
		if b.Unbounded {
			if i != len(t.Brackets)-1 {
				return &ConfigurationError{Table: name, Reason: "only the last bracket may be unbounded"}
			}
			continue
		}
		if !b.UpperLimit.IsPositive() {
			return &ConfigurationError{Table: name, Reason: fmt.Sprintf("bracket %d limit must be positive", i)}
		}
		if i > 0 && !b.UpperLimit.GreaterThan(t.Brackets[i-1].UpperLimit) {
			return &ConfigurationError{Table: name, Reason: "limits are not strictly increasing"}
		}
	}
	if t.Ceiling != nil {
		if t.Ceiling.IsNegative() {
			return &ConfigurationError{Table: name, Reason: "ceiling value is negative"}
		}
		if t.Brackets[len(t.Brackets)-1].Unbounded {
			return &ConfigurationError{Table: name, Reason: "a table with a ceiling value cannot have an unbounded bracket"}
		}
	}
	return nil
}

// TopLimit returns the highest finite limit of the table.
func (t BracketTable) TopLimit() decimal.Decimal {
	for i := len(t.Brackets) - 1; i >= 0; i-- {
		if !t.Brackets[i].Unbounded {
			return t.Brackets[i].UpperLimit
		}
	}
	return decimal.Zero
}

// TaxTable groups every legal constant a calculation depends on for one year.
type TaxTable struct {
	EffectiveYear               int             `json:"effective_year"`
	MinimumWage                 decimal.Decimal `json:"minimum_wage"`
	INSS                        BracketTable    `json:"inss"`
	IRRF                        BracketTable    `json:"irrf"`
	IRRFDependentDeduction      decimal.Decimal `json:"irrf_dependent_deduction"`
	FamilyAllowancePerDependent decimal.Decimal `json:"family_allowance_per_dependent"`
	FamilyAllowanceIncomeLimit  decimal.Decimal `json:"family_allowance_income_limit"`
	FGTSRate                    decimal.Decimal `json:"fgts_rate"`
	FGTSPenaltyRate             decimal.Decimal `json:"fgts_penalty_rate"`
	PartnerINSSRate             decimal.Decimal `json:"partner_inss_rate"`
	MonthlyHours                decimal.Decimal `json:"monthly_hours"`
}

func (t TaxTable) Validate() error {
	if err := t.INSS.Validate(fmt.Sprintf("INSS %d", t.EffectiveYear)); err != nil {
		return err
	}
	if err := t.IRRF.Validate(fmt.Sprintf("IRRF %d", t.EffectiveYear)); err != nil {
		return err
	}
	if t.INSS.Ceiling == nil {
		return &ConfigurationError{Table: fmt.Sprintf("INSS %d", t.EffectiveYear), Reason: "ceiling value is required"}
	}
	if !t.MonthlyHours.IsPositive() {
		return &ConfigurationError{Table: fmt.Sprintf("tax %d", t.EffectiveYear), Reason: "monthly hours must be positive"}
	}
	if !t.MinimumWage.IsPositive() {
		return &ConfigurationError{Table: fmt.Sprintf("tax %d", t.EffectiveYear), Reason: "minimum wage must be positive"}
	}
	return nil
}

// TaxTableSet holds tables by effective year. It is immutable once built.
type TaxTableSet struct {
	tables []TaxTable
}

// NewTaxTableSet validates every table and sorts them by effective year.
func NewTaxTableSet(tables ...TaxTable) (*TaxTableSet, error) {
	if len(tables) == 0 {
		return nil, &ConfigurationError{Table: "tax", Reason: "no tax tables configured"}
	}
	sorted := make([]TaxTable, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].EffectiveYear < sorted[j].EffectiveYear })
	for i, t := range sorted {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if i > 0 && sorted[i-1].EffectiveYear == t.EffectiveYear {
			return nil, &ConfigurationError{Table: "tax", Reason: fmt.Sprintf("duplicate table for %d", t.EffectiveYear)}
		}
	}
	return &TaxTableSet{tables: sorted}, nil
}

// ForYear returns the table with the greatest effective year not after year.
func (s *TaxTableSet) ForYear(year int) (TaxTable, error) {
	for i := len(s.tables) - 1; i >= 0; i-- {
		if s.tables[i].EffectiveYear <= year {
			return s.tables[i], nil
		}
	}
	return TaxTable{}, fmt.Errorf("%w: %d", ErrTaxYearNotSupported, year)
}

// Years lists the configured effective years in ascending order.
func (s *TaxTableSet) Years() []int {
	years := make([]int, 0, len(s.tables))
	for _, t := range s.tables {
		years = append(years, t.EffectiveYear)
	}
	return years
}

// ReadTaxTables decodes a JSON array of tables. Amounts may be strings or numbers.
func ReadTaxTables(r io.Reader) ([]TaxTable, error) {
	var tables []TaxTable
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&tables); err != nil {
		return nil, &ConfigurationError{Table: "tax", Reason: fmt.Sprintf("cannot decode tables: %v", err)}
	}
	return tables, nil
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ceiling(s string) *decimal.Decimal {
	v := money(s)
	return &v
}

// DefaultTaxTables returns the official tables known to this build.
func DefaultTaxTables() []TaxTable {
	return []TaxTable{
		{
			EffectiveYear: 2024,
			MinimumWage:   money("1412.00"),
			INSS: BracketTable{
				Brackets: []Bracket{
					{UpperLimit: money("1412.00"), Rate: money("0.075"), Deduction: money("0")},
					{UpperLimit: money("2666.68"), Rate: money("0.09"), Deduction: money("21.18")},
					{UpperLimit: money("4000.03"), Rate: money("0.12"), Deduction: money("101.18")},
					{UpperLimit: money("7786.02"), Rate: money("0.14"), Deduction: money("181.18")},
				},
				Ceiling: ceiling("908.85"),
			},
			IRRF: BracketTable{
				Brackets: []Bracket{
					{UpperLimit: money("2259.20"), Rate: money("0"), Deduction: money("0")},
					{UpperLimit: money("2826.65"), Rate: money("0.075"), Deduction: money("169.44")},
					{UpperLimit: money("3751.05"), Rate: money("0.15"), Deduction: money("381.44")},
					{UpperLimit: money("4664.68"), Rate: money("0.225"), Deduction: money("662.77")},
					{Rate: money("0.275"), Deduction: money("896.00"), Unbounded: true},
				},
			},
			IRRFDependentDeduction:      money("189.59"),
			FamilyAllowancePerDependent: money("62.04"),
			FamilyAllowanceIncomeLimit:  money("1819.26"),
			FGTSRate:                    money("0.08"),
			FGTSPenaltyRate:             money("0.40"),
			PartnerINSSRate:             money("0.11"),
			MonthlyHours:                money("220"),
		},
		{
			EffectiveYear: 2025,
			MinimumWage:   money("1518.00"),
			INSS: BracketTable{
				Brackets: []Bracket{
					{UpperLimit: money("1518.00"), Rate: money("0.075"), Deduction: money("0")},
					{UpperLimit: money("2793.88"), Rate: money("0.09"), Deduction: money("22.77")},
					{UpperLimit: money("4190.83"), Rate: money("0.12"), Deduction: money("106.59")},
					{UpperLimit: money("8157.41"), Rate: money("0.14"), Deduction: money("190.40")},
				},
				Ceiling: ceiling("951.63"),
			},
			IRRF: BracketTable{
				Brackets: []Bracket{
					{UpperLimit: money("2428.80"), Rate: money("0"), Deduction: money("0")},
					{UpperLimit: money("2826.65"), Rate: money("0.075"), Deduction: money("182.16")},
					{UpperLimit: money("3751.05"), Rate: money("0.15"), Deduction: money("394.16")},
					{UpperLimit: money("4664.68"), Rate: money("0.225"), Deduction: money("675.49")},
					{Rate: money("0.275"), Deduction: money("908.73"), Unbounded: true},
				},
			},
			IRRFDependentDeduction:      money("189.59"),
			FamilyAllowancePerDependent: money("65.00"),
			FamilyAllowanceIncomeLimit:  money("1906.04"),
			FGTSRate:                    money("0.08"),
			FGTSPenaltyRate:             money("0.40"),
			PartnerINSSRate:             money("0.11"),
			MonthlyHours:                money("220"),
		},
	}
}
