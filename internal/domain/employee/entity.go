package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// PayeeKind separates CLT employees from partners paid through pró-labore.
type PayeeKind string

const (
	PayeeEmployee PayeeKind = "employee"
	PayeePartner  PayeeKind = "partner"
)

func (k PayeeKind) Valid() bool {
	return k == PayeeEmployee || k == PayeePartner
}

type Employee struct {
	ID            string
	CompanyID     string
	FullName      string
	CPF           string
	PayeeKind     PayeeKind
	BaseSalary    *decimal.Decimal
	AdmissionDate time.Time
	IsActive      bool
	Dependents    []Dependent
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPartner reports whether the payee is an owner/partner.
func (e Employee) IsPartner() bool {
	return e.PayeeKind == PayeePartner
}

// FamilyAllowanceDependents counts dependents eligible for salário-família.
func (e Employee) FamilyAllowanceDependents() int {
	n := 0
	for _, d := range e.Dependents {
		if d.EligibleForFamilyAllowance {
			n++
		}
	}
	return n
}

// IRRFDependents counts dependents deductible from the IRRF base.
func (e Employee) IRRFDependents() int {
	n := 0
	for _, d := range e.Dependents {
		if d.EligibleForIRRFDeduction {
			n++
		}
	}
	return n
}

type Dependent struct {
	ID                         string
	EmployeeID                 string
	Name                       string
	BirthDate                  *time.Time
	EligibleForFamilyAllowance bool
	EligibleForIRRFDeduction   bool
}
