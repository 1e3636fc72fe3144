package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrRubricNotFound      = errors.New("rubric not found")
	ErrRubricCodeExists    = errors.New("rubric code already exists")
	ErrPayslipNotFound     = errors.New("payslip not found")
	ErrTaxYearNotSupported = errors.New("no tax table in effect for the requested year")
	ErrPartnerNotEntitled  = errors.New("partners are not entitled to this calculation")
)

// ConfigurationError reports a broken tax table. It is never the caller's fault.
type ConfigurationError struct {
	Table  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s table: %s", e.Table, e.Reason)
}
