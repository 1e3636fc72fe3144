package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/escopo/escopo-backend-go/internal/domain/auth"
	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/fixtures"
	"github.com/escopo/escopo-backend-go/internal/pkg/metrics"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transactor runs fn in a unit of work; repositories called with txCtx join it.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(txCtx context.Context) error) error
}

type PayrollServiceImpl struct {
	tx           Transactor
	payrollRepo  payroll.PayrollRepository
	employeeRepo employee.EmployeeRepository
	tables       *payroll.TaxTableSet
	metrics      metrics.Recorder
	logger       *slog.Logger
	now          func() time.Time
}

func NewPayrollService(
	tx Transactor,
	payrollRepo payroll.PayrollRepository,
	employeeRepo employee.EmployeeRepository,
	tables *payroll.TaxTableSet,
	recorder metrics.Recorder,
	logger *slog.Logger,
) payroll.PayrollService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		tx:           tx,
		payrollRepo:  payrollRepo,
		employeeRepo: employeeRepo,
		tables:       tables,
		metrics:      recorder,
		logger:       logger,
		now:          time.Now,
	}
}

// Helper to get company_id and user_id from JWT context
func getClaimsFromContext(ctx context.Context) (companyID, userID string, err error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return "", "", auth.ErrCompanyClaimMissing
	}

	userID, _ = claims["user_id"].(string)

	return companyID, userID, nil
}

// calculatorFor picks the table in effect for year.
func (s *PayrollServiceImpl) calculatorFor(year int) (*Calculator, error) {
	table, err := s.tables.ForYear(year)
	if err != nil {
		return nil, err
	}
	return NewCalculator(table)
}

// ========== RUBRICS ==========

func (s *PayrollServiceImpl) CreateRubric(ctx context.Context, req payroll.CreateRubricRequest) (payroll.RubricResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RubricResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RubricResponse{}, err
	}

	rubric, err := newRubric(companyID, req)
	if err != nil {
		return payroll.RubricResponse{}, err
	}

	created, err := s.payrollRepo.CreateRubric(ctx, rubric)
	if err != nil {
		return payroll.RubricResponse{}, err
	}

	s.logger.InfoContext(ctx, "rubric created",
		slog.String("company_id", companyID),
		slog.String("code", created.Code),
		slog.String("rule", string(created.Rule)),
	)

	return payroll.ToRubricResponse(created), nil
}

// SeedDefaultRubrics adds the standard catalog, skipping codes the company already uses.
func (s *PayrollServiceImpl) SeedDefaultRubrics(ctx context.Context) (payroll.SeedRubricsResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.SeedRubricsResponse{}, err
	}

	resp := payroll.SeedRubricsResponse{
		Created: []payroll.RubricResponse{},
		Skipped: []string{},
	}
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		existing, err := s.payrollRepo.ListRubrics(txCtx, companyID, false)
		if err != nil {
			return err
		}
		taken := make(map[string]bool, len(existing))
		for _, r := range existing {
			taken[r.Code] = true
		}

		for _, req := range fixtures.DefaultRubrics() {
			if taken[req.Code] {
				resp.Skipped = append(resp.Skipped, req.Code)
				continue
			}
			if err := req.Validate(); err != nil {
				return fmt.Errorf("default rubric %s: %w", req.Code, err)
			}
			rubric, err := newRubric(companyID, req)
			if err != nil {
				return err
			}
			created, err := s.payrollRepo.CreateRubric(txCtx, rubric)
			if err != nil {
				return err
			}
			resp.Created = append(resp.Created, payroll.ToRubricResponse(created))
		}
		return nil
	})
	if err != nil {
		return payroll.SeedRubricsResponse{}, err
	}

	s.logger.InfoContext(ctx, "default rubrics seeded",
		slog.String("company_id", companyID),
		slog.Int("created", len(resp.Created)),
		slog.Int("skipped", len(resp.Skipped)),
	)
	return resp, nil
}

// newRubric builds an active rubric from a validated request.
func newRubric(companyID string, req payroll.CreateRubricRequest) (payroll.Rubric, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return payroll.Rubric{}, fmt.Errorf("failed to generate rubric id: %w", err)
	}

	rubric := payroll.Rubric{
		ID:               id.String(),
		CompanyID:        companyID,
		Code:             req.Code,
		Description:      req.Description,
		Kind:             payroll.LineKind(req.Kind),
		CountsTowardINSS: req.CountsTowardINSS,
		CountsTowardFGTS: req.CountsTowardFGTS,
		CountsTowardIRRF: req.CountsTowardIRRF,
		Rule:             payroll.RuleKind(req.Rule),
		IsActive:         true,
	}
	if req.UnhealthyTier != nil {
		tier := payroll.UnhealthyTier(*req.UnhealthyTier)
		rubric.UnhealthyTier = &tier
	}
	return rubric, nil
}

func (s *PayrollServiceImpl) GetRubric(ctx context.Context, id string) (payroll.RubricResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.RubricResponse{}, invalidID()
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RubricResponse{}, err
	}

	rubric, err := s.payrollRepo.GetRubricByID(ctx, id, companyID)
	if err != nil {
		return payroll.RubricResponse{}, err
	}

	return payroll.ToRubricResponse(rubric), nil
}

func (s *PayrollServiceImpl) ListRubrics(ctx context.Context, activeOnly bool) ([]payroll.RubricResponse, error) {
	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rubrics, err := s.payrollRepo.ListRubrics(ctx, companyID, activeOnly)
	if err != nil {
		return nil, err
	}

	result := make([]payroll.RubricResponse, 0, len(rubrics))
	for _, r := range rubrics {
		result = append(result, payroll.ToRubricResponse(r))
	}
	return result, nil
}

func (s *PayrollServiceImpl) UpdateRubric(ctx context.Context, req payroll.UpdateRubricRequest) (payroll.RubricResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.RubricResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.RubricResponse{}, err
	}

	var updated payroll.Rubric
	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.payrollRepo.UpdateRubric(txCtx, companyID, req); err != nil {
			return err
		}
		updated, err = s.payrollRepo.GetRubricByID(txCtx, req.ID, companyID)
		return err
	})
	if err != nil {
		return payroll.RubricResponse{}, err
	}

	return payroll.ToRubricResponse(updated), nil
}

func (s *PayrollServiceImpl) DeleteRubric(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return invalidID()
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return err
	}

	return s.payrollRepo.DeleteRubric(ctx, id, companyID)
}

// ========== CALCULATIONS ==========

// calculation is what every calculator run leaves behind for persistence.
type calculation struct {
	referenceMonth int
	referenceYear  int
	result         payroll.CalculationResult
	vacation       *payroll.VacationSchedule
}

// run loads the employee inside a unit of work, calls compute and saves the
// snapshot when asked to.
func (s *PayrollServiceImpl) run(
	ctx context.Context,
	kind payroll.CalculationKind,
	employeeID string,
	save bool,
	compute func(txCtx context.Context, emp employee.Employee) (calculation, error),
) (resp payroll.CalculationResponse, err error) {
	start := s.now()
	defer func() {
		s.metrics.ObserveCalculation(string(kind), save, s.now().Sub(start), err)
	}()

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.CalculationResponse{}, err
	}

	err = s.tx.WithinTx(ctx, func(txCtx context.Context) error {
		emp, err := s.employeeRepo.GetByID(txCtx, employeeID, companyID)
		if err != nil {
			return err
		}

		calc, err := compute(txCtx, emp)
		if err != nil {
			return err
		}

		resp = payroll.CalculationResponse{
			EmployeeID: emp.ID,
			Result:     calc.result,
			Vacation:   calc.vacation,
		}
		if !save {
			return nil
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate payslip id: %w", err)
		}
		created, err := s.payrollRepo.CreatePayslip(txCtx, payroll.Payslip{
			ID:             id.String(),
			CompanyID:      companyID,
			EmployeeID:     emp.ID,
			Kind:           kind,
			ReferenceMonth: calc.referenceMonth,
			ReferenceYear:  calc.referenceYear,
			TaxYear:        calc.result.TaxYear,
			Result:         calc.result,
			Vacation:       calc.vacation,
			CreatedAt:      s.now(),
		})
		if err != nil {
			return err
		}
		resp.PayslipID = &created.ID
		return nil
	})
	if err != nil {
		if !isExpected(err) {
			s.logger.ErrorContext(ctx, "payroll calculation failed",
				slog.String("kind", string(kind)),
				slog.String("employee_id", employeeID),
				slog.Any("error", err),
			)
		}
		return payroll.CalculationResponse{}, err
	}

	s.logger.InfoContext(ctx, "payroll calculated",
		slog.String("kind", string(kind)),
		slog.String("company_id", companyID),
		slog.String("employee_id", employeeID),
		slog.Int("tax_year", resp.Result.TaxYear),
		slog.Bool("saved", save),
	)
	return resp, nil
}

func invalidID() error {
	return validator.ValidationErrors{{Field: "id", Message: "must be a valid UUID"}}
}

// isExpected reports caller mistakes that do not deserve an error log.
func isExpected(err error) bool {
	var verrs validator.ValidationErrors
	return errors.As(err, &verrs) ||
		errors.Is(err, employee.ErrEmployeeNotFound) ||
		errors.Is(err, payroll.ErrRubricNotFound) ||
		errors.Is(err, payroll.ErrTaxYearNotSupported) ||
		errors.Is(err, payroll.ErrPartnerNotEntitled)
}

func (s *PayrollServiceImpl) CalculateMonthly(ctx context.Context, req payroll.MonthlyPayrollRequest) (payroll.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResponse{}, err
	}

	return s.run(ctx, payroll.CalculationMonthly, req.EmployeeID, req.Save, func(txCtx context.Context, emp employee.Employee) (calculation, error) {
		calc, err := s.calculatorFor(req.PeriodYear)
		if err != nil {
			return calculation{}, err
		}
		salary, err := RequireSalary(emp)
		if err != nil {
			return calculation{}, err
		}
		entries, err := s.resolveEntries(txCtx, emp.CompanyID, req.Entries)
		if err != nil {
			return calculation{}, err
		}

		days := 0
		if req.DaysWorked != nil {
			days = *req.DaysWorked
		}
		events, err := calc.Events().Build(salary, entries, days)
		if err != nil {
			return calculation{}, err
		}
		result, err := calc.Monthly(emp, events)
		if err != nil {
			return calculation{}, err
		}

		return calculation{
			referenceMonth: req.PeriodMonth,
			referenceYear:  req.PeriodYear,
			result:         result,
		}, nil
	})
}

// resolveEntries loads the referenced rubrics of the caller's company.
func (s *PayrollServiceImpl) resolveEntries(ctx context.Context, companyID string, reqs []payroll.PeriodEntryRequest) ([]PeriodEntry, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, e := range reqs {
		if !seen[e.RubricID] {
			seen[e.RubricID] = true
			ids = append(ids, e.RubricID)
		}
	}

	rubrics, err := s.payrollRepo.GetRubricsByIDs(ctx, ids, companyID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]payroll.Rubric, len(rubrics))
	for _, r := range rubrics {
		byID[r.ID] = r
	}

	var errs validator.ValidationErrors
	entries := make([]PeriodEntry, 0, len(reqs))
	for i, e := range reqs {
		r, ok := byID[e.RubricID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", payroll.ErrRubricNotFound, e.RubricID)
		}
		if !r.IsActive {
			errs.Add(fmt.Sprintf("entries[%d].rubric_id", i), "rubric is inactive")
			continue
		}
		entry := PeriodEntry{Rubric: r, Reference: decimal.Zero, Amount: decimal.Zero}
		if e.Reference != nil {
			entry.Reference = *e.Reference
		}
		if e.Amount != nil {
			entry.Amount = *e.Amount
		}
		entries = append(entries, entry)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return entries, nil
}

func (s *PayrollServiceImpl) CalculateThirteenth(ctx context.Context, req payroll.ThirteenthRequest) (payroll.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResponse{}, err
	}

	return s.run(ctx, payroll.CalculationThirteenth, req.EmployeeID, req.Save, func(_ context.Context, emp employee.Employee) (calculation, error) {
		calc, err := s.calculatorFor(req.Year)
		if err != nil {
			return calculation{}, err
		}
		mode := payroll.ThirteenthMode(req.Mode)
		result, err := calc.Thirteenth(emp, req.Year, mode)
		if err != nil {
			return calculation{}, err
		}

		month := 12
		if mode == payroll.ThirteenthFirstInstallment {
			month = 11
		}
		return calculation{referenceMonth: month, referenceYear: req.Year, result: result}, nil
	})
}

func (s *PayrollServiceImpl) CalculateVacation(ctx context.Context, req payroll.VacationRequest) (payroll.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResponse{}, err
	}
	start, _ := validator.ParseDate(req.StartDate)

	return s.run(ctx, payroll.CalculationVacation, req.EmployeeID, req.Save, func(_ context.Context, emp employee.Employee) (calculation, error) {
		calc, err := s.calculatorFor(start.Year())
		if err != nil {
			return calculation{}, err
		}
		result, err := calc.Vacation(emp, VacationInput{
			StartDate:         start,
			Days:              req.Days,
			SellDays:          req.SellDays,
			AdvanceThirteenth: req.AdvanceThirteenth,
		})
		if err != nil {
			return calculation{}, err
		}

		schedule := result.Schedule
		return calculation{
			referenceMonth: int(start.Month()),
			referenceYear:  start.Year(),
			result:         result.CalculationResult,
			vacation:       &schedule,
		}, nil
	})
}

func (s *PayrollServiceImpl) CalculateTermination(ctx context.Context, req payroll.TerminationRequest) (payroll.CalculationResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.CalculationResponse{}, err
	}
	date, _ := validator.ParseDate(req.TerminationDate)
	balance := decimal.Zero
	if req.FGTSBalance != nil {
		balance = *req.FGTSBalance
	}

	return s.run(ctx, payroll.CalculationTermination, req.EmployeeID, req.Save, func(_ context.Context, emp employee.Employee) (calculation, error) {
		calc, err := s.calculatorFor(date.Year())
		if err != nil {
			return calculation{}, err
		}
		result, err := calc.Termination(emp, TerminationInput{
			Date:        date,
			Reason:      payroll.TerminationReason(req.Reason),
			Notice:      payroll.NoticeType(req.NoticeType),
			FGTSBalance: balance,
		})
		if err != nil {
			return calculation{}, err
		}

		return calculation{
			referenceMonth: int(date.Month()),
			referenceYear:  date.Year(),
			result:         result,
		}, nil
	})
}

// ========== PAYSLIPS ==========

func (s *PayrollServiceImpl) GetPayslip(ctx context.Context, id string) (payroll.PayslipResponse, error) {
	if !validator.IsValidUUID(id) {
		return payroll.PayslipResponse{}, invalidID()
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	payslip, err := s.payrollRepo.GetPayslipByID(ctx, id, companyID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	return payroll.ToPayslipResponse(payslip), nil
}

func (s *PayrollServiceImpl) ListPayslips(ctx context.Context, filter payroll.PayslipFilter) (payroll.ListPayslipResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	companyID, _, err := getClaimsFromContext(ctx)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	payslips, totalCount, err := s.payrollRepo.ListPayslips(ctx, companyID, filter)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	data := make([]payroll.PayslipResponse, 0, len(payslips))
	for _, p := range payslips {
		data = append(data, payroll.ToPayslipResponse(p))
	}

	return payroll.ListPayslipResponse{
		Data:       data,
		TotalCount: totalCount,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ========== CONFIGURATION ==========

func (s *PayrollServiceImpl) GetTaxTable(ctx context.Context, year int) (payroll.TaxTableResponse, error) {
	table, err := s.tables.ForYear(year)
	if err != nil {
		return payroll.TaxTableResponse{}, err
	}
	return payroll.TaxTableResponse{RequestedYear: year, Table: table}, nil
}
