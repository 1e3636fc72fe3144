package payroll

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/escopo/escopo-backend-go/internal/domain/auth"
	"github.com/escopo/escopo-backend-go/internal/domain/employee"
	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/fixtures"
	"github.com/escopo/escopo-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testCompanyID  = "0192b6a4-6f4e-7c1a-9d55-3c0b1f2a9e00"
	testEmployeeID = "0192b6a4-6f4e-7c1a-9d55-3c0b1f2a9e01"
	testRubricID   = "0192b6a4-6f4e-7c1a-9d55-3c0b1f2a9e02"
)

type mockPayrollRepo struct {
	mock.Mock
}

func (m *mockPayrollRepo) CreateRubric(ctx context.Context, rubric payroll.Rubric) (payroll.Rubric, error) {
	args := m.Called(ctx, rubric)
	if fn, ok := args.Get(0).(func(context.Context, payroll.Rubric) payroll.Rubric); ok {
		return fn(ctx, rubric), args.Error(1)
	}
	return args.Get(0).(payroll.Rubric), args.Error(1)
}

func (m *mockPayrollRepo) GetRubricByID(ctx context.Context, id string, companyID string) (payroll.Rubric, error) {
	args := m.Called(ctx, id, companyID)
	return args.Get(0).(payroll.Rubric), args.Error(1)
}

func (m *mockPayrollRepo) GetRubricsByIDs(ctx context.Context, ids []string, companyID string) ([]payroll.Rubric, error) {
	args := m.Called(ctx, ids, companyID)
	return args.Get(0).([]payroll.Rubric), args.Error(1)
}

func (m *mockPayrollRepo) ListRubrics(ctx context.Context, companyID string, activeOnly bool) ([]payroll.Rubric, error) {
	args := m.Called(ctx, companyID, activeOnly)
	return args.Get(0).([]payroll.Rubric), args.Error(1)
}

func (m *mockPayrollRepo) UpdateRubric(ctx context.Context, companyID string, req payroll.UpdateRubricRequest) error {
	args := m.Called(ctx, companyID, req)
	return args.Error(0)
}

func (m *mockPayrollRepo) DeleteRubric(ctx context.Context, id string, companyID string) error {
	args := m.Called(ctx, id, companyID)
	return args.Error(0)
}

func (m *mockPayrollRepo) CreatePayslip(ctx context.Context, p payroll.Payslip) (payroll.Payslip, error) {
	args := m.Called(ctx, p)
	if fn, ok := args.Get(0).(func(context.Context, payroll.Payslip) payroll.Payslip); ok {
		return fn(ctx, p), args.Error(1)
	}
	return args.Get(0).(payroll.Payslip), args.Error(1)
}

func (m *mockPayrollRepo) GetPayslipByID(ctx context.Context, id string, companyID string) (payroll.Payslip, error) {
	args := m.Called(ctx, id, companyID)
	return args.Get(0).(payroll.Payslip), args.Error(1)
}

func (m *mockPayrollRepo) ListPayslips(ctx context.Context, companyID string, filter payroll.PayslipFilter) ([]payroll.Payslip, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]payroll.Payslip), args.Get(1).(int64), args.Error(2)
}

type mockEmployeeRepo struct {
	mock.Mock
}

func (m *mockEmployeeRepo) GetByID(ctx context.Context, id string, companyID string) (employee.Employee, error) {
	args := m.Called(ctx, id, companyID)
	return args.Get(0).(employee.Employee), args.Error(1)
}

func (m *mockEmployeeRepo) List(ctx context.Context, companyID string, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	args := m.Called(ctx, companyID, filter)
	return args.Get(0).([]employee.Employee), args.Get(1).(int64), args.Error(2)
}

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

type recordedObservation struct {
	kind  string
	saved bool
	err   error
}

type fakeRecorder struct {
	observed []recordedObservation
}

func (f *fakeRecorder) ObserveCalculation(kind string, saved bool, _ time.Duration, err error) {
	f.observed = append(f.observed, recordedObservation{kind: kind, saved: saved, err: err})
}

type serviceFixture struct {
	svc       payroll.PayrollService
	payroll   *mockPayrollRepo
	employees *mockEmployeeRepo
	recorder  *fakeRecorder
}

func newFixture(t *testing.T) serviceFixture {
	t.Helper()
	tables, err := payroll.NewTaxTableSet(payroll.DefaultTaxTables()...)
	require.NoError(t, err)

	f := serviceFixture{
		payroll:   &mockPayrollRepo{},
		employees: &mockEmployeeRepo{},
		recorder:  &fakeRecorder{},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = NewPayrollService(passthroughTx{}, f.payroll, f.employees, tables, f.recorder, logger)
	t.Cleanup(func() {
		f.payroll.AssertExpectations(t)
		f.employees.AssertExpectations(t)
	})
	return f
}

func ctxWithClaims(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret-key-for-jwt"), nil)
	token, _, err := ja.Encode(claims)
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func companyCtx(t *testing.T) context.Context {
	return ctxWithClaims(t, map[string]interface{}{
		"user_id":    "user-1",
		"company_id": testCompanyID,
		"role":       "accountant",
		"type":       "access",
	})
}

func storedEmployee() employee.Employee {
	e := newEmployee("3000", "2020-05-10")
	e.ID = testEmployeeID
	e.CompanyID = testCompanyID
	return e
}

func TestCalculateMonthly_WithoutSave(t *testing.T) {
	f := newFixture(t)
	ctx := companyCtx(t)

	hours := decimal.NewFromInt(10)
	overtime := rubric("100", payroll.RuleOvertime50)
	overtime.ID = testRubricID

	f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(storedEmployee(), nil)
	f.payroll.On("GetRubricsByIDs", mock.Anything, []string{testRubricID}, testCompanyID).Return([]payroll.Rubric{overtime}, nil)

	resp, err := f.svc.CalculateMonthly(ctx, payroll.MonthlyPayrollRequest{
		EmployeeID:  testEmployeeID,
		PeriodMonth: 6,
		PeriodYear:  2024,
		Entries:     []payroll.PeriodEntryRequest{{RubricID: testRubricID, Reference: &hours}},
	})
	require.NoError(t, err)

	assert.Nil(t, resp.PayslipID)
	assert.Equal(t, testEmployeeID, resp.EmployeeID)
	assert.Equal(t, 2024, resp.Result.TaxYear)
	ev, ok := findEvent(resp.Result.Events, "100")
	require.True(t, ok)
	assertMoney(t, "204.55", ev.Earning)
	assertMoney(t, "3204.55", resp.Result.INSSBase)
	assertBalanced(t, resp.Result)

	f.payroll.AssertNotCalled(t, "CreatePayslip", mock.Anything, mock.Anything)
	require.Len(t, f.recorder.observed, 1)
	assert.Equal(t, recordedObservation{kind: "monthly"}, f.recorder.observed[0])
}

func TestCalculateMonthly_SavesSnapshot(t *testing.T) {
	f := newFixture(t)
	ctx := companyCtx(t)

	f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(storedEmployee(), nil)
	f.payroll.On("CreatePayslip", mock.Anything, mock.MatchedBy(func(p payroll.Payslip) bool {
		return p.CompanyID == testCompanyID &&
			p.EmployeeID == testEmployeeID &&
			p.Kind == payroll.CalculationMonthly &&
			p.ReferenceMonth == 3 && p.ReferenceYear == 2025 && p.TaxYear == 2025 &&
			len(p.ID) == 36
	})).Return(func(_ context.Context, p payroll.Payslip) payroll.Payslip { return p }, nil)

	resp, err := f.svc.CalculateMonthly(ctx, payroll.MonthlyPayrollRequest{
		EmployeeID:  testEmployeeID,
		PeriodMonth: 3,
		PeriodYear:  2025,
		Save:        true,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.PayslipID)
	assert.Len(t, *resp.PayslipID, 36)
	assert.True(t, f.recorder.observed[0].saved)
}

func TestCalculateMonthly_Errors(t *testing.T) {
	t.Run("invalid request", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.CalculateMonthly(companyCtx(t), payroll.MonthlyPayrollRequest{EmployeeID: "nope", PeriodMonth: 1, PeriodYear: 2024})
		var verrs validator.ValidationErrors
		assert.ErrorAs(t, err, &verrs)
	})

	t.Run("missing company claim", func(t *testing.T) {
		f := newFixture(t)
		ctx := ctxWithClaims(t, map[string]interface{}{"user_id": "user-1", "type": "access"})
		_, err := f.svc.CalculateMonthly(ctx, payroll.MonthlyPayrollRequest{EmployeeID: testEmployeeID, PeriodMonth: 1, PeriodYear: 2024})
		assert.ErrorIs(t, err, auth.ErrCompanyClaimMissing)
		require.Len(t, f.recorder.observed, 1)
		assert.Error(t, f.recorder.observed[0].err)
	})

	t.Run("tax year not configured", func(t *testing.T) {
		f := newFixture(t)
		f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(storedEmployee(), nil)
		_, err := f.svc.CalculateMonthly(companyCtx(t), payroll.MonthlyPayrollRequest{EmployeeID: testEmployeeID, PeriodMonth: 1, PeriodYear: 2020})
		assert.ErrorIs(t, err, payroll.ErrTaxYearNotSupported)
	})

	t.Run("employee not found", func(t *testing.T) {
		f := newFixture(t)
		f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(employee.Employee{}, employee.ErrEmployeeNotFound)
		_, err := f.svc.CalculateMonthly(companyCtx(t), payroll.MonthlyPayrollRequest{EmployeeID: testEmployeeID, PeriodMonth: 1, PeriodYear: 2024})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	})

	t.Run("rubric of another company", func(t *testing.T) {
		f := newFixture(t)
		amount := decimal.NewFromInt(10)
		f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(storedEmployee(), nil)
		f.payroll.On("GetRubricsByIDs", mock.Anything, []string{testRubricID}, testCompanyID).Return([]payroll.Rubric{}, nil)
		_, err := f.svc.CalculateMonthly(companyCtx(t), payroll.MonthlyPayrollRequest{
			EmployeeID:  testEmployeeID,
			PeriodMonth: 1,
			PeriodYear:  2024,
			Entries:     []payroll.PeriodEntryRequest{{RubricID: testRubricID, Amount: &amount}},
		})
		assert.ErrorIs(t, err, payroll.ErrRubricNotFound)
	})

	t.Run("inactive rubric", func(t *testing.T) {
		f := newFixture(t)
		amount := decimal.NewFromInt(10)
		r := rubric("200", payroll.RuleGeneric)
		r.ID = testRubricID
		r.IsActive = false
		f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(storedEmployee(), nil)
		f.payroll.On("GetRubricsByIDs", mock.Anything, []string{testRubricID}, testCompanyID).Return([]payroll.Rubric{r}, nil)
		_, err := f.svc.CalculateMonthly(companyCtx(t), payroll.MonthlyPayrollRequest{
			EmployeeID:  testEmployeeID,
			PeriodMonth: 1,
			PeriodYear:  2024,
			Entries:     []payroll.PeriodEntryRequest{{RubricID: testRubricID, Amount: &amount}},
		})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Contains(t, verrs.ToMap(), "entries[0].rubric_id")
	})
}

func TestCalculateThirteenth(t *testing.T) {
	f := newFixture(t)
	f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(storedEmployee(), nil)
	f.payroll.On("CreatePayslip", mock.Anything, mock.MatchedBy(func(p payroll.Payslip) bool {
		return p.Kind == payroll.CalculationThirteenth && p.ReferenceMonth == 12 && p.ReferenceYear == 2024
	})).Return(func(_ context.Context, p payroll.Payslip) payroll.Payslip { return p }, nil)

	resp, err := f.svc.CalculateThirteenth(companyCtx(t), payroll.ThirteenthRequest{
		EmployeeID: testEmployeeID,
		Year:       2024,
		Mode:       "second",
		Save:       true,
	})
	require.NoError(t, err)
	assertMoney(t, "3000.00", resp.Result.TotalEarnings)
	assertMoney(t, "1205.03", resp.Result.NetPay)
}

func TestCalculateThirteenth_PartnerRejected(t *testing.T) {
	f := newFixture(t)
	partner := storedEmployee()
	partner.PayeeKind = employee.PayeePartner
	f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(partner, nil)

	_, err := f.svc.CalculateThirteenth(companyCtx(t), payroll.ThirteenthRequest{EmployeeID: testEmployeeID, Year: 2024, Mode: "unique"})
	assert.ErrorIs(t, err, payroll.ErrPartnerNotEntitled)
}

func TestCalculateVacation(t *testing.T) {
	f := newFixture(t)
	f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(storedEmployee(), nil)

	resp, err := f.svc.CalculateVacation(companyCtx(t), payroll.VacationRequest{
		EmployeeID: testEmployeeID,
		StartDate:  "2024-07-01",
		Days:       30,
	})
	require.NoError(t, err)
	require.NotNil(t, resp.Vacation)
	assert.Equal(t, date("2024-06-29"), resp.Vacation.PaymentDueDate)
	assertMoney(t, "378.82", resp.Result.INSS)
}

func TestCalculateTermination(t *testing.T) {
	f := newFixture(t)
	emp := storedEmployee()
	emp.AdmissionDate = date("2023-03-01")
	f.employees.On("GetByID", mock.Anything, testEmployeeID, testCompanyID).Return(emp, nil)

	balance := decimal.NewFromInt(10000)
	resp, err := f.svc.CalculateTermination(companyCtx(t), payroll.TerminationRequest{
		EmployeeID:      testEmployeeID,
		TerminationDate: "2024-06-15",
		Reason:          "dispensa_sem_justa_causa",
		NoticeType:      "indenizado",
		FGTSBalance:     &balance,
	})
	require.NoError(t, err)
	assertMoney(t, "10844.68", resp.Result.NetPay)
	assert.Equal(t, payroll.CalculationTermination, resp.Result.Kind)
}

func TestSeedDefaultRubrics(t *testing.T) {
	f := newFixture(t)
	ctx := companyCtx(t)

	f.payroll.On("ListRubrics", mock.Anything, testCompanyID, false).Return([]payroll.Rubric{
		rubric("101", payroll.RuleOvertime50),
		rubric("201", payroll.RuleGeneric),
	}, nil).Once()
	f.payroll.On("CreateRubric", mock.Anything, mock.MatchedBy(func(r payroll.Rubric) bool {
		return r.CompanyID == testCompanyID && r.Code != "101" && r.Code != "201" && r.IsActive && len(r.ID) == 36
	})).Return(func(_ context.Context, r payroll.Rubric) payroll.Rubric { return r }, nil).
		Times(len(fixtures.DefaultRubrics()) - 2)

	resp, err := f.svc.SeedDefaultRubrics(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"101", "201"}, resp.Skipped)
	assert.Len(t, resp.Created, len(fixtures.DefaultRubrics())-2)
	assert.Equal(t, "102", resp.Created[0].Code)
}

func TestSeedDefaultRubrics_StopsOnConflict(t *testing.T) {
	f := newFixture(t)

	f.payroll.On("ListRubrics", mock.Anything, testCompanyID, false).Return([]payroll.Rubric{}, nil).Once()
	f.payroll.On("CreateRubric", mock.Anything, mock.Anything).Return(payroll.Rubric{}, payroll.ErrRubricCodeExists).Once()

	_, err := f.svc.SeedDefaultRubrics(companyCtx(t))
	assert.ErrorIs(t, err, payroll.ErrRubricCodeExists)
}

func TestRubricCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := companyCtx(t)

	f.payroll.On("CreateRubric", mock.Anything, mock.MatchedBy(func(r payroll.Rubric) bool {
		return r.CompanyID == testCompanyID && r.Code == "120" && r.Rule == payroll.RuleUnhealthyConditions &&
			r.UnhealthyTier != nil && *r.UnhealthyTier == payroll.UnhealthyTierMaximum && r.IsActive
	})).Return(func(_ context.Context, r payroll.Rubric) payroll.Rubric { return r }, nil)

	tier := "maximum"
	created, err := f.svc.CreateRubric(ctx, payroll.CreateRubricRequest{
		Code:             "120",
		Description:      "Insalubridade grau máximo",
		Kind:             "earning",
		CountsTowardINSS: true,
		CountsTowardFGTS: true,
		CountsTowardIRRF: true,
		Rule:             "unhealthy_conditions",
		UnhealthyTier:    &tier,
	})
	require.NoError(t, err)
	assert.Equal(t, "unhealthy_conditions", created.Rule)
	require.NotNil(t, created.UnhealthyTier)
	assert.Equal(t, "maximum", *created.UnhealthyTier)

	desc := "Insalubridade"
	update := payroll.UpdateRubricRequest{ID: testRubricID, Description: &desc}
	stored := rubric("120", payroll.RuleGeneric)
	stored.ID = testRubricID
	stored.Description = desc
	f.payroll.On("UpdateRubric", mock.Anything, testCompanyID, update).Return(nil)
	f.payroll.On("GetRubricByID", mock.Anything, testRubricID, testCompanyID).Return(stored, nil)

	updated, err := f.svc.UpdateRubric(ctx, update)
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Description)

	f.payroll.On("DeleteRubric", mock.Anything, testRubricID, testCompanyID).Return(payroll.ErrRubricNotFound)
	assert.ErrorIs(t, f.svc.DeleteRubric(ctx, testRubricID), payroll.ErrRubricNotFound)
}

func TestPathIDsMustBeUUIDs(t *testing.T) {
	f := newFixture(t)
	ctx := companyCtx(t)
	var verrs validator.ValidationErrors

	_, err := f.svc.GetRubric(ctx, "abc")
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "id", verrs[0].Field)

	err = f.svc.DeleteRubric(ctx, "abc")
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.GetPayslip(ctx, "abc")
	assert.ErrorAs(t, err, &verrs)

	_, err = f.svc.UpdateRubric(ctx, payroll.UpdateRubricRequest{ID: "abc"})
	assert.ErrorAs(t, err, &verrs)

	f.payroll.AssertNotCalled(t, "GetRubricByID", mock.Anything, mock.Anything, mock.Anything)
	f.payroll.AssertNotCalled(t, "GetPayslipByID", mock.Anything, mock.Anything, mock.Anything)
}

func TestListPayslips(t *testing.T) {
	f := newFixture(t)
	ctx := companyCtx(t)

	stored := payroll.Payslip{
		ID:             testRubricID,
		CompanyID:      testCompanyID,
		EmployeeID:     testEmployeeID,
		Kind:           payroll.CalculationMonthly,
		ReferenceMonth: 5,
		ReferenceYear:  2024,
		TaxYear:        2024,
		Result:         payroll.CalculationResult{Kind: payroll.CalculationMonthly, TaxYear: 2024, NetPay: decimal.NewFromInt(2705)},
	}
	f.payroll.On("ListPayslips", mock.Anything, testCompanyID, payroll.PayslipFilter{Page: 1, Limit: 20}).Return([]payroll.Payslip{stored}, int64(1), nil)

	resp, err := f.svc.ListPayslips(ctx, payroll.PayslipFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.TotalCount)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "monthly", resp.Data[0].Kind)
	assert.Equal(t, 1, resp.Page)
}

func TestGetTaxTable(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.GetTaxTable(context.Background(), 2026)
	require.NoError(t, err)
	assert.Equal(t, 2026, resp.RequestedYear)
	assert.Equal(t, 2025, resp.Table.EffectiveYear)

	_, err = f.svc.GetTaxTable(context.Background(), 1999)
	assert.ErrorIs(t, err, payroll.ErrTaxYearNotSupported)
}
