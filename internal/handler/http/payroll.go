package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/escopo/escopo-backend-go/internal/domain/payroll"
	"github.com/escopo/escopo-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Rubrics
	CreateRubric(w http.ResponseWriter, r *http.Request)
	GetRubric(w http.ResponseWriter, r *http.Request)
	ListRubrics(w http.ResponseWriter, r *http.Request)
	UpdateRubric(w http.ResponseWriter, r *http.Request)
	DeleteRubric(w http.ResponseWriter, r *http.Request)
	SeedDefaultRubrics(w http.ResponseWriter, r *http.Request)

	// Calculations
	CalculateMonthly(w http.ResponseWriter, r *http.Request)
	CalculateThirteenth(w http.ResponseWriter, r *http.Request)
	CalculateVacation(w http.ResponseWriter, r *http.Request)
	CalculateTermination(w http.ResponseWriter, r *http.Request)

	// Payslips
	GetPayslip(w http.ResponseWriter, r *http.Request)
	ListPayslips(w http.ResponseWriter, r *http.Request)

	// Configuration
	GetTaxTable(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== RUBRICS ==========

func (h *payrollHandlerImpl) CreateRubric(w http.ResponseWriter, r *http.Request) {
	var req payroll.CreateRubricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CreateRubric(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Rubric created", result)
}

func (h *payrollHandlerImpl) GetRubric(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rubric ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRubric(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListRubrics(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active_only") == "true"

	result, err := h.payrollService.ListRubrics(r.Context(), activeOnly)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateRubric(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rubric ID is required", nil)
		return
	}

	var req payroll.UpdateRubricRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	req.ID = id

	result, err := h.payrollService.UpdateRubric(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) DeleteRubric(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Rubric ID is required", nil)
		return
	}

	if err := h.payrollService.DeleteRubric(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}

	response.NoContent(w)
}

func (h *payrollHandlerImpl) SeedDefaultRubrics(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.SeedDefaultRubrics(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Default rubrics seeded", result)
}

// ========== CALCULATIONS ==========

func (h *payrollHandlerImpl) CalculateMonthly(w http.ResponseWriter, r *http.Request) {
	var req payroll.MonthlyPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CalculateMonthly(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeCalculation(w, result)
}

func (h *payrollHandlerImpl) CalculateThirteenth(w http.ResponseWriter, r *http.Request) {
	var req payroll.ThirteenthRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CalculateThirteenth(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeCalculation(w, result)
}

func (h *payrollHandlerImpl) CalculateVacation(w http.ResponseWriter, r *http.Request) {
	var req payroll.VacationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CalculateVacation(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeCalculation(w, result)
}

func (h *payrollHandlerImpl) CalculateTermination(w http.ResponseWriter, r *http.Request) {
	var req payroll.TerminationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CalculateTermination(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	writeCalculation(w, result)
}

// writeCalculation answers 201 when a payslip was stored, 200 otherwise.
func writeCalculation(w http.ResponseWriter, result payroll.CalculationResponse) {
	if result.PayslipID != nil {
		response.Created(w, "Payslip saved", result)
		return
	}
	response.Success(w, result)
}

// ========== PAYSLIPS ==========

func (h *payrollHandlerImpl) GetPayslip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Payslip ID is required", nil)
		return
	}

	result, err := h.payrollService.GetPayslip(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) ListPayslips(w http.ResponseWriter, r *http.Request) {
	filter := payroll.PayslipFilter{
		Page:  1,
		Limit: 20,
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		if month, err := strconv.Atoi(monthStr); err == nil {
			filter.Month = &month
		}
	}
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		if year, err := strconv.Atoi(yearStr); err == nil {
			filter.Year = &year
		}
	}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter.Kind = &kind
	}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}

	result, err := h.payrollService.ListPayslips(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Data, response.NewMeta(result.Page, result.Limit, result.TotalCount))
}

// ========== CONFIGURATION ==========

func (h *payrollHandlerImpl) GetTaxTable(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		response.BadRequest(w, "Year must be a number", nil)
		return
	}

	result, err := h.payrollService.GetTaxTable(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
