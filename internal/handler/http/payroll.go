package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type PayrollHandler interface {
	// Period
	ResolvePeriod(w http.ResponseWriter, r *http.Request)

	// Cycle configs
	GetCycleConfig(w http.ResponseWriter, r *http.Request)
	UpdateCycleConfig(w http.ResponseWriter, r *http.Request)

	// Settings
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)

	// Tax brackets
	GetTaxBrackets(w http.ResponseWriter, r *http.Request)
	UpdateTaxBrackets(w http.ResponseWriter, r *http.Request)

	// Salary
	CalculateSalary(w http.ResponseWriter, r *http.Request)
	GeneratePayslip(w http.ResponseWriter, r *http.Request)

	// Runs
	RunPayroll(w http.ResponseWriter, r *http.Request)
	GetRun(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	payrollService payroll.PayrollService
}

func NewPayrollHandler(payrollService payroll.PayrollService) PayrollHandler {
	return &payrollHandlerImpl{payrollService: payrollService}
}

// ========== PERIOD ==========

func (h *payrollHandlerImpl) ResolvePeriod(w http.ResponseWriter, r *http.Request) {
	var req payroll.ResolvePeriodRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.ResolvePeriod(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ========== CYCLE ==========

// GetCycleConfig serves both the company default and, when the route carries
// an employeeID, the employee override.
func (h *payrollHandlerImpl) GetCycleConfig(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetCycleConfig(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "employeeID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateCycleConfig(w http.ResponseWriter, r *http.Request) {
	var req payroll.CycleConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateCycleConfig(r.Context(), chi.URLParam(r, "companyID"), chi.URLParam(r, "employeeID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll cycle updated", result)
}

// ========== SETTINGS ==========

func (h *payrollHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetSettings(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdatePayrollSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateSettings(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payroll settings updated", result)
}

// ========== TAX BRACKETS ==========

func (h *payrollHandlerImpl) GetTaxBrackets(w http.ResponseWriter, r *http.Request) {
	result, err := h.payrollService.GetTaxBrackets(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) UpdateTaxBrackets(w http.ResponseWriter, r *http.Request) {
	var req payroll.UpdateTaxBracketsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.UpdateTaxBrackets(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Tax brackets updated", result)
}

// ========== SALARY ==========

func (h *payrollHandlerImpl) CalculateSalary(w http.ResponseWriter, r *http.Request) {
	var req payroll.CalculateSalaryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.CalculateSalary(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

func (h *payrollHandlerImpl) GeneratePayslip(w http.ResponseWriter, r *http.Request) {
	var req payroll.PayslipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	data, err := h.payrollService.GeneratePayslip(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	name := req.EmployeeID
	if name == "" {
		name = "employee"
	}
	response.File(w, "application/pdf", fmt.Sprintf("payslip-%s.pdf", name), data)
}

// ========== RUNS ==========

func (h *payrollHandlerImpl) RunPayroll(w http.ResponseWriter, r *http.Request) {
	var req payroll.RunPayrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.payrollService.RunPayroll(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Payroll run completed", result)
}

func (h *payrollHandlerImpl) GetRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	if runID == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	result, err := h.payrollService.GetRun(r.Context(), chi.URLParam(r, "companyID"), runID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
