package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type AttendanceHandler interface {
	Resolve(w http.ResponseWriter, r *http.Request)
	ResolveBatch(w http.ResponseWriter, r *http.Request)
	ExportBatch(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Resolve implements AttendanceHandler.
func (h *attendanceHandlerImpl) Resolve(w http.ResponseWriter, r *http.Request) {
	var req attendance.ResolveAttendanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.Resolve(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ResolveBatch implements AttendanceHandler.
func (h *attendanceHandlerImpl) ResolveBatch(w http.ResponseWriter, r *http.Request) {
	var req attendance.ResolveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.ResolveBatch(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// ExportBatch implements AttendanceHandler.
func (h *attendanceHandlerImpl) ExportBatch(w http.ResponseWriter, r *http.Request) {
	var req attendance.ResolveBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	data, err := h.attendanceService.ExportBatch(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("attendance-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	response.File(w, xlsxContentType, filename, data)
}

// GetSettings implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.GetSettings(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateSettings implements AttendanceHandler.
func (h *attendanceHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req attendance.UpdateAttendanceSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}

	result, err := h.attendanceService.UpdateSettings(r.Context(), chi.URLParam(r, "companyID"), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance settings updated", result)
}
