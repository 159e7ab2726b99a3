package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/calculation"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-engine/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Calculator configuration errors
	var cfgErr *calculation.ConfigurationError
	if errors.As(err, &cfgErr) {
		InvalidConfiguration(w, cfgErr.Error(), map[string]string{cfgErr.Field: cfgErr.Reason})
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrEmptyBatch):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrBatchTooLarge):
		UnprocessableEntity(w, err.Error())

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrPayrollSettingsNotFound):
		NotFound(w, "Payroll settings not found")
	case errors.Is(err, payroll.ErrCycleConfigNotFound):
		NotFound(w, "Payroll cycle config not found")
	case errors.Is(err, payroll.ErrTaxBracketsNotFound):
		NotFound(w, "Tax brackets not found")

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
