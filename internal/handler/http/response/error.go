package response

import (
	"errors"
	"net/http"

	"github.com/zenithhr/payroll-backend-go/internal/domain/attendance"
	"github.com/zenithhr/payroll-backend-go/internal/domain/emolument"
	"github.com/zenithhr/payroll-backend-go/internal/domain/payroll"
	"github.com/zenithhr/payroll-backend-go/internal/domain/settings"
	"github.com/zenithhr/payroll-backend-go/internal/domain/staff"
	"github.com/zenithhr/payroll-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Payroll domain errors
	case errors.Is(err, payroll.ErrRunNotFound):
		NotFound(w, "Payroll run not found")
	case errors.Is(err, payroll.ErrDuplicatePeriod):
		Conflict(w, "A payroll run already exists for this client and period")
	case errors.Is(err, payroll.ErrInvalidStateTransition):
		Conflict(w, err.Error())
	case errors.Is(err, payroll.ErrItemNotFound):
		NotFound(w, "Payroll item not found")
	case errors.Is(err, payroll.ErrNoStaffForRun):
		BadRequest(w, "No active staff found for this client", nil)
	case errors.Is(err, payroll.ErrCalculationInvalid):
		InternalServerError(w, "Payroll calculation failed internal validation")

	// Settings domain errors
	case errors.Is(err, settings.ErrSettingNotFound):
		NotFound(w, "Payroll setting not found")
	case errors.Is(err, settings.ErrSettingMalformed):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, settings.ErrSettingReadOnly):
		Forbidden(w, "This setting cannot be modified")
	case errors.Is(err, settings.ErrNoBracketsActive):
		BadRequest(w, "No tax brackets are active for the requested period", nil)

	// Staff and input errors
	case errors.Is(err, staff.ErrStaffNotFound):
		NotFound(w, "Staff member not found")
	case errors.Is(err, emolument.ErrUnknownComponent):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, emolument.ErrComponentCodeExists):
		Conflict(w, "Component code already exists")
	case errors.Is(err, emolument.ErrPayGradeNotFound):
		BadRequest(w, "Staff member has no active pay grade", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		BadRequest(w, "No attendance record for the requested period", nil)
	case errors.Is(err, attendance.ErrInvalidPeriod):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
