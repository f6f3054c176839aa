package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/spreadsheet"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/qr-attendance-go/internal/service/file"
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
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidQRCode):
		NotFound(w, "Invalid QR Code")
	case errors.Is(err, attendance.ErrInvalidDate):
		ValidationError(w, map[string]string{"date": err.Error()})
	case errors.Is(err, attendance.ErrInvalidClockTime):
		ValidationError(w, map[string]string{"time": err.Error()})
	case errors.Is(err, attendance.ErrEmptyImport),
		errors.Is(err, attendance.ErrImportTooLarge):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrPartialImport):
		PartialImport(w, "Import was only partially stored")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeIDExists):
		Conflict(w, "Employee ID already exists")
	case errors.Is(err, employee.ErrQRCodeNotAvailable):
		NotFound(w, "QR code not available")

	// Upload errors
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat),
		errors.Is(err, spreadsheet.ErrEmptySheet),
		errors.Is(err, spreadsheet.ErrNoSheet),
		errors.Is(err, spreadsheet.ErrMultipleSheets),
		errors.Is(err, file.ErrInvalidImageType):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
