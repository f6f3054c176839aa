package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidQRCode      = errors.New("invalid QR code: no employee with this id")

	// Validation errors raised by the rules themselves
	ErrInvalidDate      = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidClockTime = errors.New("time must be in HH:MM 24-hour format")

	// Import errors
	ErrEmptyImport    = errors.New("import contains no rows")
	ErrImportTooLarge = errors.New("import exceeds the maximum number of rows")
	ErrPartialImport  = errors.New("import was only partially stored")
)
