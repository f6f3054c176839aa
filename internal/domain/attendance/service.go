package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// Scan records a check-in for the employee encoded in a QR credential
	Scan(ctx context.Context, req ScanRequest) (AttendanceResponse, error)

	// Import stores a batch of manual in/out rows, all or nothing
	Import(ctx context.Context, req ImportRequest) (ImportResponse, error)

	// UpdateAttendance edits a record and recomputes its overtime
	UpdateAttendance(ctx context.Context, req UpdateAttendanceRequest) (AttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters
	ListAttendance(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// DeleteAttendance removes an attendance record
	DeleteAttendance(ctx context.Context, id string) error
}
