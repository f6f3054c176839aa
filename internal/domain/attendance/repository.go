package attendance

import (
	"context"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create stores a single record and returns it with ID and timestamps set
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// CreateBatch stores records atomically. Inserted reports how many rows
	// the store accepted; callers treat Inserted < len(records) as partial.
	CreateBatch(ctx context.Context, attendances []Attendance) (BatchResult, error)

	// GetByID retrieves a record, ErrAttendanceNotFound when missing
	GetByID(ctx context.Context, id string) (Attendance, error)

	// Update overwrites the editable columns, ErrAttendanceNotFound when missing
	Update(ctx context.Context, id string, fields UpdateFields) (Attendance, error)

	// List retrieves records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// Delete removes a record, ErrAttendanceNotFound when missing
	Delete(ctx context.Context, id string) error
}
