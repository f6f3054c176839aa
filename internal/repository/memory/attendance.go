// Package memory holds in-process repositories used for local runs and tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/google/uuid"
)

type attendanceRepositoryImpl struct {
	mu      sync.RWMutex
	records map[string]attendance.Attendance
}

func NewAttendanceRepository() attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{records: make(map[string]attendance.Attendance)}
}

func (r *attendanceRepositoryImpl) Create(_ context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.insertLocked(newAttendance)
}

// CreateBatch stores every record or none.
func (r *attendanceRepositoryImpl) CreateBatch(_ context.Context, attendances []attendance.Attendance) (attendance.BatchResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prepared := make([]attendance.Attendance, 0, len(attendances))
	for _, a := range attendances {
		stamped, err := stamp(a)
		if err != nil {
			return attendance.BatchResult{}, err
		}
		prepared = append(prepared, stamped)
	}

	result := attendance.BatchResult{IDs: make([]string, 0, len(prepared))}
	for _, a := range prepared {
		r.records[a.ID] = a
		result.IDs = append(result.IDs, a.ID)
		result.Inserted++
	}
	return result, nil
}

func (r *attendanceRepositoryImpl) insertLocked(a attendance.Attendance) (attendance.Attendance, error) {
	stamped, err := stamp(a)
	if err != nil {
		return attendance.Attendance{}, err
	}
	r.records[stamped.ID] = stamped
	return stamped, nil
}

func stamp(a attendance.Attendance) (attendance.Attendance, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to generate id: %w", err)
	}
	a.ID = id.String()
	now := time.Now().UTC()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) GetByID(_ context.Context, id string) (attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return a, nil
}

func (r *attendanceRepositoryImpl) Update(_ context.Context, id string, fields attendance.UpdateFields) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.records[id]
	if !ok {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	a.Date = fields.Date
	a.InTime = fields.InTime
	a.OutTime = fields.OutTime
	a.IsHoliday = fields.IsHoliday
	a.Status = fields.Status
	a.OTHours = fields.OTHours
	a.UpdatedAt = time.Now().UTC()

	r.records[id] = a
	return a, nil
}

func (r *attendanceRepositoryImpl) List(_ context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	r.mu.RLock()
	matched := make([]attendance.Attendance, 0, len(r.records))
	for _, a := range r.records {
		if matchesFilter(a, filter) {
			matched = append(matched, a)
		}
	}
	r.mu.RUnlock()

	desc := strings.EqualFold(filter.SortOrder, "desc")
	slices.SortStableFunc(matched, func(x, y attendance.Attendance) int {
		c := compareBy(filter.SortBy, x, y)
		if c == 0 {
			c = cmp.Compare(x.ID, y.ID)
		}
		if desc {
			return -c
		}
		return c
	})

	total := int64(len(matched))
	if filter.Limit <= 0 {
		return matched, total, nil
	}

	page := max(filter.Page, 1)
	start := min((page-1)*filter.Limit, len(matched))
	end := min(start+filter.Limit, len(matched))
	return matched[start:end], total, nil
}

func matchesFilter(a attendance.Attendance, f attendance.AttendanceFilter) bool {
	if f.EmployeeID != nil && *f.EmployeeID != "" && a.EmployeeID != *f.EmployeeID {
		return false
	}
	if f.Date != nil && *f.Date != "" && a.Date != *f.Date {
		return false
	}
	if f.StartDate != nil && *f.StartDate != "" && a.Date < *f.StartDate {
		return false
	}
	if f.EndDate != nil && *f.EndDate != "" && a.Date > *f.EndDate {
		return false
	}
	if f.Status != nil {
		if status, ok := attendance.ParseStatus(*f.Status); ok && a.Status != status {
			return false
		}
	}
	if f.Method != nil && *f.Method != "" && string(a.Method) != *f.Method {
		return false
	}
	return true
}

func compareBy(field string, x, y attendance.Attendance) int {
	switch field {
	case "employee_id":
		return cmp.Compare(x.EmployeeID, y.EmployeeID)
	case "full_name":
		return cmp.Compare(x.FullName, y.FullName)
	case "in_time":
		return cmp.Compare(deref(x.InTime), deref(y.InTime))
	case "ot_hours":
		return x.OTHours.Cmp(y.OTHours)
	default:
		if c := cmp.Compare(x.Date, y.Date); c != 0 {
			return c
		}
		return x.CreatedAt.Compare(y.CreatedAt)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *attendanceRepositoryImpl) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[id]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.records, id)
	return nil
}
