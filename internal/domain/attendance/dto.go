package attendance

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/validator"
)

// ========================================
// SCAN DTOs
// ========================================

type ScanRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *ScanRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// IMPORT DTOs
// ========================================

type ImportRow struct {
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	Date       string  `json:"date"`               // YYYY-MM-DD
	InTime     *string `json:"in_time,omitempty"`  // HH:MM
	OutTime    *string `json:"out_time,omitempty"` // HH:MM
	IsHoliday  bool    `json:"is_holiday"`
	Status     string  `json:"status,omitempty"` // Present, Leave; derived from in_time when empty
}

type ImportRequest struct {
	Rows []ImportRow `json:"rows"`
}

func (r *ImportRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Rows) == 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "rows",
			Message: "at least one row is required",
		})
	}

	for i := range r.Rows {
		row := &r.Rows[i]
		prefix := fmt.Sprintf("rows[%d].", i)

		row.EmployeeID = strings.TrimSpace(row.EmployeeID)
		if validator.IsEmpty(row.EmployeeID) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "employee_id",
				Message: "employee_id is required",
			})
		}

		if _, valid := validator.IsValidDate(row.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}

		row.InTime = blankToNil(row.InTime)
		if row.InTime != nil && !validator.IsValidClockTime(*row.InTime) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "in_time",
				Message: "in_time must be in HH:MM format",
			})
		}

		row.OutTime = blankToNil(row.OutTime)
		if row.OutTime != nil && !validator.IsValidClockTime(*row.OutTime) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "out_time",
				Message: "out_time must be in HH:MM format",
			})
		}

		if !validator.IsEmpty(row.Status) {
			if _, ok := ParseStatus(row.Status); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   prefix + "status",
					Message: "status must be one of: Present, Leave",
				})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ImportResponse struct {
	Imported    int                  `json:"imported"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// ========================================
// EDIT DTOs
// ========================================

// UpdateAttendanceRequest lists every field an edit may touch. An empty
// in_time/out_time string clears the value.
type UpdateAttendanceRequest struct {
	ID        string  `json:"-"`
	Date      *string `json:"date,omitempty"`
	InTime    *string `json:"in_time,omitempty"`
	OutTime   *string `json:"out_time,omitempty"`
	IsHoliday *bool   `json:"is_holiday,omitempty"`
	Status    *string `json:"status,omitempty"`
}

func (r *UpdateAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Date != nil {
		if _, valid := validator.IsValidDate(*r.Date); !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if r.InTime != nil && *r.InTime != "" && !validator.IsValidClockTime(*r.InTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "in_time",
			Message: "in_time must be in HH:MM format",
		})
	}

	if r.OutTime != nil && *r.OutTime != "" && !validator.IsValidClockTime(*r.OutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "out_time",
			Message: "out_time must be in HH:MM format",
		})
	}

	if r.Status != nil {
		if _, ok := ParseStatus(*r.Status); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: Present, Leave",
			})
		}
	}

	if r.Date == nil && r.InTime == nil && r.OutTime == nil && r.IsHoliday == nil && r.Status == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one field must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ========================================
// QUERY DTOs
// ========================================

type AttendanceResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	Date       string  `json:"date"`
	InTime     *string `json:"in_time"`
	OutTime    *string `json:"out_time"`
	Status     string  `json:"status"`
	OTHours    float64 `json:"ot_hours"`
	Method     string  `json:"method"`
	IsHoliday  bool    `json:"is_holiday"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

type AttendanceFilter struct {
	// Search & Filter
	EmployeeID *string `json:"employee_id,omitempty"`
	Date       *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status     *string `json:"status,omitempty"`
	Method     *string `json:"method,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_id, full_name, in_time, ot_hours
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		if _, ok := ParseStatus(*f.Status); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: Present, Leave",
			})
		}
	}

	if f.Method != nil && !Method(*f.Method).IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "method",
			Message: "method must be one of: Scan, Manual",
		})
	}

	for field, value := range map[string]*string{"date": f.Date, "start_date": f.StartDate, "end_date": f.EndDate} {
		if value != nil && *value != "" {
			if _, valid := validator.IsValidDate(*value); !valid {
				errs = append(errs, validator.ValidationError{
					Field:   field,
					Message: field + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	// Sort validation
	if f.SortBy != "" {
		validSortFields := []string{"date", "employee_id", "full_name", "in_time", "ot_hours"}
		if !validator.IsInSlice(f.SortBy, validSortFields) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_by",
				Message: "sort_by must be one of: date, employee_id, full_name, in_time, ot_hours",
			})
		}
	} else {
		f.SortBy = "date" // Default sort
	}

	if f.SortOrder != "" {
		validSortOrders := []string{"asc", "desc"}
		if !validator.IsInSlice(strings.ToLower(f.SortOrder), validSortOrders) {
			errs = append(errs, validator.ValidationError{
				Field:   "sort_order",
				Message: "sort_order must be one of: asc, desc",
			})
		}
	} else {
		f.SortOrder = "desc" // Default descending (newest first)
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Showing     string               `json:"showing"`
	Attendances []AttendanceResponse `json:"attendances"`
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
