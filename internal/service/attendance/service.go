package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/validator"
)

// DefaultMaxImportRows bounds a single import when no limit is configured.
const DefaultMaxImportRows = 5000

type Options struct {
	// ValidateImportEmployees rejects imports that reference unknown employees.
	ValidateImportEmployees bool
	MaxImportRows           int
}

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	directory employee.Directory
	evaluator *Evaluator
	opts      Options
}

// Scan implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Scan(ctx context.Context, req attendance.ScanRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	ref, err := a.directory.FindByEmployeeID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrInvalidQRCode
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to resolve employee: %w", err)
	}

	record := a.evaluator.EvaluateScan(ref)

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("Attendance scanned", "employee_id", created.EmployeeID, "status", created.Status)
	return mapAttendanceToResponse(created), nil
}

// Import implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) Import(ctx context.Context, req attendance.ImportRequest) (attendance.ImportResponse, error) {
	if len(req.Rows) == 0 {
		return attendance.ImportResponse{}, attendance.ErrEmptyImport
	}
	if len(req.Rows) > a.opts.MaxImportRows {
		return attendance.ImportResponse{}, fmt.Errorf("%w: %d rows, limit %d", attendance.ErrImportTooLarge, len(req.Rows), a.opts.MaxImportRows)
	}
	if err := req.Validate(); err != nil {
		return attendance.ImportResponse{}, err
	}

	if a.opts.ValidateImportEmployees {
		if err := a.resolveImportEmployees(ctx, req.Rows); err != nil {
			return attendance.ImportResponse{}, err
		}
	}

	records, err := a.evaluator.EvaluateRows(ctx, req.Rows)
	if err != nil {
		return attendance.ImportResponse{}, err
	}

	now := time.Now().UTC()
	for i := range records {
		records[i].CreatedAt = now
		records[i].UpdatedAt = now
	}

	result, err := a.AttendanceRepository.CreateBatch(ctx, records)
	if err != nil {
		return attendance.ImportResponse{}, fmt.Errorf("failed to store import: %w", err)
	}
	if result.Inserted != len(records) || len(result.IDs) != len(records) {
		slog.Error("Attendance import partially stored", "expected", len(records), "inserted", result.Inserted)
		return attendance.ImportResponse{}, fmt.Errorf("%w: stored %d of %d rows", attendance.ErrPartialImport, result.Inserted, len(records))
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for i, record := range records {
		record.ID = result.IDs[i]
		responses = append(responses, mapAttendanceToResponse(record))
	}

	slog.Info("Attendance imported", "rows", len(records))
	return attendance.ImportResponse{
		Imported:    len(records),
		Attendances: responses,
	}, nil
}

// resolveImportEmployees checks every referenced employee and fills blank
// names from the directory.
func (a *AttendanceServiceImpl) resolveImportEmployees(ctx context.Context, rows []attendance.ImportRow) error {
	var errs validator.ValidationErrors
	known := make(map[string]employee.EmployeeRef)

	for i := range rows {
		ref, ok := known[rows[i].EmployeeID]
		if !ok {
			var err error
			ref, err = a.directory.FindByEmployeeID(ctx, rows[i].EmployeeID)
			if err != nil {
				if !errors.Is(err, employee.ErrEmployeeNotFound) {
					return fmt.Errorf("failed to resolve employee: %w", err)
				}
				errs = append(errs, validator.ValidationError{
					Field:   fmt.Sprintf("rows[%d].employee_id", i),
					Message: fmt.Sprintf("employee %q does not exist", rows[i].EmployeeID),
				})
				continue
			}
			known[rows[i].EmployeeID] = ref
		}
		if rows[i].FullName == "" {
			rows[i].FullName = ref.FullName
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateAttendance(ctx context.Context, req attendance.UpdateAttendanceRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	current, err := a.AttendanceRepository.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	fields, err := a.evaluator.ApplyEdit(current, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := a.AttendanceRepository.Update(ctx, req.ID, fields)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return mapAttendanceToResponse(updated), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	att, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return mapAttendanceToResponse(att), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	attendances, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	// Map to response
	responses := make([]attendance.AttendanceResponse, 0, len(attendances))
	for _, att := range attendances {
		responses = append(responses, mapAttendanceToResponse(att))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := fmt.Sprintf("%d-%d of %d", (filter.Page-1)*filter.Limit+1, min(filter.Page*filter.Limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        filter.Page,
		Limit:       filter.Limit,
		TotalPages:  totalPages,
		Showing:     showing,
		Attendances: responses,
	}, nil
}

// DeleteAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) DeleteAttendance(ctx context.Context, id string) error {
	if err := a.AttendanceRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.ErrAttendanceNotFound
		}
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	return nil
}

// mapAttendanceToResponse converts an Attendance entity to AttendanceResponse
func mapAttendanceToResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:         att.ID,
		EmployeeID: att.EmployeeID,
		FullName:   att.FullName,
		Date:       att.Date,
		InTime:     att.InTime,
		OutTime:    att.OutTime,
		Status:     att.Status.Label(),
		OTHours:    att.OTHours.InexactFloat64(),
		Method:     string(att.Method),
		IsHoliday:  att.IsHoliday,
		CreatedAt:  att.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt:  att.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	directory employee.Directory,
	evaluator *Evaluator,
	opts Options,
) attendance.AttendanceService {
	if opts.MaxImportRows <= 0 {
		opts.MaxImportRows = DefaultMaxImportRows
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		directory:            directory,
		evaluator:            evaluator,
		opts:                 opts,
	}
}
