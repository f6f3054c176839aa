package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, employee_id, full_name, date, in_time, out_time,
	status, ot_hours, method, is_holiday, created_at, updated_at`

var attendanceCopyColumns = []string{
	"id", "employee_id", "full_name", "date", "in_time", "out_time",
	"status", "ot_hours", "method", "is_holiday", "created_at", "updated_at",
}

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att attendance.Attendance
		r   attendanceRow
	)
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.FullName, &r.date, &r.inTime, &r.outTime,
		&att.Status, &r.otHours, &att.Method, &att.IsHoliday, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if err := r.applyTo(&att); err != nil {
		return attendance.Attendance{}, err
	}
	return att, nil
}

// prepareInsert assigns an id and timestamps and converts typed columns.
func prepareInsert(a attendance.Attendance, now time.Time) (attendance.Attendance, []any, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Attendance{}, nil, fmt.Errorf("failed to generate id: %w", err)
	}
	a.ID = id.String()
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now
	}
	if a.UpdatedAt.IsZero() {
		a.UpdatedAt = a.CreatedAt
	}

	r, err := toPgRow(a)
	if err != nil {
		return attendance.Attendance{}, nil, err
	}

	return a, []any{
		id, a.EmployeeID, a.FullName, r.date, r.inTime, r.outTime,
		string(a.Status), r.otHours, string(a.Method), a.IsHoliday, a.CreatedAt, a.UpdatedAt,
	}, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	prepared, values, err := prepareInsert(newAttendance, time.Now().UTC())
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		INSERT INTO attendances (` + attendanceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	if _, err := q.Exec(ctx, query, values...); err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return prepared, nil
}

// CreateBatch implements attendance.AttendanceRepository. Rows are streamed
// with COPY inside one transaction; a short copy rolls everything back.
func (a *attendanceRepository) CreateBatch(ctx context.Context, attendances []attendance.Attendance) (attendance.BatchResult, error) {
	now := time.Now().UTC()
	rows := make([][]any, 0, len(attendances))
	ids := make([]string, 0, len(attendances))
	for _, att := range attendances {
		prepared, values, err := prepareInsert(att, now)
		if err != nil {
			return attendance.BatchResult{}, err
		}
		rows = append(rows, values)
		ids = append(ids, prepared.ID)
	}

	var copied int64
	err := WithTransaction(ctx, a.db, func(ctx context.Context, tx pgx.Tx) error {
		var err error
		copied, err = tx.CopyFrom(ctx, pgx.Identifier{"attendances"}, attendanceCopyColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return fmt.Errorf("failed to copy attendances: %w", err)
		}
		if copied != int64(len(rows)) {
			return fmt.Errorf("%w: copied %d of %d rows", attendance.ErrPartialImport, copied, len(rows))
		}
		return nil
	})
	if err != nil {
		return attendance.BatchResult{Inserted: int(copied)}, err
	}

	return attendance.BatchResult{Inserted: int(copied), IDs: ids}, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if _, err := uuid.Parse(id); err != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`
	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance: %w", err)
	}

	return att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, id string, fields attendance.UpdateFields) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	if _, err := uuid.Parse(id); err != nil {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}

	r, err := toPgRow(attendance.Attendance{
		Date:    fields.Date,
		InTime:  fields.InTime,
		OutTime: fields.OutTime,
		OTHours: fields.OTHours,
	})
	if err != nil {
		return attendance.Attendance{}, err
	}

	query := `
		UPDATE attendances SET
			date = $2,
			in_time = $3,
			out_time = $4,
			is_holiday = $5,
			status = $6,
			ot_hours = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query,
		id, r.date, r.inTime, r.outTime, fields.IsHoliday, string(fields.Status), r.otHours,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	// Build WHERE clause
	baseWhere := "TRUE"
	args := []any{}
	argIdx := 1

	addFilter := func(clause string, value any) {
		baseWhere += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, value)
		argIdx++
	}

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		addFilter("employee_id = $%d", *filter.EmployeeID)
	}
	if filter.Date != nil && *filter.Date != "" {
		addFilter("date = $%d::date", *filter.Date)
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		addFilter("date >= $%d::date", *filter.StartDate)
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		addFilter("date <= $%d::date", *filter.EndDate)
	}
	if filter.Status != nil {
		if status, ok := attendance.ParseStatus(*filter.Status); ok {
			addFilter("status = $%d", string(status))
		}
	}
	if filter.Method != nil && *filter.Method != "" {
		addFilter("method = $%d", *filter.Method)
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM attendances WHERE ` + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	// Build ORDER BY
	orderByField := "date"
	switch filter.SortBy {
	case "employee_id", "full_name", "in_time", "ot_hours":
		orderByField = filter.SortBy
	}
	sortOrder := "DESC"
	if strings.ToLower(filter.SortOrder) == "asc" {
		sortOrder = "ASC"
	}

	limit := filter.Limit
	if limit == 0 {
		limit = 20
	}
	offset := (max(filter.Page, 1) - 1) * limit
	args = append(args, limit, offset)

	selectQuery := fmt.Sprintf(`
		SELECT %s
		FROM attendances
		WHERE %s
		ORDER BY %s %s, created_at %s, id %s
		LIMIT $%d OFFSET $%d
	`, attendanceColumns, baseWhere, orderByField, sortOrder, sortOrder, sortOrder, argIdx, argIdx+1)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances := make([]attendance.Attendance, 0, limit)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return attendances, total, nil
}

// Delete implements attendance.AttendanceRepository.
func (a *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	if _, err := uuid.Parse(id); err != nil {
		return attendance.ErrAttendanceNotFound
	}

	tag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}
