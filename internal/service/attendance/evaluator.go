package attendance

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Evaluator turns scans, imported rows and edits into finalized records.
// It holds no mutable state and is safe for concurrent use.
type Evaluator struct {
	classifier TimeClassifier
	clock      Clock
	loc        *time.Location
}

func NewEvaluator(classifier TimeClassifier, clock Clock, loc *time.Location) *Evaluator {
	if clock == nil {
		clock = SystemClock{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &Evaluator{classifier: classifier, clock: clock, loc: loc}
}

// EvaluateScan builds an open check-in for the employee at the current time.
func (e *Evaluator) EvaluateScan(ref employee.EmployeeRef) attendance.Attendance {
	now := e.clock.Now().In(e.loc)
	arrival := attendance.ClockTimeOf(now)
	inTime := arrival.String()

	return attendance.Attendance{
		EmployeeID: ref.EmployeeID,
		FullName:   ref.FullName,
		Date:       now.Format("2006-01-02"),
		InTime:     &inTime,
		Status:     e.classifier.Classify(arrival),
		OTHours:    decimal.Zero,
		Method:     attendance.MethodScan,
	}
}

// EvaluateRow finalizes one imported row. An empty status is derived from
// the in time.
func (e *Evaluator) EvaluateRow(row attendance.ImportRow) (attendance.Attendance, error) {
	ot, err := ComputeOT(row.Date, row.InTime, row.OutTime, row.IsHoliday)
	if err != nil {
		return attendance.Attendance{}, err
	}

	status := attendance.PunctualityOnTime
	if row.Status != "" {
		parsed, ok := attendance.ParseStatus(row.Status)
		if !ok {
			return attendance.Attendance{}, fmt.Errorf("unknown status %q", row.Status)
		}
		status = parsed
	} else if row.InTime != nil {
		status, err = e.classifier.ClassifyString(*row.InTime)
		if err != nil {
			return attendance.Attendance{}, err
		}
	}

	return attendance.Attendance{
		EmployeeID: row.EmployeeID,
		FullName:   row.FullName,
		Date:       row.Date,
		InTime:     row.InTime,
		OutTime:    row.OutTime,
		Status:     status,
		OTHours:    ot,
		Method:     attendance.MethodManual,
		IsHoliday:  row.IsHoliday,
	}, nil
}

// EvaluateRows evaluates rows in parallel, preserving input order. The first
// failing row aborts the batch.
func (e *Evaluator) EvaluateRows(ctx context.Context, rows []attendance.ImportRow) ([]attendance.Attendance, error) {
	out := make([]attendance.Attendance, len(rows))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i := range rows {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := e.EvaluateRow(rows[i])
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			out[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// ApplyEdit merges an edit into the current record and recomputes overtime
// from the merged values. An empty in/out time clears it.
func (e *Evaluator) ApplyEdit(current attendance.Attendance, req attendance.UpdateAttendanceRequest) (attendance.UpdateFields, error) {
	fields := attendance.UpdateFields{
		Date:      current.Date,
		InTime:    current.InTime,
		OutTime:   current.OutTime,
		IsHoliday: current.IsHoliday,
		Status:    current.Status,
	}

	if req.Date != nil {
		fields.Date = *req.Date
	}
	if req.InTime != nil {
		fields.InTime = clearable(*req.InTime)
	}
	if req.OutTime != nil {
		fields.OutTime = clearable(*req.OutTime)
	}
	if req.IsHoliday != nil {
		fields.IsHoliday = *req.IsHoliday
	}
	if req.Status != nil {
		status, ok := attendance.ParseStatus(*req.Status)
		if !ok {
			return attendance.UpdateFields{}, fmt.Errorf("unknown status %q", *req.Status)
		}
		fields.Status = status
	}

	ot, err := ComputeOT(fields.Date, fields.InTime, fields.OutTime, fields.IsHoliday)
	if err != nil {
		return attendance.UpdateFields{}, err
	}
	fields.OTHours = ot

	return fields, nil
}

func clearable(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
