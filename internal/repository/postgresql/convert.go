package postgresql

import (
	"fmt"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

const microsPerMinute = 60 * 1_000_000

func toPgDate(s string) (pgtype.Date, error) {
	d, err := attendance.ParseDate(s)
	if err != nil {
		return pgtype.Date{}, err
	}
	return pgtype.Date{Time: d, Valid: true}, nil
}

// toPgTime maps nil to SQL NULL.
func toPgTime(s *string) (pgtype.Time, error) {
	if s == nil {
		return pgtype.Time{}, nil
	}
	c, err := attendance.ParseClockTime(*s)
	if err != nil {
		return pgtype.Time{}, err
	}
	return pgtype.Time{Microseconds: int64(c.Minutes()) * microsPerMinute, Valid: true}, nil
}

func fromPgTime(t pgtype.Time) *string {
	if !t.Valid {
		return nil
	}
	minutes := int(t.Microseconds / microsPerMinute)
	s := attendance.ClockTime{Hour: minutes / 60, Minute: minutes % 60}.String()
	return &s
}

func toPgNumeric(d decimal.Decimal) pgtype.Numeric {
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}

func fromPgNumeric(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, fmt.Errorf("unexpected non-finite numeric")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

// attendanceRow holds the pgx-typed columns of an attendances row.
type attendanceRow struct {
	date    pgtype.Date
	inTime  pgtype.Time
	outTime pgtype.Time
	otHours pgtype.Numeric
}

// toPgRow converts the typed columns of a record.
func toPgRow(a attendance.Attendance) (attendanceRow, error) {
	date, err := toPgDate(a.Date)
	if err != nil {
		return attendanceRow{}, err
	}
	in, err := toPgTime(a.InTime)
	if err != nil {
		return attendanceRow{}, err
	}
	out, err := toPgTime(a.OutTime)
	if err != nil {
		return attendanceRow{}, err
	}
	return attendanceRow{date: date, inTime: in, outTime: out, otHours: toPgNumeric(a.OTHours)}, nil
}

func (r attendanceRow) applyTo(a *attendance.Attendance) error {
	ot, err := fromPgNumeric(r.otHours)
	if err != nil {
		return err
	}
	a.Date = r.date.Time.Format("2006-01-02")
	a.InTime = fromPgTime(r.inTime)
	a.OutTime = fromPgTime(r.outTime)
	a.OTHours = ot
	return nil
}
