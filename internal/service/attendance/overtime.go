package attendance

import (
	"time"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

const (
	saturdayOTStart = 13 * 60
	weekdayOTStart  = 17 * 60
)

var minutesPerHour = decimal.NewFromInt(60)

// ComputeOT returns overtime hours rounded to two decimals.
//
// Sunday and holidays count the whole span from arrival, Saturday counts past
// 13:00 and other days count past 17:00. A missing time yields zero and a
// negative span collapses to zero.
func ComputeOT(date string, inTime, outTime *string, isHoliday bool) (decimal.Decimal, error) {
	if inTime == nil || outTime == nil {
		return decimal.Zero, nil
	}

	day, err := attendance.ParseDate(date)
	if err != nil {
		return decimal.Zero, err
	}
	in, err := attendance.ParseClockTime(*inTime)
	if err != nil {
		return decimal.Zero, err
	}
	out, err := attendance.ParseClockTime(*outTime)
	if err != nil {
		return decimal.Zero, err
	}

	var minutes int
	switch weekday := day.Weekday(); {
	case weekday == time.Sunday || isHoliday:
		minutes = out.Minutes() - in.Minutes()
	case weekday == time.Saturday:
		minutes = out.Minutes() - saturdayOTStart
	default:
		minutes = out.Minutes() - weekdayOTStart
	}

	if minutes <= 0 {
		return decimal.Zero, nil
	}

	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).Round(2), nil
}
