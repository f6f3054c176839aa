package attendance

import (
	"fmt"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
)

// DefaultLateCutoff is the last on-time arrival minute.
const DefaultLateCutoff = "08:30"

// TimeClassifier decides whether an arrival is on time. Arrivals strictly
// after the cutoff are late.
type TimeClassifier struct {
	cutoff int
}

func NewTimeClassifier(cutoff string) (TimeClassifier, error) {
	c, err := attendance.ParseClockTime(cutoff)
	if err != nil {
		return TimeClassifier{}, fmt.Errorf("invalid late cutoff: %w", err)
	}
	return TimeClassifier{cutoff: c.Minutes()}, nil
}

func (c TimeClassifier) Classify(arrival attendance.ClockTime) attendance.Punctuality {
	if arrival.Minutes() > c.cutoff {
		return attendance.PunctualityLate
	}
	return attendance.PunctualityOnTime
}

// ClassifyString parses an HH:MM reading and classifies it.
func (c TimeClassifier) ClassifyString(arrival string) (attendance.Punctuality, error) {
	t, err := attendance.ParseClockTime(arrival)
	if err != nil {
		return "", err
	}
	return c.Classify(t), nil
}
