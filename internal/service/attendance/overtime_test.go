package attendance

import (
	"testing"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

// 2024-01-01 is a Monday.
const (
	wednesday = "2024-01-03"
	saturday  = "2024-01-06"
	sunday    = "2024-01-07"
)

func TestComputeOT(t *testing.T) {
	tests := []struct {
		name      string
		date      string
		in        *string
		out       *string
		isHoliday bool
		want      string
	}{
		{"sunday counts whole span", sunday, strPtr("09:00"), strPtr("18:00"), false, "9"},
		{"saturday counts past 13:00", saturday, strPtr("09:00"), strPtr("15:30"), false, "2.5"},
		{"holiday overrides weekday", wednesday, strPtr("09:00"), strPtr("19:15"), true, "10.25"},
		{"weekday before 17:00", wednesday, strPtr("09:00"), strPtr("16:00"), false, "0"},
		{"weekday past 17:00", wednesday, strPtr("08:00"), strPtr("18:45"), false, "1.75"},
		{"weekday exactly 17:00", wednesday, strPtr("08:00"), strPtr("17:00"), false, "0"},
		{"saturday before 13:00 clamps", saturday, strPtr("09:00"), strPtr("11:00"), false, "0"},
		{"holiday saturday counts whole span", saturday, strPtr("10:00"), strPtr("12:00"), true, "2"},
		{"sunday out before in clamps", sunday, strPtr("18:00"), strPtr("09:00"), false, "0"},
		{"rounds to two decimals", wednesday, strPtr("08:00"), strPtr("17:10"), false, "0.17"},
		{"missing in time", wednesday, nil, strPtr("19:00"), false, "0"},
		{"missing out time", sunday, strPtr("09:00"), nil, true, "0"},
		{"missing both ignores bad date", "not-a-date", nil, nil, false, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeOT(tt.date, tt.in, tt.out, tt.isHoliday)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "want %s, got %s", tt.want, got)
			assert.False(t, got.IsNegative())
		})
	}
}

func TestComputeOT_RejectsMalformedInput(t *testing.T) {
	_, err := ComputeOT("2024-13-01", strPtr("09:00"), strPtr("18:00"), false)
	assert.ErrorIs(t, err, attendance.ErrInvalidDate)

	_, err = ComputeOT(sunday, strPtr("9am"), strPtr("18:00"), false)
	assert.ErrorIs(t, err, attendance.ErrInvalidClockTime)

	_, err = ComputeOT(sunday, strPtr("09:00"), strPtr("24:00"), false)
	assert.ErrorIs(t, err, attendance.ErrInvalidClockTime)
}

func TestComputeOT_Idempotent(t *testing.T) {
	first, err := ComputeOT(saturday, strPtr("09:00"), strPtr("15:30"), false)
	require.NoError(t, err)
	second, err := ComputeOT(saturday, strPtr("09:00"), strPtr("15:30"), false)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}
