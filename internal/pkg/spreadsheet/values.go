package spreadsheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var dateFormats = []string{
	"2006-01-02",
	"2006/01/02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"Jan 2, 2006",
	"2 Jan 2006",
	"1/2/2006",
	"1/2/06",
}

var clockFormats = []string{
	"15:04",
	"15:04:05",
	"3:04 PM",
	"3:04PM",
	"3:04:05 PM",
	"03:04 PM",
}

// NormalizeDate converts a sheet cell to YYYY-MM-DD. Numeric cells are read as
// Excel date serials.
func NormalizeDate(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		if serial >= 1 && serial < 2958466 {
			if parsed, err := excelize.ExcelDateToTime(serial, false); err == nil {
				return parsed.Format("2006-01-02"), nil
			}
		}
		return "", fmt.Errorf("invalid date %q", value)
	}

	for _, format := range dateFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}

	return "", fmt.Errorf("invalid date %q", value)
}

// NormalizeClock converts a sheet cell to 24-hour HH:MM. Fractions of a day
// (Excel time cells) are accepted.
func NormalizeClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}

	if fraction, err := strconv.ParseFloat(value, 64); err == nil {
		if fraction < 0 || fraction >= 1 {
			return "", fmt.Errorf("invalid time %q", value)
		}
		minutes := int(math.Round(fraction * 24 * 60))
		if minutes == 24*60 {
			minutes--
		}
		return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60), nil
	}

	upper := strings.ToUpper(value)
	for _, format := range clockFormats {
		if parsed, err := time.Parse(format, upper); err == nil {
			return parsed.Format("15:04"), nil
		}
	}

	return "", fmt.Errorf("invalid time %q", value)
}

// ParseFlag reads yes/no style cells. Blank is false.
func ParseFlag(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "0", "false", "no", "n", "f":
		return false, nil
	case "1", "true", "yes", "y", "t", "holiday":
		return true, nil
	}
	return false, fmt.Errorf("invalid flag %q", value)
}
