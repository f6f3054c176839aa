package attendance

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Punctuality is the internal arrival classification. The API speaks the
// legacy Present/Leave vocabulary, where "Leave" means a late arrival rather
// than an absence; see Label and ParseStatus.
type Punctuality string

const (
	PunctualityOnTime Punctuality = "on_time"
	PunctualityLate   Punctuality = "late"
)

// External status labels.
const (
	StatusPresent = "Present"
	StatusLeave   = "Leave"
)

func (p Punctuality) Label() string {
	if p == PunctualityLate {
		return StatusLeave
	}
	return StatusPresent
}

func (p Punctuality) IsValid() bool {
	return p == PunctualityOnTime || p == PunctualityLate
}

// ParseStatus accepts both the external labels and the internal values,
// case-insensitively.
func ParseStatus(s string) (Punctuality, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "present", "on_time":
		return PunctualityOnTime, true
	case "leave", "late":
		return PunctualityLate, true
	}
	return "", false
}

type Method string

const (
	MethodScan   Method = "Scan"
	MethodManual Method = "Manual"
)

func (m Method) IsValid() bool {
	return m == MethodScan || m == MethodManual
}

type Attendance struct {
	ID         string
	EmployeeID string
	FullName   string
	Date       string  // YYYY-MM-DD
	InTime     *string // HH:MM
	OutTime    *string // HH:MM
	Status     Punctuality
	OTHours    decimal.Decimal
	Method     Method
	IsHoliday  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// UpdateFields is the complete set of columns an edit may write. OTHours must
// be recomputed from the other fields before it reaches the repository.
type UpdateFields struct {
	Date      string
	InTime    *string
	OutTime   *string
	IsHoliday bool
	Status    Punctuality
	OTHours   decimal.Decimal
}

type BatchResult struct {
	Inserted int
	IDs      []string
}
