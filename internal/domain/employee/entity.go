package employee

import (
	"time"
)

type Employee struct {
	ID          string
	EmployeeID  string // credential encoded in the QR code, unique
	FullName    string
	NIC         *string
	Position    *string
	Phone       *string
	Email       *string
	Address     *string
	Image       *string
	BankDetails BankDetails
	QRCodePath  *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type BankDetails struct {
	AccountNumber *string
	AccountName   *string
	Bank          *string
	Branch        *string
}

// EmployeeRef is the read-only identity copied onto attendance records.
type EmployeeRef struct {
	EmployeeID string
	FullName   string
}

func (e Employee) Ref() EmployeeRef {
	return EmployeeRef{EmployeeID: e.EmployeeID, FullName: e.FullName}
}

// UpdateFields carries the full column set written by an update.
type UpdateFields struct {
	EmployeeID  string
	FullName    string
	NIC         *string
	Position    *string
	Phone       *string
	Email       *string
	Address     *string
	Image       *string
	BankDetails BankDetails
	QRCodePath  *string
}
