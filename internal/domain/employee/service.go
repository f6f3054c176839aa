package employee

import (
	"context"
)

// EmployeeService defines business logic for employee operations
type EmployeeService interface {
	// ListEmployees lists all employees, newest first
	ListEmployees(ctx context.Context) ([]EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// CreateEmployee registers an employee and issues the QR credential
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// UpdateEmployee updates an employee, reissuing the QR when employee_id changes
	UpdateEmployee(ctx context.Context, req UpdateEmployeeRequest) (EmployeeResponse, error)

	// DeleteEmployee removes an employee and its QR image
	DeleteEmployee(ctx context.Context, id string) error

	// UploadImage stores an employee photo and records its URL
	UploadImage(ctx context.Context, req UploadImageRequest) (EmployeeResponse, error)

	// GetQRCode returns the PNG credential of an employee
	GetQRCode(ctx context.Context, id string) ([]byte, error)
}
