package employee

import "context"

// Directory resolves QR credentials to employee identities.
type Directory interface {
	FindByEmployeeID(ctx context.Context, employeeID string) (EmployeeRef, error)
}

type EmployeeRepository interface {
	Directory

	GetByID(ctx context.Context, id string) (Employee, error)
	List(ctx context.Context) ([]Employee, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	Update(ctx context.Context, id string, fields UpdateFields) (Employee, error)
	Delete(ctx context.Context, id string) error
	ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID string) (bool, error)
}
