package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/google/uuid"
)

type employeeRepositoryImpl struct {
	mu        sync.RWMutex
	employees map[string]employee.Employee
}

func NewEmployeeRepository() employee.EmployeeRepository {
	return &employeeRepositoryImpl{employees: make(map[string]employee.Employee)}
}

func (r *employeeRepositoryImpl) FindByEmployeeID(_ context.Context, employeeID string) (employee.EmployeeRef, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, e := range r.employees {
		if e.EmployeeID == employeeID {
			return e.Ref(), nil
		}
	}
	return employee.EmployeeRef{}, employee.ErrEmployeeNotFound
}

func (r *employeeRepositoryImpl) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

// List returns employees newest first.
func (r *employeeRepositoryImpl) List(_ context.Context) ([]employee.Employee, error) {
	r.mu.RLock()
	out := make([]employee.Employee, 0, len(r.employees))
	for _, e := range r.employees {
		out = append(out, e)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b employee.Employee) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		// v7 ids order by creation time
		return cmp.Compare(b.ID, a.ID)
	})
	return out, nil
}

func (r *employeeRepositoryImpl) Create(_ context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.existsLocked(newEmployee.EmployeeID, "") {
		return employee.Employee{}, employee.ErrEmployeeIDExists
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate id: %w", err)
	}
	now := time.Now().UTC()
	newEmployee.ID = id.String()
	newEmployee.CreatedAt = now
	newEmployee.UpdatedAt = now

	r.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepositoryImpl) Update(_ context.Context, id string, fields employee.UpdateFields) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	if r.existsLocked(fields.EmployeeID, id) {
		return employee.Employee{}, employee.ErrEmployeeIDExists
	}

	e.EmployeeID = fields.EmployeeID
	e.FullName = fields.FullName
	e.NIC = fields.NIC
	e.Position = fields.Position
	e.Phone = fields.Phone
	e.Email = fields.Email
	e.Address = fields.Address
	e.Image = fields.Image
	e.BankDetails = fields.BankDetails
	e.QRCodePath = fields.QRCodePath
	e.UpdatedAt = time.Now().UTC()

	r.employees[id] = e
	return e, nil
}

func (r *employeeRepositoryImpl) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	return nil
}

func (r *employeeRepositoryImpl) ExistsByEmployeeID(_ context.Context, employeeID string, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.existsLocked(employeeID, excludeID), nil
}

func (r *employeeRepositoryImpl) existsLocked(employeeID, excludeID string) bool {
	for id, e := range r.employees {
		if e.EmployeeID == employeeID && id != excludeID {
			return true
		}
	}
	return false
}
