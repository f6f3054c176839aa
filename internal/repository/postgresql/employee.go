package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const employeeColumns = `
	id, employee_id, full_name, nic, position, phone, email, address, image,
	bank_account_number, bank_account_name, bank_name, bank_branch,
	qr_code_path, created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeID, &emp.FullName, &emp.NIC, &emp.Position, &emp.Phone,
		&emp.Email, &emp.Address, &emp.Image,
		&emp.BankDetails.AccountNumber, &emp.BankDetails.AccountName,
		&emp.BankDetails.Bank, &emp.BankDetails.Branch,
		&emp.QRCodePath, &emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// FindByEmployeeID implements employee.Directory.
func (e *employeeRepositoryImpl) FindByEmployeeID(ctx context.Context, employeeID string) (employee.EmployeeRef, error) {
	q := GetQuerier(ctx, e.db)

	var ref employee.EmployeeRef
	err := q.QueryRow(ctx,
		`SELECT employee_id, full_name FROM employees WHERE employee_id = $1`,
		employeeID,
	).Scan(&ref.EmployeeID, &ref.FullName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.EmployeeRef{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeRef{}, fmt.Errorf("failed to find employee: %w", err)
	}

	return ref, nil
}

// GetByID implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	emp, err := scanEmployee(q.QueryRow(ctx, `SELECT `+employeeColumns+` FROM employees WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return emp, nil
}

// List implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) List(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	rows, err := q.Query(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

// Create implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	id, err := uuid.NewV7()
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to generate id: %w", err)
	}

	query := `
		INSERT INTO employees (
			id, employee_id, full_name, nic, position, phone, email, address, image,
			bank_account_number, bank_account_name, bank_name, bank_branch, qr_code_path
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14
		)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		id, newEmployee.EmployeeID, newEmployee.FullName, newEmployee.NIC, newEmployee.Position,
		newEmployee.Phone, newEmployee.Email, newEmployee.Address, newEmployee.Image,
		newEmployee.BankDetails.AccountNumber, newEmployee.BankDetails.AccountName,
		newEmployee.BankDetails.Bank, newEmployee.BankDetails.Branch, newEmployee.QRCodePath,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}

	return created, nil
}

// Update implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Update(ctx context.Context, id string, fields employee.UpdateFields) (employee.Employee, error) {
	q := GetQuerier(ctx, e.db)

	if _, err := uuid.Parse(id); err != nil {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}

	query := `
		UPDATE employees SET
			employee_id = $2,
			full_name = $3,
			nic = $4,
			position = $5,
			phone = $6,
			email = $7,
			address = $8,
			image = $9,
			bank_account_number = $10,
			bank_account_name = $11,
			bank_name = $12,
			bank_branch = $13,
			qr_code_path = $14,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + employeeColumns

	updated, err := scanEmployee(q.QueryRow(ctx, query,
		id, fields.EmployeeID, fields.FullName, fields.NIC, fields.Position,
		fields.Phone, fields.Email, fields.Address, fields.Image,
		fields.BankDetails.AccountNumber, fields.BankDetails.AccountName,
		fields.BankDetails.Bank, fields.BankDetails.Branch, fields.QRCodePath,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		if isUniqueViolation(err) {
			return employee.Employee{}, employee.ErrEmployeeIDExists
		}
		return employee.Employee{}, fmt.Errorf("failed to update employee: %w", err)
	}

	return updated, nil
}

// Delete implements employee.EmployeeRepository.
func (e *employeeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, e.db)

	if _, err := uuid.Parse(id); err != nil {
		return employee.ErrEmployeeNotFound
	}

	tag, err := q.Exec(ctx, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}

	return nil
}

// ExistsByEmployeeID implements employee.EmployeeRepository. excludeID skips
// the employee being edited.
func (e *employeeRepositoryImpl) ExistsByEmployeeID(ctx context.Context, employeeID string, excludeID string) (bool, error) {
	q := GetQuerier(ctx, e.db)

	query := `SELECT EXISTS(SELECT 1 FROM employees WHERE employee_id = $1 AND id::text <> $2)`

	var exists bool
	if err := q.QueryRow(ctx, query, employeeID, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check employee id: %w", err)
	}

	return exists, nil
}
