package employee

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/qrcode"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/qr-attendance-go/internal/service/file"
)

// storedImagePrefix marks Image values that are storage keys rather than
// client-supplied URLs.
const storedImagePrefix = "employees/"

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	fileService  file.FileService
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	fileService file.FileService,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		fileService:  fileService,
	}
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context) ([]employee.EmployeeResponse, error) {
	employees, err := s.employeeRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, 0, len(employees))
	for _, emp := range employees {
		responses = append(responses, s.mapEmployeeToResponse(ctx, emp))
	}
	return responses, nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	return s.mapEmployeeToResponse(ctx, emp), nil
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	exists, err := s.employeeRepo.ExistsByEmployeeID(ctx, req.EmployeeID, "")
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee id: %w", err)
	}
	if exists {
		return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
	}

	png, err := qrcode.PNG(req.EmployeeID, qrcode.DefaultSize)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	qrPath := file.QRCodePath(req.EmployeeID)
	newEmployee := employee.Employee{
		EmployeeID: req.EmployeeID,
		FullName:   strings.TrimSpace(req.FullName),
		NIC:        req.NIC,
		Position:   req.Position,
		Phone:      req.Phone,
		Email:      req.Email,
		Address:    req.Address,
		Image:      req.Image,
		BankDetails: employee.BankDetails{
			AccountNumber: req.BankDetails.AccountNumber,
			AccountName:   req.BankDetails.AccountName,
			Bank:          req.BankDetails.Bank,
			Branch:        req.BankDetails.Branch,
		},
		QRCodePath: &qrPath,
	}

	created, err := s.employeeRepo.Create(ctx, newEmployee)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeIDExists) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	if _, err := s.fileService.UploadQRCode(ctx, created.EmployeeID, png); err != nil {
		if delErr := s.employeeRepo.Delete(ctx, created.ID); delErr != nil {
			slog.Error("Failed to roll back employee after QR upload failure", "id", created.ID, "error", delErr)
		}
		return employee.EmployeeResponse{}, err
	}

	slog.Info("Employee registered", "employee_id", created.EmployeeID)
	resp := s.mapEmployeeToResponse(ctx, created)
	dataURL := qrcode.DataURL(png)
	resp.QRCode = &dataURL
	return resp, nil
}

// UpdateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateEmployee(ctx context.Context, req employee.UpdateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	fields := employee.UpdateFields{
		EmployeeID:  current.EmployeeID,
		FullName:    current.FullName,
		NIC:         current.NIC,
		Position:    current.Position,
		Phone:       current.Phone,
		Email:       current.Email,
		Address:     current.Address,
		Image:       current.Image,
		BankDetails: current.BankDetails,
		QRCodePath:  current.QRCodePath,
	}

	if req.FullName != nil {
		fields.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.NIC != nil {
		fields.NIC = req.NIC
	}
	if req.Position != nil {
		fields.Position = req.Position
	}
	if req.Phone != nil {
		fields.Phone = req.Phone
	}
	if req.Email != nil {
		fields.Email = req.Email
	}
	if req.Address != nil {
		fields.Address = req.Address
	}
	if req.Image != nil {
		fields.Image = req.Image
	}
	if req.BankDetails != nil {
		if req.BankDetails.AccountNumber != nil {
			fields.BankDetails.AccountNumber = req.BankDetails.AccountNumber
		}
		if req.BankDetails.AccountName != nil {
			fields.BankDetails.AccountName = req.BankDetails.AccountName
		}
		if req.BankDetails.Bank != nil {
			fields.BankDetails.Bank = req.BankDetails.Bank
		}
		if req.BankDetails.Branch != nil {
			fields.BankDetails.Branch = req.BankDetails.Branch
		}
	}

	// The QR encodes employee_id, so it is only reissued when that changes.
	var png []byte
	reissue := req.EmployeeID != nil && *req.EmployeeID != current.EmployeeID
	if reissue {
		exists, err := s.employeeRepo.ExistsByEmployeeID(ctx, *req.EmployeeID, current.ID)
		if err != nil {
			return employee.EmployeeResponse{}, fmt.Errorf("failed to check employee id: %w", err)
		}
		if exists {
			return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
		}

		png, err = qrcode.PNG(*req.EmployeeID, qrcode.DefaultSize)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}
		qrPath, err := s.fileService.UploadQRCode(ctx, *req.EmployeeID, png)
		if err != nil {
			return employee.EmployeeResponse{}, err
		}

		fields.EmployeeID = *req.EmployeeID
		fields.QRCodePath = &qrPath
	}

	updated, err := s.employeeRepo.Update(ctx, current.ID, fields)
	if err != nil {
		if reissue && !errors.Is(err, employee.ErrEmployeeIDExists) {
			s.deleteFile(ctx, *fields.QRCodePath)
		}
		switch {
		case errors.Is(err, employee.ErrEmployeeNotFound):
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		case errors.Is(err, employee.ErrEmployeeIDExists):
			return employee.EmployeeResponse{}, employee.ErrEmployeeIDExists
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee: %w", err)
	}

	if reissue && current.QRCodePath != nil {
		s.deleteFile(ctx, *current.QRCodePath)
	}
	if req.Image != nil && (current.Image == nil || *current.Image != *req.Image) {
		s.deleteStoredImage(ctx, current.Image)
	}

	resp := s.mapEmployeeToResponse(ctx, updated)
	if reissue {
		dataURL := qrcode.DataURL(png)
		resp.QRCode = &dataURL
	}
	return resp, nil
}

// UploadImage implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UploadImage(ctx context.Context, req employee.UploadImageRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	current, err := s.employeeRepo.GetByID(ctx, req.ID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, employee.ErrEmployeeNotFound
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}

	imagePath, err := s.fileService.UploadEmployeeImage(ctx, current.EmployeeID, req.File, req.Filename)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}

	fields := employee.UpdateFields{
		EmployeeID:  current.EmployeeID,
		FullName:    current.FullName,
		NIC:         current.NIC,
		Position:    current.Position,
		Phone:       current.Phone,
		Email:       current.Email,
		Address:     current.Address,
		Image:       &imagePath,
		BankDetails: current.BankDetails,
		QRCodePath:  current.QRCodePath,
	}

	updated, err := s.employeeRepo.Update(ctx, current.ID, fields)
	if err != nil {
		s.deleteFile(ctx, imagePath)
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update employee image: %w", err)
	}
	s.deleteStoredImage(ctx, current.Image)

	return s.mapEmployeeToResponse(ctx, updated), nil
}

// DeleteEmployee implements employee.EmployeeService.
// Attendance records keep their copied identity and are not touched.
func (s *EmployeeServiceImpl) DeleteEmployee(ctx context.Context, id string) error {
	current, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	if err := s.employeeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ErrEmployeeNotFound
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}

	if current.QRCodePath != nil {
		s.deleteFile(ctx, *current.QRCodePath)
	}
	s.deleteStoredImage(ctx, current.Image)

	return nil
}

// GetQRCode implements employee.EmployeeService. A credential missing from
// storage is regenerated.
func (s *EmployeeServiceImpl) GetQRCode(ctx context.Context, id string) ([]byte, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil, employee.ErrEmployeeNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	if emp.QRCodePath == nil {
		return nil, employee.ErrQRCodeNotAvailable
	}

	rc, err := s.fileService.OpenFile(ctx, *emp.QRCodePath)
	if err == nil {
		defer rc.Close()
		png, err := io.ReadAll(rc)
		if err != nil {
			return nil, fmt.Errorf("failed to read qr code: %w", err)
		}
		return png, nil
	}
	if !errors.Is(err, storage.ErrFileNotFound) {
		return nil, fmt.Errorf("failed to open qr code: %w", err)
	}

	slog.Warn("QR code missing from storage, regenerating", "employee_id", emp.EmployeeID)
	png, err := qrcode.PNG(emp.EmployeeID, qrcode.DefaultSize)
	if err != nil {
		return nil, err
	}
	if _, err := s.fileService.UploadQRCode(ctx, emp.EmployeeID, png); err != nil {
		return nil, err
	}
	return png, nil
}

func (s *EmployeeServiceImpl) deleteFile(ctx context.Context, path string) {
	if err := s.fileService.DeleteFile(ctx, path); err != nil {
		slog.Error("Failed to delete file", "path", path, "error", err)
	}
}

func (s *EmployeeServiceImpl) deleteStoredImage(ctx context.Context, image *string) {
	if image != nil && strings.HasPrefix(*image, storedImagePrefix) {
		s.deleteFile(ctx, *image)
	}
}

func (s *EmployeeServiceImpl) fileURL(ctx context.Context, path string) *string {
	url, err := s.fileService.GetFileURL(ctx, path, 0)
	if err != nil {
		slog.Error("Failed to resolve file URL", "path", path, "error", err)
		return nil
	}
	return &url
}

func (s *EmployeeServiceImpl) mapEmployeeToResponse(ctx context.Context, emp employee.Employee) employee.EmployeeResponse {
	resp := employee.EmployeeResponse{
		ID:         emp.ID,
		EmployeeID: emp.EmployeeID,
		FullName:   emp.FullName,
		NIC:        emp.NIC,
		Position:   emp.Position,
		Phone:      emp.Phone,
		Email:      emp.Email,
		Address:    emp.Address,
		Image:      emp.Image,
		BankDetails: employee.BankDetailsResponse{
			AccountNumber: emp.BankDetails.AccountNumber,
			AccountName:   emp.BankDetails.AccountName,
			Bank:          emp.BankDetails.Bank,
			Branch:        emp.BankDetails.Branch,
		},
		CreatedAt: emp.CreatedAt.Format("2006-01-02 15:04:05"),
		UpdatedAt: emp.UpdatedAt.Format("2006-01-02 15:04:05"),
	}

	if emp.Image != nil && strings.HasPrefix(*emp.Image, storedImagePrefix) {
		resp.Image = s.fileURL(ctx, *emp.Image)
	}
	if emp.QRCodePath != nil {
		resp.QRCodeURL = s.fileURL(ctx, *emp.QRCodePath)
	}

	return resp
}
