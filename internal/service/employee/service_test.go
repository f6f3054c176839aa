package employee

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/storage"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/validator"
	"github.com/cmlabs-hris/qr-attendance-go/internal/repository/memory"
	"github.com/cmlabs-hris/qr-attendance-go/internal/service/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBaseURL = "http://localhost:8080/uploads"

func newTestService(t *testing.T) (employee.EmployeeService, storage.FileStorage) {
	t.Helper()
	local, err := storage.NewLocalStorage(t.TempDir(), testBaseURL)
	require.NoError(t, err)
	return NewEmployeeService(memory.NewEmployeeRepository(), file.NewFileService(local)), local
}

func strPtr(s string) *string { return &s }

func createRequest(employeeID string) employee.CreateEmployeeRequest {
	return employee.CreateEmployeeRequest{
		EmployeeID: employeeID,
		FullName:   "Nimal Perera",
		NIC:        strPtr("199012345678"),
		Phone:      strPtr("+94 77 123 4567"),
		Email:      strPtr("nimal@example.com"),
		BankDetails: employee.BankDetailsRequest{
			Bank:   strPtr("BOC"),
			Branch: strPtr("Kandy"),
		},
	}
}

// ===== CREATE =====

func TestEmployeeService_Create_IssuesQRCode(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	resp, err := svc.CreateEmployee(ctx, createRequest("EMP001"))
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "EMP001", resp.EmployeeID)
	assert.Equal(t, "BOC", *resp.BankDetails.Bank)
	require.NotNil(t, resp.QRCodeURL)
	assert.Equal(t, testBaseURL+"/qrcodes/EMP001.png", *resp.QRCodeURL)
	require.NotNil(t, resp.QRCode)
	assert.True(t, strings.HasPrefix(*resp.QRCode, "data:image/png;base64,"))

	exists, err := store.Exists(ctx, "qrcodes/EMP001.png")
	require.NoError(t, err)
	assert.True(t, exists)

	qr, err := svc.GetQRCode(ctx, resp.ID)
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(qr))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestEmployeeService_Create_DuplicateEmployeeID(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.CreateEmployee(ctx, createRequest("EMP001"))
	require.NoError(t, err)

	_, err = svc.CreateEmployee(ctx, createRequest("EMP001"))
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)
}

func TestEmployeeService_Create_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	req := createRequest("EMP 001")
	req.FullName = ""
	req.Email = strPtr("not-an-email")
	req.Image = strPtr("employees/someone-else.jpg")

	_, err := svc.CreateEmployee(context.Background(), req)
	var validationErrs validator.ValidationErrors
	require.ErrorAs(t, err, &validationErrs)

	fields := validationErrs.ToMap()
	assert.Contains(t, fields, "employee_id")
	assert.Contains(t, fields, "full_name")
	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "image")
}

// ===== UPDATE =====

func TestEmployeeService_Update_ReissuesQROnlyWhenIDChanges(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	created, err := svc.CreateEmployee(ctx, createRequest("EMP001"))
	require.NoError(t, err)

	updated, err := svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID:       created.ID,
		FullName: strPtr("Nimal K. Perera"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Nimal K. Perera", updated.FullName)
	assert.Nil(t, updated.QRCode)
	assert.Equal(t, "BOC", *updated.BankDetails.Bank)

	updated, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{
		ID:         created.ID,
		EmployeeID: strPtr("EMP100"),
	})
	require.NoError(t, err)
	assert.Equal(t, "EMP100", updated.EmployeeID)
	require.NotNil(t, updated.QRCode)
	assert.Equal(t, testBaseURL+"/qrcodes/EMP100.png", *updated.QRCodeURL)

	oldExists, err := store.Exists(ctx, "qrcodes/EMP001.png")
	require.NoError(t, err)
	assert.False(t, oldExists)

	newExists, err := store.Exists(ctx, "qrcodes/EMP100.png")
	require.NoError(t, err)
	assert.True(t, newExists)
}

func TestEmployeeService_Update_DuplicateEmployeeID(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	_, err := svc.CreateEmployee(ctx, createRequest("EMP001"))
	require.NoError(t, err)
	second, err := svc.CreateEmployee(ctx, createRequest("EMP002"))
	require.NoError(t, err)

	_, err = svc.UpdateEmployee(ctx, employee.UpdateEmployeeRequest{ID: second.ID, EmployeeID: strPtr("EMP001")})
	assert.ErrorIs(t, err, employee.ErrEmployeeIDExists)

	exists, err := store.Exists(ctx, "qrcodes/EMP001.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEmployeeService_Update_NotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateEmployee(context.Background(), employee.UpdateEmployeeRequest{ID: "missing", FullName: strPtr("X")})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

// ===== IMAGE =====

func TestEmployeeService_UploadImage(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	created, err := svc.CreateEmployee(ctx, createRequest("EMP001"))
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, image.NewRGBA(image.Rect(0, 0, 64, 64))))

	resp, err := svc.UploadImage(ctx, employee.UploadImageRequest{ID: created.ID, File: buf, Filename: "me.png"})
	require.NoError(t, err)
	require.NotNil(t, resp.Image)
	assert.True(t, strings.HasPrefix(*resp.Image, testBaseURL+"/employees/EMP001/"))

	key := strings.TrimPrefix(*resp.Image, testBaseURL+"/")
	require.NoError(t, svc.DeleteEmployee(ctx, created.ID))

	exists, err := store.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}

// ===== DELETE / LIST =====

func TestEmployeeService_Delete_RemovesQRCode(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	created, err := svc.CreateEmployee(ctx, createRequest("EMP001"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, created.ID))

	exists, err := store.Exists(ctx, "qrcodes/EMP001.png")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = svc.GetEmployee(ctx, created.ID)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.ErrorIs(t, svc.DeleteEmployee(ctx, created.ID), employee.ErrEmployeeNotFound)
}

func TestEmployeeService_GetQRCode_RegeneratesMissingFile(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t)

	created, err := svc.CreateEmployee(ctx, createRequest("EMP001"))
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "qrcodes/EMP001.png"))

	qr, err := svc.GetQRCode(ctx, created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, qr)

	exists, err := store.Exists(ctx, "qrcodes/EMP001.png")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEmployeeService_List_NewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	for _, id := range []string{"EMP001", "EMP002", "EMP003"} {
		_, err := svc.CreateEmployee(ctx, createRequest(id))
		require.NoError(t, err)
	}

	list, err := svc.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "EMP003", list[0].EmployeeID)
	assert.Equal(t, "EMP001", list[2].EmployeeID)
}
