package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/attendance"
	"github.com/cmlabs-hris/qr-attendance-go/internal/domain/employee"
	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{
			name:    "partial import",
			err:     fmt.Errorf("%w: stored 2 of 3 rows", attendance.ErrPartialImport),
			status:  http.StatusInternalServerError,
			code:    "PARTIAL_IMPORT",
			message: "Import was only partially stored",
		},
		{
			name:    "unknown qr code",
			err:     attendance.ErrInvalidQRCode,
			status:  http.StatusNotFound,
			code:    "NOT_FOUND",
			message: "Invalid QR Code",
		},
		{
			name:    "duplicate employee id",
			err:     employee.ErrEmployeeIDExists,
			status:  http.StatusConflict,
			code:    "CONFLICT",
			message: "Employee ID already exists",
		},
		{
			name:    "validation",
			err:     validator.ValidationErrors{{Field: "employee_id", Message: "employee_id is required"}},
			status:  http.StatusUnprocessableEntity,
			code:    "VALIDATION_ERROR",
			message: "Validation failed",
		},
		{
			name:    "unexpected",
			err:     fmt.Errorf("connection reset"),
			status:  http.StatusInternalServerError,
			code:    "INTERNAL_SERVER_ERROR",
			message: "An unexpected error occurred",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tc.err)

			assert.Equal(t, tc.status, rec.Code)

			var body Response
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tc.code, body.Error.Code)
			assert.Equal(t, tc.message, body.Error.Message)
		})
	}
}
