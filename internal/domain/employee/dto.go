package employee

import (
	"io"
	"strings"

	"github.com/cmlabs-hris/qr-attendance-go/internal/pkg/validator"
)

type BankDetailsRequest struct {
	AccountNumber *string `json:"account_number,omitempty"`
	AccountName   *string `json:"account_name,omitempty"`
	Bank          *string `json:"bank,omitempty"`
	Branch        *string `json:"branch,omitempty"`
}

type CreateEmployeeRequest struct {
	EmployeeID  string             `json:"employee_id"`
	FullName    string             `json:"full_name"`
	NIC         *string            `json:"nic,omitempty"`
	Position    *string            `json:"position,omitempty"`
	Phone       *string            `json:"phone,omitempty"`
	Email       *string            `json:"email,omitempty"`
	Address     *string            `json:"address,omitempty"`
	Image       *string            `json:"image,omitempty"`
	BankDetails BankDetailsRequest `json:"bank_details"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidEmployeeID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id may only contain letters, digits, '.', '_' and '-'",
		})
	}

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	}

	errs = append(errs, validateContact(r.NIC, r.Phone, r.Email)...)
	errs = append(errs, validateImage(r.Image)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateEmployeeRequest only carries the fields an edit is allowed to change;
// nil leaves the current value untouched.
type UpdateEmployeeRequest struct {
	ID          string              `json:"-"`
	EmployeeID  *string             `json:"employee_id,omitempty"`
	FullName    *string             `json:"full_name,omitempty"`
	NIC         *string             `json:"nic,omitempty"`
	Position    *string             `json:"position,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Email       *string             `json:"email,omitempty"`
	Address     *string             `json:"address,omitempty"`
	Image       *string             `json:"image,omitempty"`
	BankDetails *BankDetailsRequest `json:"bank_details,omitempty"`
}

func (r *UpdateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.EmployeeID != nil {
		trimmed := strings.TrimSpace(*r.EmployeeID)
		r.EmployeeID = &trimmed
		if !validator.IsValidEmployeeID(trimmed) {
			errs = append(errs, validator.ValidationError{
				Field:   "employee_id",
				Message: "employee_id may only contain letters, digits, '.', '_' and '-'",
			})
		}
	}

	if r.FullName != nil && validator.IsEmpty(*r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name cannot be empty",
		})
	}

	errs = append(errs, validateContact(r.NIC, r.Phone, r.Email)...)
	errs = append(errs, validateImage(r.Image)...)

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func validateContact(nic, phone, email *string) validator.ValidationErrors {
	var errs validator.ValidationErrors

	if nic != nil && *nic != "" && !validator.IsValidNIC(*nic) {
		errs = append(errs, validator.ValidationError{
			Field:   "nic",
			Message: "nic must be 9 digits followed by V/X, or 12 digits",
		})
	}

	if phone != nil && *phone != "" && !validator.IsValidPhoneNumber(*phone) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must be 9-15 digits",
		})
	}

	if email != nil && *email != "" && !validator.IsValidEmail(*email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "invalid email format",
		})
	}

	return errs
}

// validateImage accepts a remote URL or an inline image data URL; uploaded
// photos go through UploadImageRequest instead.
func validateImage(image *string) validator.ValidationErrors {
	if image == nil || *image == "" {
		return nil
	}
	for _, prefix := range []string{"http://", "https://", "data:image/"} {
		if strings.HasPrefix(*image, prefix) {
			return nil
		}
	}
	return validator.ValidationErrors{{
		Field:   "image",
		Message: "image must be an http(s) URL or a data:image URL",
	}}
}

type BankDetailsResponse struct {
	AccountNumber *string `json:"account_number,omitempty"`
	AccountName   *string `json:"account_name,omitempty"`
	Bank          *string `json:"bank,omitempty"`
	Branch        *string `json:"branch,omitempty"`
}

type EmployeeResponse struct {
	ID          string              `json:"id"`
	EmployeeID  string              `json:"employee_id"`
	FullName    string              `json:"full_name"`
	NIC         *string             `json:"nic,omitempty"`
	Position    *string             `json:"position,omitempty"`
	Phone       *string             `json:"phone,omitempty"`
	Email       *string             `json:"email,omitempty"`
	Address     *string             `json:"address,omitempty"`
	Image       *string             `json:"image,omitempty"`
	BankDetails BankDetailsResponse `json:"bank_details"`
	QRCodeURL   *string             `json:"qr_code_url,omitempty"`
	QRCode      *string             `json:"qr_code,omitempty"` // data URL, set when the credential is issued
	CreatedAt   string              `json:"created_at"`
	UpdatedAt   string              `json:"updated_at"`
}

type UploadImageRequest struct {
	ID       string
	File     io.Reader
	Filename string
}

func (r *UploadImageRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.File == nil || validator.IsEmpty(r.Filename) {
		errs = append(errs, validator.ValidationError{
			Field:   "image",
			Message: "image file is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}
