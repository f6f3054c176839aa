package employee

import "errors"

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmployeeIDExists   = errors.New("employee id already exists")
	ErrQRCodeNotAvailable = errors.New("qr code not available for this employee")
)
