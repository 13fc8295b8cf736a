package shared

import "fmt"

var (
	// Configuration errors
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Domain errors, mapped to HTTP statuses at the request boundary
	ErrValidation   = fmt.Errorf("validation failed")
	ErrConflict     = fmt.Errorf("already exists")
	ErrNotFound     = fmt.Errorf("not found")
	ErrUnauthorized = fmt.Errorf("unauthorized")

	// Input validation errors
	ErrInvalidFlag = fmt.Errorf("invalid flag value")
)
