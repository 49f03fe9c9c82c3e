package utils

import (
	"errors"
	"fmt"
)

// Sentinel errors matched with errors.Is across handlers and workflows.
// Handlers map them to HTTP statuses: validation 400, conflict 409,
// not found 404, anything else 500.
var (
	ErrorRecordNotFound = errors.New("record not found")
	ErrorValidation     = errors.New("validation error")
	ErrorConflict       = errors.New("conflict")
)

func ValidationErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorValidation, fmt.Sprintf(format, args...))
}

func ConflictErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrorConflict, fmt.Sprintf(format, args...))
}

func IsValidation(err error) bool {
	return errors.Is(err, ErrorValidation)
}

func IsConflict(err error) bool {
	return errors.Is(err, ErrorConflict)
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrorRecordNotFound)
}
