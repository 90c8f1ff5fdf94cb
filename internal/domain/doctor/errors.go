package doctor

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the doctor does not exist.
	ErrNotFound = errors.New("doctor not found")

	// ErrDuplicateLicense is returned when another doctor already holds the
	// license number.
	ErrDuplicateLicense = errors.New("license number already registered")
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
