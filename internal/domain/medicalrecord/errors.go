package medicalrecord

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the record does not exist.
	ErrNotFound = errors.New("medical record not found")

	// ErrDuplicateRecord is returned when the appointment already has a
	// record.
	ErrDuplicateRecord = errors.New("appointment already documented")
)

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
