package patient

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the patient does not exist.
var ErrNotFound = errors.New("patient not found")

type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}
