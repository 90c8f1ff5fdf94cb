package scheduling

import (
	"errors"
	"fmt"
)

// Reason identifies which business rule blocked an operation.
type Reason string

const (
	ReasonSlotOverlap      Reason = "slot_overlap"
	ReasonCapacityExceeded Reason = "capacity_exceeded"
	ReasonDoctorInactive   Reason = "doctor_inactive"
	ReasonInvalidState     Reason = "invalid_state"
)

// ErrNotFound is returned when a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrSlotConflict is reported by the persistence gateway when an insert loses
// to the store's uniqueness/overlap constraint. The store's verdict is
// authoritative regardless of what the advisory availability check said.
var ErrSlotConflict = errors.New("slot conflict")

// ValidationError rejects malformed input before any I/O happens.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// RuleError is an expected, recoverable business-rule rejection. The caller
// can pick another slot or action; it is never retried automatically.
type RuleError struct {
	Reason Reason
	Msg    string
}

func (e *RuleError) Error() string {
	if e.Msg == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Msg)
}

// InfraError wraps unexpected persistence failures (timeouts, lost
// connections). Callers may retry with backoff.
type InfraError struct {
	Op  string
	Err error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *InfraError) Unwrap() error { return e.Err }
