package scheduling

import (
	"strings"
	"time"
)

// Status is the lifecycle state of an appointment.
type Status string

const (
	StatusScheduled Status = "Scheduled"
	StatusCompleted Status = "Completed"
	StatusCancelled Status = "Cancelled"
	StatusNoShow    Status = "No-Show"
)

// Valid reports whether s is one of the defined statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transitions may leave s.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// Active reports whether the appointment still claims its slot and counts
// toward daily capacity. Cancelled and no-show appointments do not.
func (s Status) Active() bool {
	return s != StatusCancelled && s != StatusNoShow
}

// MaxDurationMinutes caps a single appointment at eight hours.
const MaxDurationMinutes = 480

// Appointment maps to the appointments table. IDs are assigned by the store
// on creation, never by callers.
type Appointment struct {
	ID                 int64      `db:"id" json:"id"`
	PatientID          int64      `db:"patient_id" json:"patient_id"`
	DoctorID           int64      `db:"doctor_id" json:"doctor_id"`
	StartTime          time.Time  `db:"start_time" json:"start_time"`
	DurationMinutes    int        `db:"duration_minutes" json:"duration_minutes"`
	ReasonForVisit     string     `db:"reason_for_visit" json:"reason_for_visit"`
	Status             Status     `db:"status" json:"status"`
	Notes              *string    `db:"notes" json:"notes,omitempty"`
	CancellationReason *string    `db:"cancellation_reason" json:"cancellation_reason,omitempty"`
	CancellationTime   *time.Time `db:"cancellation_time" json:"cancellation_time,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at" json:"updated_at"`
}

// EndTime returns the exclusive end of the appointment interval.
func (a *Appointment) EndTime() time.Time {
	return a.StartTime.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

func (a *Appointment) IsPast(now time.Time) bool { return a.StartTime.Before(now) }

func (a *Appointment) IsFuture(now time.Time) bool { return a.StartTime.After(now) }

// Validate checks the appointment payload before any I/O.
func (a *Appointment) Validate() error {
	if a.PatientID <= 0 {
		return &ValidationError{Field: "patient_id", Msg: "must be positive"}
	}
	if a.DoctorID <= 0 {
		return &ValidationError{Field: "doctor_id", Msg: "must be positive"}
	}
	if a.StartTime.IsZero() {
		return &ValidationError{Field: "start_time", Msg: "is required"}
	}
	if a.DurationMinutes <= 0 || a.DurationMinutes > MaxDurationMinutes {
		return &ValidationError{Field: "duration_minutes", Msg: "must be between 1 and 480"}
	}
	if strings.TrimSpace(a.ReasonForVisit) == "" {
		return &ValidationError{Field: "reason_for_visit", Msg: "must not be blank"}
	}
	if !a.Status.Valid() {
		return &ValidationError{Field: "status", Msg: "unknown status"}
	}
	return nil
}

// OverlapsWith reports whether the two appointments share any instant.
// Intervals are half-open, so one ending exactly when the other starts does
// not overlap. Cancelled and no-show appointments never block a slot.
func (a *Appointment) OverlapsWith(other *Appointment) bool {
	if other == nil || !other.Status.Active() {
		return false
	}
	return other.EndTime().After(a.StartTime) && other.StartTime.Before(a.EndTime())
}
