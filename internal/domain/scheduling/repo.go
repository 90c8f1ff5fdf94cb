package scheduling

import (
	"context"
	"time"
)

// AppointmentRepository is the persistence gateway for appointments. The
// store is the final arbiter of the no-double-booking invariant: Create must
// enforce it atomically as part of the write and return ErrSlotConflict when
// the insert loses, independent of any earlier advisory check.
type AppointmentRepository interface {
	// Create persists a new appointment and fills in its store-assigned ID
	// and timestamps. Returns ErrSlotConflict on a uniqueness/overlap
	// violation.
	Create(ctx context.Context, a *Appointment) error

	// UpdateStatus persists a status transition. Only rows still in
	// Scheduled accept a transition; returns ErrNotFound when no such row
	// matched, which callers treat as a lost race or a missing row.
	UpdateStatus(ctx context.Context, a *Appointment) error

	FindByID(ctx context.Context, id int64) (*Appointment, error)

	// FindByDoctorAndDateRange returns the doctor's appointments with
	// start_time in [from, to), every status included, ordered by start.
	FindByDoctorAndDateRange(ctx context.Context, doctorID int64, from, to time.Time) ([]*Appointment, error)

	FindByPatient(ctx context.Context, patientID int64) ([]*Appointment, error)

	// CountActiveForDoctorOnDate counts non-cancelled, non-no-show
	// appointments for the doctor on day's calendar date.
	CountActiveForDoctorOnDate(ctx context.Context, doctorID int64, day time.Time) (int, error)
}

// DoctorInfo is the capacity-relevant slice of a doctor record.
type DoctorInfo struct {
	ID                int64
	IsActive          bool
	MaxPatientsPerDay int
}

// DoctorDirectory looks up doctors for availability decisions.
type DoctorDirectory interface {
	// GetDoctor returns ErrNotFound when the doctor does not exist.
	GetDoctor(ctx context.Context, doctorID int64) (*DoctorInfo, error)
}
