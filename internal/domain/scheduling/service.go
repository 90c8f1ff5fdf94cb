package scheduling

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Service implements appointment booking and lifecycle transitions.
type Service struct {
	appts   AppointmentRepository
	doctors DoctorDirectory
	checker *AvailabilityChecker
	clock   Clock
}

func NewService(appts AppointmentRepository, doctors DoctorDirectory, clock Clock) *Service {
	if clock == nil {
		clock = SystemClock
	}
	tracker := NewCapacityTracker(appts)
	return &Service{
		appts:   appts,
		doctors: doctors,
		checker: NewAvailabilityChecker(doctors, appts, tracker),
		clock:   clock,
	}
}

// ScheduleRequest carries the caller-supplied fields of a new appointment.
type ScheduleRequest struct {
	PatientID       int64     `json:"patient_id"`
	DoctorID        int64     `json:"doctor_id"`
	StartTime       time.Time `json:"start_time"`
	DurationMinutes int       `json:"duration_minutes"`
	ReasonForVisit  string    `json:"reason_for_visit"`
	Notes           *string   `json:"notes,omitempty"`
}

// ScheduleAppointment books a new appointment. The availability check is
// advisory; the store's constraints are authoritative, so a slot lost to a
// concurrent booking surfaces as the same slot-overlap rule error the
// pre-check would have produced.
func (s *Service) ScheduleAppointment(ctx context.Context, req ScheduleRequest) (*Appointment, error) {
	appt := &Appointment{
		PatientID:       req.PatientID,
		DoctorID:        req.DoctorID,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		ReasonForVisit:  strings.TrimSpace(req.ReasonForVisit),
		Notes:           req.Notes,
		Status:          StatusScheduled,
	}
	if err := appt.Validate(); err != nil {
		return nil, err
	}
	if appt.IsPast(s.clock.Now()) {
		return nil, &ValidationError{Field: "start_time", Msg: "appointment cannot start in the past"}
	}

	res, err := s.checker.CheckAvailability(ctx, appt.DoctorID, appt.StartTime, appt.DurationMinutes)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, &ValidationError{Field: "doctor_id", Msg: "doctor not found"}
		}
		return nil, &InfraError{Op: "check availability", Err: err}
	}
	if !res.Available {
		return nil, ruleError(res.Reason)
	}

	if err := s.appts.Create(ctx, appt); err != nil {
		if errors.Is(err, ErrSlotConflict) {
			return nil, ruleError(ReasonSlotOverlap)
		}
		return nil, &InfraError{Op: "create appointment", Err: err}
	}
	return appt, nil
}

// CancelAppointment moves a scheduled appointment to Cancelled, recording
// the reason and cancellation time.
func (s *Service) CancelAppointment(ctx context.Context, id int64, reason string) (*Appointment, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &ValidationError{Field: "cancellation_reason", Msg: "cancellation reason is required"}
	}
	return s.transition(ctx, id, StatusCancelled, func(a *Appointment) {
		now := s.clock.Now()
		a.CancellationReason = &reason
		a.CancellationTime = &now
	})
}

// CompleteAppointment moves a scheduled appointment to Completed, optionally
// attaching visit notes.
func (s *Service) CompleteAppointment(ctx context.Context, id int64, notes *string) (*Appointment, error) {
	return s.transition(ctx, id, StatusCompleted, func(a *Appointment) {
		if notes != nil {
			a.Notes = notes
		}
	})
}

// MarkNoShow moves a scheduled appointment to No-Show.
func (s *Service) MarkNoShow(ctx context.Context, id int64) (*Appointment, error) {
	return s.transition(ctx, id, StatusNoShow, nil)
}

func (s *Service) transition(ctx context.Context, id int64, target Status, mutate func(*Appointment)) (*Appointment, error) {
	appt, err := s.GetAppointment(ctx, id)
	if err != nil {
		return nil, err
	}
	if appt.Status.Terminal() {
		return nil, ruleError(ReasonInvalidState)
	}

	appt.Status = target
	appt.UpdatedAt = s.clock.Now()
	if mutate != nil {
		mutate(appt)
	}
	if err := s.appts.UpdateStatus(ctx, appt); err != nil {
		// The row existed a moment ago, so a miss means a concurrent
		// transition already moved it out of Scheduled.
		if errors.Is(err, ErrNotFound) {
			return nil, ruleError(ReasonInvalidState)
		}
		return nil, &InfraError{Op: "update appointment status", Err: err}
	}
	return appt, nil
}

func (s *Service) GetAppointment(ctx context.Context, id int64) (*Appointment, error) {
	appt, err := s.appts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, &InfraError{Op: "find appointment", Err: err}
	}
	return appt, nil
}

// GetDoctorSchedule returns a doctor's appointments with start times in
// [from, to), every status included, ordered by start time. Equal bounds
// are a valid, empty range.
func (s *Service) GetDoctorSchedule(ctx context.Context, doctorID int64, from, to time.Time) ([]*Appointment, error) {
	if to.Before(from) {
		return nil, &ValidationError{Field: "to", Msg: "end of range must not precede start"}
	}
	items, err := s.appts.FindByDoctorAndDateRange(ctx, doctorID, from, to)
	if err != nil {
		return nil, &InfraError{Op: "find doctor schedule", Err: err}
	}
	return items, nil
}

func (s *Service) GetPatientAppointments(ctx context.Context, patientID int64) ([]*Appointment, error) {
	items, err := s.appts.FindByPatient(ctx, patientID)
	if err != nil {
		return nil, &InfraError{Op: "find patient appointments", Err: err}
	}
	return items, nil
}

// CheckAvailability exposes the advisory availability check.
func (s *Service) CheckAvailability(ctx context.Context, doctorID int64, start time.Time, durationMinutes int) (AvailabilityResult, error) {
	res, err := s.checker.CheckAvailability(ctx, doctorID, start, durationMinutes)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return AvailabilityResult{}, ErrNotFound
		}
		return AvailabilityResult{}, &InfraError{Op: "check availability", Err: err}
	}
	return res, nil
}

func ruleError(reason Reason) *RuleError {
	switch reason {
	case ReasonSlotOverlap:
		return &RuleError{Reason: reason, Msg: "the requested slot overlaps an existing appointment"}
	case ReasonCapacityExceeded:
		return &RuleError{Reason: reason, Msg: "the doctor has reached the daily appointment limit"}
	case ReasonDoctorInactive:
		return &RuleError{Reason: reason, Msg: "the doctor is not accepting appointments"}
	default:
		return &RuleError{Reason: ReasonInvalidState, Msg: "the appointment is not in a state that allows this change"}
	}
}
