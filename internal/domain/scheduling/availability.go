package scheduling

import (
	"context"
	"time"
)

// AvailabilityResult is the advisory answer to "can this slot be booked".
// When Available is false, Reason names the first rule that failed.
type AvailabilityResult struct {
	Available bool   `json:"available"`
	Reason    Reason `json:"reason,omitempty"`
}

// AvailabilityChecker evaluates the booking rules for a candidate slot.
// Its answer is advisory: concurrent bookings are settled by the store's
// constraints, not by this check.
type AvailabilityChecker struct {
	doctors  DoctorDirectory
	appts    AppointmentRepository
	capacity *CapacityTracker
}

func NewAvailabilityChecker(doctors DoctorDirectory, appts AppointmentRepository, capacity *CapacityTracker) *AvailabilityChecker {
	return &AvailabilityChecker{doctors: doctors, appts: appts, capacity: capacity}
}

// CheckAvailability applies the rules in order: doctor must be active, the
// slot must not overlap an active appointment, and the doctor's daily
// capacity must not be full.
func (c *AvailabilityChecker) CheckAvailability(ctx context.Context, doctorID int64, start time.Time, durationMinutes int) (AvailabilityResult, error) {
	doc, err := c.doctors.GetDoctor(ctx, doctorID)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if !doc.IsActive {
		return AvailabilityResult{Reason: ReasonDoctorInactive}, nil
	}

	candidate := &Appointment{
		DoctorID:        doctorID,
		StartTime:       start,
		DurationMinutes: durationMinutes,
		Status:          StatusScheduled,
	}

	// Any appointment overlapping [start, start+duration) must itself start
	// within (start - max duration, start + duration), so that window bounds
	// the fetch.
	windowStart := start.Add(-MaxDurationMinutes * time.Minute)
	windowEnd := candidate.EndTime()
	existing, err := c.appts.FindByDoctorAndDateRange(ctx, doctorID, windowStart, windowEnd)
	if err != nil {
		return AvailabilityResult{}, err
	}
	for _, other := range existing {
		if candidate.OverlapsWith(other) {
			return AvailabilityResult{Reason: ReasonSlotOverlap}, nil
		}
	}

	full, err := c.capacity.IsAtCapacity(ctx, doc, start)
	if err != nil {
		return AvailabilityResult{}, err
	}
	if full {
		return AvailabilityResult{Reason: ReasonCapacityExceeded}, nil
	}
	return AvailabilityResult{Available: true}, nil
}
