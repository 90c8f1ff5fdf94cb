package scheduling

import (
	"context"
	"time"
)

// CapacityTracker answers how much of a doctor's daily booking allowance
// is already consumed. Cancelled and no-show appointments do not count.
type CapacityTracker struct {
	appts AppointmentRepository
}

func NewCapacityTracker(appts AppointmentRepository) *CapacityTracker {
	return &CapacityTracker{appts: appts}
}

func (t *CapacityTracker) CountBookedOnDay(ctx context.Context, doctorID int64, day time.Time) (int, error) {
	return t.appts.CountActiveForDoctorOnDate(ctx, doctorID, day)
}

// IsAtCapacity reports whether booking one more appointment on day would
// exceed the doctor's daily limit. A non-positive limit means unlimited.
func (t *CapacityTracker) IsAtCapacity(ctx context.Context, doc *DoctorInfo, day time.Time) (bool, error) {
	if doc.MaxPatientsPerDay <= 0 {
		return false, nil
	}
	n, err := t.CountBookedOnDay(ctx, doc.ID, day)
	if err != nil {
		return false, err
	}
	return n >= doc.MaxPatientsPerDay, nil
}
