package scheduling

import (
	"testing"
	"time"
)

func baseTime() time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func TestStatus_Terminal(t *testing.T) {
	if StatusScheduled.Terminal() {
		t.Error("Scheduled must not be terminal")
	}
	for _, s := range []Status{StatusCompleted, StatusCancelled, StatusNoShow} {
		if !s.Terminal() {
			t.Errorf("%s must be terminal", s)
		}
	}
}

func TestStatus_Active(t *testing.T) {
	if !StatusScheduled.Active() || !StatusCompleted.Active() {
		t.Error("Scheduled and Completed must count as active")
	}
	if StatusCancelled.Active() || StatusNoShow.Active() {
		t.Error("Cancelled and No-Show must not count as active")
	}
}

func TestAppointment_EndTime(t *testing.T) {
	a := &Appointment{StartTime: baseTime(), DurationMinutes: 30}
	want := baseTime().Add(30 * time.Minute)
	if !a.EndTime().Equal(want) {
		t.Errorf("EndTime = %v, want %v", a.EndTime(), want)
	}
}

func TestAppointment_OverlapsWith(t *testing.T) {
	mk := func(start time.Time, dur int, status Status) *Appointment {
		return &Appointment{StartTime: start, DurationMinutes: dur, Status: status}
	}
	a := mk(baseTime(), 30, StatusScheduled)

	cases := []struct {
		name  string
		other *Appointment
		want  bool
	}{
		{"identical slot", mk(baseTime(), 30, StatusScheduled), true},
		{"partial overlap", mk(baseTime().Add(15*time.Minute), 30, StatusScheduled), true},
		{"contained", mk(baseTime().Add(5*time.Minute), 10, StatusScheduled), true},
		{"back to back after", mk(baseTime().Add(30*time.Minute), 30, StatusScheduled), false},
		{"back to back before", mk(baseTime().Add(-30*time.Minute), 30, StatusScheduled), false},
		{"one minute in", mk(baseTime().Add(29*time.Minute), 30, StatusScheduled), true},
		{"cancelled never blocks", mk(baseTime(), 30, StatusCancelled), false},
		{"no-show never blocks", mk(baseTime(), 30, StatusNoShow), false},
		{"completed still blocks", mk(baseTime(), 30, StatusCompleted), true},
		{"nil other", nil, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.OverlapsWith(tc.other); got != tc.want {
				t.Errorf("OverlapsWith = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAppointment_Validate(t *testing.T) {
	valid := func() *Appointment {
		return &Appointment{
			PatientID:       1,
			DoctorID:        2,
			StartTime:       baseTime(),
			DurationMinutes: 30,
			ReasonForVisit:  "checkup",
			Status:          StatusScheduled,
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid appointment rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Appointment)
		field  string
	}{
		{"zero patient", func(a *Appointment) { a.PatientID = 0 }, "patient_id"},
		{"negative doctor", func(a *Appointment) { a.DoctorID = -1 }, "doctor_id"},
		{"zero start", func(a *Appointment) { a.StartTime = time.Time{} }, "start_time"},
		{"zero duration", func(a *Appointment) { a.DurationMinutes = 0 }, "duration_minutes"},
		{"over max duration", func(a *Appointment) { a.DurationMinutes = 481 }, "duration_minutes"},
		{"blank reason", func(a *Appointment) { a.ReasonForVisit = "   " }, "reason_for_visit"},
		{"bad status", func(a *Appointment) { a.Status = "Pending" }, "status"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := valid()
			tc.mutate(a)
			err := a.Validate()
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("want ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("field = %s, want %s", ve.Field, tc.field)
			}
		})
	}

	t.Run("max duration allowed", func(t *testing.T) {
		a := valid()
		a.DurationMinutes = MaxDurationMinutes
		if err := a.Validate(); err != nil {
			t.Errorf("480 minute appointment rejected: %v", err)
		}
	})
}
