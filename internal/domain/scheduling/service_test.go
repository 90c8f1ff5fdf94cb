package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// -- Mocks --

// mockApptRepo mimics the store's behavior, including the constraint that
// settles concurrent bookings: the overlap check and the insert happen under
// one lock, so at most one of two racing writes for the same slot succeeds.
type mockApptRepo struct {
	mu     sync.Mutex
	nextID int64
	appts  map[int64]*Appointment
}

func newMockApptRepo() *mockApptRepo {
	return &mockApptRepo{appts: make(map[int64]*Appointment)}
}

func (m *mockApptRepo) Create(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, other := range m.appts {
		if other.DoctorID == a.DoctorID && a.OverlapsWith(other) {
			return ErrSlotConflict
		}
	}
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockApptRepo) UpdateStatus(_ context.Context, a *Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.appts[a.ID]
	if !ok || stored.Status != StatusScheduled {
		return ErrNotFound
	}
	cp := *a
	m.appts[a.ID] = &cp
	return nil
}

func (m *mockApptRepo) FindByID(_ context.Context, id int64) (*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.appts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockApptRepo) FindByDoctorAndDateRange(_ context.Context, doctorID int64, from, to time.Time) ([]*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Appointment
	for _, a := range m.appts {
		if a.DoctorID == doctorID && !a.StartTime.Before(from) && a.StartTime.Before(to) {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockApptRepo) FindByPatient(_ context.Context, patientID int64) ([]*Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []*Appointment
	for _, a := range m.appts {
		if a.PatientID == patientID {
			cp := *a
			result = append(result, &cp)
		}
	}
	return result, nil
}

func (m *mockApptRepo) CountActiveForDoctorOnDate(_ context.Context, doctorID int64, day time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	y, mo, d := day.UTC().Date()
	count := 0
	for _, a := range m.appts {
		ay, amo, ad := a.StartTime.UTC().Date()
		if a.DoctorID == doctorID && a.Status.Active() && ay == y && amo == mo && ad == d {
			count++
		}
	}
	return count, nil
}

type mockDoctorDirectory struct {
	doctors map[int64]*DoctorInfo
}

func (m *mockDoctorDirectory) GetDoctor(_ context.Context, id int64) (*DoctorInfo, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newTestService(doctors ...*DoctorInfo) (*Service, *mockApptRepo) {
	repo := newMockApptRepo()
	dir := &mockDoctorDirectory{doctors: make(map[int64]*DoctorInfo)}
	for _, d := range doctors {
		dir.doctors[d.ID] = d
	}
	clock := fixedClock{now: baseTime().Add(-24 * time.Hour)}
	return NewService(repo, dir, clock), repo
}

func scheduleReq(doctorID int64, start time.Time) ScheduleRequest {
	return ScheduleRequest{
		PatientID:       1,
		DoctorID:        doctorID,
		StartTime:       start,
		DurationMinutes: 30,
		ReasonForVisit:  "checkup",
	}
}

// -- Scheduling --

func TestScheduleAppointment(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})

	appt, err := svc.ScheduleAppointment(context.Background(), scheduleReq(1, baseTime()))
	if err != nil {
		t.Fatalf("ScheduleAppointment: %v", err)
	}
	if appt.ID == 0 {
		t.Error("expected store-assigned ID")
	}
	if appt.Status != StatusScheduled {
		t.Errorf("status = %s, want Scheduled", appt.Status)
	}
}

func TestScheduleAppointment_RejectsOverlap(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	if _, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime())); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime().Add(15*time.Minute)))
	var re *RuleError
	if !errors.As(err, &re) || re.Reason != ReasonSlotOverlap {
		t.Fatalf("want slot_overlap rule error, got %v", err)
	}
}

func TestScheduleAppointment_BackToBackAllowed(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	if _, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime())); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Starts exactly when the first ends; half-open intervals do not touch.
	if _, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime().Add(30*time.Minute))); err != nil {
		t.Fatalf("back to back booking rejected: %v", err)
	}
}

func TestScheduleAppointment_DifferentDoctorsSameSlot(t *testing.T) {
	svc, _ := newTestService(
		&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10},
		&DoctorInfo{ID: 2, IsActive: true, MaxPatientsPerDay: 10},
	)
	ctx := context.Background()

	if _, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime())); err != nil {
		t.Fatalf("doctor 1: %v", err)
	}
	if _, err := svc.ScheduleAppointment(ctx, scheduleReq(2, baseTime())); err != nil {
		t.Fatalf("doctor 2 same slot rejected: %v", err)
	}
}

func TestScheduleAppointment_InactiveDoctor(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: false, MaxPatientsPerDay: 10})

	_, err := svc.ScheduleAppointment(context.Background(), scheduleReq(1, baseTime()))
	var re *RuleError
	if !errors.As(err, &re) || re.Reason != ReasonDoctorInactive {
		t.Fatalf("want doctor_inactive rule error, got %v", err)
	}
}

func TestScheduleAppointment_UnknownDoctor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ScheduleAppointment(context.Background(), scheduleReq(99, baseTime()))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "doctor_id" {
		t.Fatalf("want doctor_id validation error, got %v", err)
	}
}

func TestScheduleAppointment_PastStart(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})

	_, err := svc.ScheduleAppointment(context.Background(), scheduleReq(1, baseTime().Add(-48*time.Hour)))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "start_time" {
		t.Fatalf("want start_time validation error, got %v", err)
	}
}

func TestScheduleAppointment_CapacityExceeded(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 1})
	ctx := context.Background()

	if _, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime())); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// Non-overlapping slot later the same day; the daily limit blocks it.
	_, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime().Add(2*time.Hour)))
	var re *RuleError
	if !errors.As(err, &re) || re.Reason != ReasonCapacityExceeded {
		t.Fatalf("want capacity_exceeded rule error, got %v", err)
	}
}

func TestScheduleAppointment_CancelFreesCapacityAndSlot(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 1})
	ctx := context.Background()

	appt, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := svc.CancelAppointment(ctx, appt.ID, "patient request"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	// Same doctor, same slot, same day: both the slot and the daily
	// capacity must be free again.
	if _, err := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime())); err != nil {
		t.Fatalf("rebooking cancelled slot rejected: %v", err)
	}
}

func TestScheduleAppointment_ConcurrentSameSlot(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 50})
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(patientID int64) {
			defer wg.Done()
			req := scheduleReq(1, baseTime())
			req.PatientID = patientID
			_, err := svc.ScheduleAppointment(ctx, req)
			results <- err
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	success, conflicts := 0, 0
	for err := range results {
		if err == nil {
			success++
			continue
		}
		var re *RuleError
		if errors.As(err, &re) && re.Reason == ReasonSlotOverlap {
			conflicts++
			continue
		}
		t.Errorf("unexpected error: %v", err)
	}
	if success != 1 {
		t.Errorf("successes = %d, want exactly 1", success)
	}
	if conflicts != n-1 {
		t.Errorf("conflicts = %d, want %d", conflicts, n-1)
	}
}

// -- Lifecycle --

func TestCancelAppointment(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	appt, _ := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	got, err := svc.CancelAppointment(ctx, appt.ID, "patient request")
	if err != nil {
		t.Fatalf("CancelAppointment: %v", err)
	}
	if got.Status != StatusCancelled {
		t.Errorf("status = %s, want Cancelled", got.Status)
	}
	if got.CancellationReason == nil || *got.CancellationReason != "patient request" {
		t.Error("cancellation reason not recorded")
	}
	if got.CancellationTime == nil {
		t.Error("cancellation time not recorded")
	}
}

func TestCancelAppointment_BlankReason(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	appt, _ := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	_, err := svc.CancelAppointment(ctx, appt.ID, "   ")
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "cancellation_reason" {
		t.Fatalf("want cancellation_reason validation error, got %v", err)
	}
}

func TestCompleteAppointment(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	appt, _ := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	notes := "follow up in two weeks"
	got, err := svc.CompleteAppointment(ctx, appt.ID, &notes)
	if err != nil {
		t.Fatalf("CompleteAppointment: %v", err)
	}
	if got.Status != StatusCompleted {
		t.Errorf("status = %s, want Completed", got.Status)
	}
	if got.Notes == nil || *got.Notes != notes {
		t.Error("notes not recorded")
	}
}

func TestMarkNoShow(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	appt, _ := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	got, err := svc.MarkNoShow(ctx, appt.ID)
	if err != nil {
		t.Fatalf("MarkNoShow: %v", err)
	}
	if got.Status != StatusNoShow {
		t.Errorf("status = %s, want No-Show", got.Status)
	}
}

func TestTransition_TerminalStateRejected(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	appt, _ := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	if _, err := svc.CompleteAppointment(ctx, appt.ID, nil); err != nil {
		t.Fatalf("complete: %v", err)
	}

	for name, fn := range map[string]func() error{
		"complete again": func() error { _, err := svc.CompleteAppointment(ctx, appt.ID, nil); return err },
		"cancel":         func() error { _, err := svc.CancelAppointment(ctx, appt.ID, "x"); return err },
		"no-show":        func() error { _, err := svc.MarkNoShow(ctx, appt.ID); return err },
	} {
		err := fn()
		var re *RuleError
		if !errors.As(err, &re) || re.Reason != ReasonInvalidState {
			t.Errorf("%s: want invalid_state rule error, got %v", name, err)
		}
	}
}

func TestTransition_NotFound(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})

	_, err := svc.CancelAppointment(context.Background(), 404, "reason")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

// -- Queries --

func TestGetDoctorSchedule(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	a1, _ := svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime().Add(time.Hour)))
	if _, err := svc.CancelAppointment(ctx, a1.ID, "moved"); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	from := baseTime().Add(-time.Hour)
	to := baseTime().Add(24 * time.Hour)
	items, err := svc.GetDoctorSchedule(ctx, 1, from, to)
	if err != nil {
		t.Fatalf("GetDoctorSchedule: %v", err)
	}
	// Every status appears in the schedule, cancelled included.
	if len(items) != 2 {
		t.Errorf("len = %d, want 2", len(items))
	}
}

func TestGetDoctorSchedule_InvalidRange(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})

	_, err := svc.GetDoctorSchedule(context.Background(), 1, baseTime(), baseTime().Add(-time.Hour))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestGetDoctorSchedule_EqualBounds(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})

	items, err := svc.GetDoctorSchedule(context.Background(), 1, baseTime(), baseTime())
	if err != nil {
		t.Fatalf("GetDoctorSchedule: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("len = %d, want 0", len(items))
	}
}

func TestGetPatientAppointments(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	req := scheduleReq(1, baseTime())
	req.PatientID = 7
	svc.ScheduleAppointment(ctx, req)

	items, err := svc.GetPatientAppointments(ctx, 7)
	if err != nil {
		t.Fatalf("GetPatientAppointments: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("len = %d, want 1", len(items))
	}
}

func TestCapacityTracker_IsAtCapacity(t *testing.T) {
	repo := newMockApptRepo()
	tracker := NewCapacityTracker(repo)
	ctx := context.Background()

	doc := &DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 1}
	full, err := tracker.IsAtCapacity(ctx, doc, baseTime())
	if err != nil {
		t.Fatalf("IsAtCapacity: %v", err)
	}
	if full {
		t.Error("empty day should not be at capacity")
	}

	if err := repo.Create(ctx, &Appointment{
		PatientID:       1,
		DoctorID:        1,
		StartTime:       baseTime(),
		DurationMinutes: 30,
		Status:          StatusScheduled,
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	full, err = tracker.IsAtCapacity(ctx, doc, baseTime())
	if err != nil {
		t.Fatalf("IsAtCapacity: %v", err)
	}
	if !full {
		t.Error("limit 1 with one booking should be at capacity")
	}

	// Non-positive limit means unlimited.
	full, err = tracker.IsAtCapacity(ctx, &DoctorInfo{ID: 1, IsActive: true}, baseTime())
	if err != nil {
		t.Fatalf("IsAtCapacity: %v", err)
	}
	if full {
		t.Error("no limit should never be at capacity")
	}
}

func TestCheckAvailability(t *testing.T) {
	svc, _ := newTestService(&DoctorInfo{ID: 1, IsActive: true, MaxPatientsPerDay: 10})
	ctx := context.Background()

	res, err := svc.CheckAvailability(ctx, 1, baseTime(), 30)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if !res.Available {
		t.Errorf("want available, got reason %s", res.Reason)
	}

	svc.ScheduleAppointment(ctx, scheduleReq(1, baseTime()))
	res, err = svc.CheckAvailability(ctx, 1, baseTime().Add(10*time.Minute), 30)
	if err != nil {
		t.Fatalf("CheckAvailability: %v", err)
	}
	if res.Available || res.Reason != ReasonSlotOverlap {
		t.Errorf("want slot_overlap, got %+v", res)
	}
}
