package medicalrecord

import (
	"context"
	"errors"
	"testing"
	"time"
)

type mockRepo struct {
	nextID  int64
	records map[int64]*MedicalRecord
}

func newMockRepo() *mockRepo {
	return &mockRepo{records: make(map[int64]*MedicalRecord)}
}

func (m *mockRepo) Create(_ context.Context, rec *MedicalRecord) error {
	for _, other := range m.records {
		if other.AppointmentID == rec.AppointmentID {
			return ErrDuplicateRecord
		}
	}
	m.nextID++
	rec.ID = m.nextID
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *mockRepo) Update(_ context.Context, rec *MedicalRecord) error {
	if _, ok := m.records[rec.ID]; !ok {
		return ErrNotFound
	}
	cp := *rec
	m.records[rec.ID] = &cp
	return nil
}

func (m *mockRepo) FindByID(_ context.Context, id int64) (*MedicalRecord, error) {
	rec, ok := m.records[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *rec
	return &cp, nil
}

func (m *mockRepo) FindByAppointment(_ context.Context, appointmentID int64) (*MedicalRecord, error) {
	for _, rec := range m.records {
		if rec.AppointmentID == appointmentID {
			cp := *rec
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) ListByPatient(_ context.Context, patientID int64, limit, offset int) ([]*MedicalRecord, int, error) {
	var result []*MedicalRecord
	for _, rec := range m.records {
		if rec.PatientID == patientID {
			cp := *rec
			result = append(result, &cp)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, doctorID int64, limit, offset int) ([]*MedicalRecord, int, error) {
	var result []*MedicalRecord
	for _, rec := range m.records {
		if rec.DoctorID == doctorID {
			cp := *rec
			result = append(result, &cp)
		}
	}
	return result, len(result), nil
}

func (m *mockRepo) ListFollowUpRequired(_ context.Context, limit, offset int) ([]*MedicalRecord, int, error) {
	var result []*MedicalRecord
	for _, rec := range m.records {
		if rec.FollowUpRequired {
			cp := *rec
			result = append(result, &cp)
		}
	}
	return result, len(result), nil
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func visitDate() time.Time {
	return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
}

func validRecord() *MedicalRecord {
	return &MedicalRecord{
		AppointmentID: 1,
		PatientID:     1,
		DoctorID:      1,
		VisitDate:     visitDate(),
		ClinicalNotes: "routine examination",
		Diagnosis:     "seasonal allergies",
	}
}

func TestRecord(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil, nil)
	rec := validRecord()
	if err := svc.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec.ID == 0 {
		t.Error("expected store-assigned ID")
	}
}

func TestRecord_DuplicateAppointment(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil, nil)
	ctx := context.Background()
	if err := svc.Record(ctx, validRecord()); err != nil {
		t.Fatalf("first record: %v", err)
	}
	err := svc.Record(ctx, validRecord())
	if !errors.Is(err, ErrDuplicateRecord) {
		t.Fatalf("want ErrDuplicateRecord, got %v", err)
	}
}

func TestRecord_FollowUpValidation(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil, nil)
	ctx := context.Background()

	rec := validRecord()
	rec.FollowUpRequired = true
	err := svc.Record(ctx, rec)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "follow_up_date" {
		t.Fatalf("missing date: want follow_up_date validation error, got %v", err)
	}

	rec = validRecord()
	rec.FollowUpRequired = true
	before := visitDate().Add(-24 * time.Hour)
	rec.FollowUpDate = &before
	err = svc.Record(ctx, rec)
	if !errors.As(err, &ve) || ve.Field != "follow_up_date" {
		t.Fatalf("date before visit: want follow_up_date validation error, got %v", err)
	}

	rec = validRecord()
	rec.FollowUpRequired = true
	after := visitDate().Add(14 * 24 * time.Hour)
	rec.FollowUpDate = &after
	if err := svc.Record(ctx, rec); err != nil {
		t.Fatalf("valid follow-up rejected: %v", err)
	}
}

func TestRecord_BlankDiagnosis(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil, nil)
	rec := validRecord()
	rec.Diagnosis = "  "
	err := svc.Record(context.Background(), rec)
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "diagnosis" {
		t.Fatalf("want diagnosis validation error, got %v", err)
	}
}

func TestGetByAppointment(t *testing.T) {
	svc := NewService(newMockRepo(), nil, nil, nil)
	ctx := context.Background()
	rec := validRecord()
	svc.Record(ctx, rec)

	got, err := svc.GetByAppointment(ctx, 1)
	if err != nil {
		t.Fatalf("GetByAppointment: %v", err)
	}
	if got.ID != rec.ID {
		t.Errorf("id = %d, want %d", got.ID, rec.ID)
	}

	if _, err := svc.GetByAppointment(ctx, 999); !errors.Is(err, ErrNotFound) {
		t.Errorf("want ErrNotFound, got %v", err)
	}
}

func TestListFollowUps(t *testing.T) {
	repo := newMockRepo()
	now := visitDate().Add(10 * 24 * time.Hour)
	svc := NewService(repo, nil, nil, fixedClock{now: now})
	ctx := context.Background()

	// Overdue: follow-up date 7 days after visit, now is 10 days after.
	r1 := validRecord()
	r1.FollowUpRequired = true
	d1 := visitDate().Add(7 * 24 * time.Hour)
	r1.FollowUpDate = &d1
	svc.Record(ctx, r1)

	// Not yet due: 14 days after visit.
	r2 := validRecord()
	r2.AppointmentID = 2
	r2.FollowUpRequired = true
	d2 := visitDate().Add(14 * 24 * time.Hour)
	r2.FollowUpDate = &d2
	svc.Record(ctx, r2)

	// No follow-up at all.
	r3 := validRecord()
	r3.AppointmentID = 3
	svc.Record(ctx, r3)

	all, total, err := svc.ListFollowUps(ctx, false, 50, 0)
	if err != nil {
		t.Fatalf("ListFollowUps: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("all follow-ups: total = %d len = %d, want 2/2", total, len(all))
	}

	overdue, total, err := svc.ListFollowUps(ctx, true, 50, 0)
	if err != nil {
		t.Fatalf("ListFollowUps overdue: %v", err)
	}
	if total != 1 || len(overdue) != 1 {
		t.Fatalf("overdue: total = %d len = %d, want 1/1", total, len(overdue))
	}
	if overdue[0].AppointmentID != 1 {
		t.Errorf("overdue appointment = %d, want 1", overdue[0].AppointmentID)
	}
}

type mockVisitMarker struct {
	patientID int64
	visited   time.Time
}

func (m *mockVisitMarker) SetLastVisit(_ context.Context, patientID int64, visited time.Time) error {
	m.patientID = patientID
	m.visited = visited
	return nil
}

func TestRecord_StampsLastVisit(t *testing.T) {
	marker := &mockVisitMarker{}
	passthrough := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return fn(ctx)
	}
	svc := NewService(newMockRepo(), marker, passthrough, nil)

	rec := validRecord()
	rec.PatientID = 7
	if err := svc.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if marker.patientID != 7 || !marker.visited.Equal(rec.VisitDate) {
		t.Errorf("visit stamp = %d@%v, want 7@%v", marker.patientID, marker.visited, rec.VisitDate)
	}
}

func TestFollowUpUpcoming(t *testing.T) {
	rec := validRecord()
	rec.FollowUpRequired = true
	d := visitDate().Add(5 * 24 * time.Hour)
	rec.FollowUpDate = &d

	now := visitDate()
	if !rec.FollowUpUpcoming(now) {
		t.Error("follow-up within seven days must be upcoming")
	}
	if rec.FollowUpOverdue(now) {
		t.Error("future follow-up must not be overdue")
	}

	late := visitDate().Add(6 * 24 * time.Hour)
	if !rec.FollowUpOverdue(late) {
		t.Error("passed follow-up must be overdue")
	}
}
