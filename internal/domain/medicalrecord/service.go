package medicalrecord

import (
	"context"
	"time"
)

// Clock supplies the current time for follow-up classification.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// VisitMarker stamps a patient's last visit date. Satisfied by the patient
// repository.
type VisitMarker interface {
	SetLastVisit(ctx context.Context, patientID int64, visited time.Time) error
}

// TxRunner executes fn inside one transaction carried on the context.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	repo   Repository
	visits VisitMarker
	inTx   TxRunner
	clock  Clock
}

func NewService(repo Repository, visits VisitMarker, inTx TxRunner, clock Clock) *Service {
	if clock == nil {
		clock = systemClock{}
	}
	return &Service{repo: repo, visits: visits, inTx: inTx, clock: clock}
}

// Record documents a visit. Each appointment can be documented once; the
// store's constraint settles concurrent writes. When a visit marker is
// wired, the patient's last visit date is stamped in the same transaction.
func (s *Service) Record(ctx context.Context, rec *MedicalRecord) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if s.visits == nil || s.inTx == nil {
		return s.repo.Create(ctx, rec)
	}
	return s.inTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, rec); err != nil {
			return err
		}
		return s.visits.SetLastVisit(ctx, rec.PatientID, rec.VisitDate)
	})
}

func (s *Service) Get(ctx context.Context, id int64) (*MedicalRecord, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByAppointment(ctx context.Context, appointmentID int64) (*MedicalRecord, error) {
	if appointmentID <= 0 {
		return nil, &ValidationError{Field: "appointment_id", Msg: "must be positive"}
	}
	return s.repo.FindByAppointment(ctx, appointmentID)
}

func (s *Service) Update(ctx context.Context, rec *MedicalRecord) error {
	if rec.ID <= 0 {
		return &ValidationError{Field: "id", Msg: "must be positive"}
	}
	if err := rec.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, rec)
}

func (s *Service) ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]*MedicalRecord, int, error) {
	return s.repo.ListByDoctor(ctx, doctorID, limit, offset)
}

// ListFollowUps returns records flagged for follow-up. With overdueOnly set,
// only those whose follow-up date has already passed are returned.
func (s *Service) ListFollowUps(ctx context.Context, overdueOnly bool, limit, offset int) ([]*MedicalRecord, int, error) {
	items, total, err := s.repo.ListFollowUpRequired(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if !overdueOnly {
		return items, total, nil
	}
	now := s.clock.Now()
	var overdue []*MedicalRecord
	for _, rec := range items {
		if rec.FollowUpOverdue(now) {
			overdue = append(overdue, rec)
		}
	}
	return overdue, len(overdue), nil
}
