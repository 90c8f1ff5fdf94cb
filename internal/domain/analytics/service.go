package analytics

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidRange is returned when the requested date range is empty or
// reversed.
var ErrInvalidRange = errors.New("end of range must be after start")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) AppointmentStatistics(ctx context.Context, from, to time.Time) (*AppointmentStatistics, error) {
	if !to.After(from) {
		return nil, ErrInvalidRange
	}
	return s.repo.AppointmentStatistics(ctx, from, to)
}

// DoctorPerformance returns metrics for one doctor, or for every doctor when
// doctorID is zero.
func (s *Service) DoctorPerformance(ctx context.Context, doctorID int64) ([]*DoctorPerformance, error) {
	return s.repo.DoctorPerformance(ctx, doctorID)
}

func (s *Service) SpecializationStatistics(ctx context.Context) ([]*SpecializationStatistics, error) {
	return s.repo.SpecializationStatistics(ctx)
}

func (s *Service) HourlyLoad(ctx context.Context) ([]*HourlyLoad, error) {
	return s.repo.HourlyLoad(ctx)
}
