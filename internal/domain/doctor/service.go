package doctor

import (
	"context"
	"strings"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new active doctor. The license number must be unique;
// the store's constraint settles concurrent registrations.
func (s *Service) Register(ctx context.Context, d *Doctor) error {
	d.LicenseNumber = strings.TrimSpace(d.LicenseNumber)
	if err := d.Validate(); err != nil {
		return err
	}
	d.IsActive = true
	return s.repo.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) GetByLicense(ctx context.Context, licenseNumber string) (*Doctor, error) {
	licenseNumber = strings.TrimSpace(licenseNumber)
	if licenseNumber == "" {
		return nil, &ValidationError{Field: "license_number", Msg: "must not be blank"}
	}
	return s.repo.FindByLicense(ctx, licenseNumber)
}

func (s *Service) Update(ctx context.Context, d *Doctor) error {
	if d.ID <= 0 {
		return &ValidationError{Field: "id", Msg: "must be positive"}
	}
	if err := d.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, d)
}

// Deactivate marks the doctor as no longer accepting appointments. Existing
// appointments are untouched.
func (s *Service) Deactivate(ctx context.Context, id int64) (*Doctor, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return d, nil
	}
	d.IsActive = false
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.repo.ListActive(ctx, limit, offset)
}

func (s *Service) ListBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error) {
	specialization = strings.TrimSpace(specialization)
	if specialization == "" {
		return nil, 0, &ValidationError{Field: "specialization", Msg: "must not be blank"}
	}
	return s.repo.ListBySpecialization(ctx, specialization, limit, offset)
}
