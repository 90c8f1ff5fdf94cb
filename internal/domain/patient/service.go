package patient

import (
	"context"
	"strings"
	"time"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Register creates a new active patient record.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	if err := p.Validate(); err != nil {
		return err
	}
	p.IsActive = true
	return s.repo.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, p *Patient) error {
	if p.ID <= 0 {
		return &ValidationError{Field: "id", Msg: "must be positive"}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Deactivate soft-deletes the patient. The record and its history stay in
// the store.
func (s *Service) Deactivate(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return p, nil
	}
	p.IsActive = false
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) ListActive(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.repo.ListActive(ctx, limit, offset)
}

// SearchByName matches the query against first and last names,
// case-insensitively, substring anywhere.
func (s *Service) SearchByName(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, 0, &ValidationError{Field: "name", Msg: "must not be blank"}
	}
	return s.repo.SearchByName(ctx, name, limit, offset)
}

func (s *Service) FindByPhone(ctx context.Context, phoneNumber string) (*Patient, error) {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return nil, &ValidationError{Field: "phone_number", Msg: "must not be blank"}
	}
	return s.repo.FindByPhone(ctx, phoneNumber)
}

// RecordVisit stamps the patient's last visit date. Called when an
// appointment completes.
func (s *Service) RecordVisit(ctx context.Context, id int64, visited time.Time) error {
	return s.repo.SetLastVisit(ctx, id, visited)
}
