package patient

import (
	"context"
	"time"
)

// Repository is the persistence gateway for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	Update(ctx context.Context, p *Patient) error
	FindByID(ctx context.Context, id int64) (*Patient, error)
	FindByPhone(ctx context.Context, phoneNumber string) (*Patient, error)
	ListActive(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	SearchByName(ctx context.Context, name string, limit, offset int) ([]*Patient, int, error)
	SetLastVisit(ctx context.Context, id int64, visited time.Time) error
}
