package doctor

import (
	"context"
	"errors"

	"github.com/hospitalnet/hospitalnet/internal/domain/scheduling"
)

// Directory adapts the doctor repository to the lookup interface the
// scheduling package consumes for availability decisions.
type Directory struct {
	repo Repository
}

func NewDirectory(repo Repository) *Directory {
	return &Directory{repo: repo}
}

func (d *Directory) GetDoctor(ctx context.Context, doctorID int64) (*scheduling.DoctorInfo, error) {
	doc, err := d.repo.FindByID(ctx, doctorID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, scheduling.ErrNotFound
		}
		return nil, err
	}
	return &scheduling.DoctorInfo{
		ID:                doc.ID,
		IsActive:          doc.IsActive,
		MaxPatientsPerDay: doc.MaxPatientsPerDay,
	}, nil
}
