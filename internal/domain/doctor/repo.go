package doctor

import "context"

// Repository is the persistence gateway for doctors. The license_number
// unique constraint is enforced by the store; Create and Update return
// ErrDuplicateLicense when it is violated.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	Update(ctx context.Context, d *Doctor) error
	FindByID(ctx context.Context, id int64) (*Doctor, error)
	FindByLicense(ctx context.Context, licenseNumber string) (*Doctor, error)
	ListActive(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	ListBySpecialization(ctx context.Context, specialization string, limit, offset int) ([]*Doctor, int, error)
}
