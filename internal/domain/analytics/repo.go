package analytics

import (
	"context"
	"time"
)

// Repository reads aggregate projections. All queries are read-only;
// aggregation happens in the store.
type Repository interface {
	AppointmentStatistics(ctx context.Context, from, to time.Time) (*AppointmentStatistics, error)
	DoctorPerformance(ctx context.Context, doctorID int64) ([]*DoctorPerformance, error)
	SpecializationStatistics(ctx context.Context) ([]*SpecializationStatistics, error)
	HourlyLoad(ctx context.Context) ([]*HourlyLoad, error)
}
