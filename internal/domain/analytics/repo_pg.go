package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) AppointmentStatistics(ctx context.Context, from, to time.Time) (*AppointmentStatistics, error) {
	stats := &AppointmentStatistics{StartDate: from, EndDate: to}
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE status = 'Scheduled'),
			COUNT(*) FILTER (WHERE status = 'Completed'),
			COUNT(*) FILTER (WHERE status = 'Cancelled'),
			COUNT(*) FILTER (WHERE status = 'No-Show')
		FROM appointments
		WHERE start_time >= $1 AND start_time < $2`, from, to).
		Scan(&stats.Total, &stats.Scheduled, &stats.Completed, &stats.Cancelled, &stats.NoShow)
	if err != nil {
		return nil, err
	}
	stats.CompletionRate = rate(stats.Completed, stats.Total)
	stats.CancellationRate = rate(stats.Cancelled, stats.Total)
	return stats, nil
}

func (r *repoPG) DoctorPerformance(ctx context.Context, doctorID int64) ([]*DoctorPerformance, error) {
	query := `
		SELECT d.id, d.first_name, d.last_name, d.specialization,
			COUNT(a.id),
			COUNT(a.id) FILTER (WHERE a.status = 'Completed'),
			COUNT(a.id) FILTER (WHERE a.status = 'Cancelled'),
			COUNT(a.id) FILTER (WHERE a.status = 'No-Show'),
			COALESCE(AVG(a.duration_minutes) FILTER (WHERE a.status = 'Completed'), 0)::int,
			COUNT(DISTINCT a.patient_id) FILTER (WHERE a.status = 'Completed')
		FROM doctors d
		LEFT JOIN appointments a ON a.doctor_id = d.id`
	args := []interface{}{}
	if doctorID > 0 {
		query += ` WHERE d.id = $1`
		args = append(args, doctorID)
	}
	query += ` GROUP BY d.id, d.first_name, d.last_name, d.specialization
		ORDER BY d.last_name, d.first_name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*DoctorPerformance
	for rows.Next() {
		var p DoctorPerformance
		if err := rows.Scan(&p.DoctorID, &p.FirstName, &p.LastName, &p.Specialization,
			&p.Total, &p.Completed, &p.Cancelled, &p.NoShow,
			&p.AvgDurationMins, &p.PatientsSeen); err != nil {
			return nil, err
		}
		items = append(items, &p)
	}
	return items, rows.Err()
}

func (r *repoPG) SpecializationStatistics(ctx context.Context) ([]*SpecializationStatistics, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT d.specialization,
			COUNT(DISTINCT d.id),
			COUNT(a.id),
			COUNT(a.id) FILTER (WHERE a.status = 'Completed')
		FROM doctors d
		LEFT JOIN appointments a ON a.doctor_id = d.id
		WHERE d.is_active
		GROUP BY d.specialization
		ORDER BY d.specialization`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*SpecializationStatistics
	for rows.Next() {
		var s SpecializationStatistics
		if err := rows.Scan(&s.Specialization, &s.DoctorCount, &s.Total, &s.Completed); err != nil {
			return nil, err
		}
		items = append(items, &s)
	}
	return items, rows.Err()
}

func (r *repoPG) HourlyLoad(ctx context.Context) ([]*HourlyLoad, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT EXTRACT(HOUR FROM start_time)::int AS hour,
			COUNT(*),
			COUNT(DISTINCT doctor_id)
		FROM appointments
		WHERE status NOT IN ('Cancelled', 'No-Show')
		GROUP BY hour
		ORDER BY hour`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*HourlyLoad
	for rows.Next() {
		var h HourlyLoad
		if err := rows.Scan(&h.Hour, &h.Appointment, &h.DoctorCount); err != nil {
			return nil, err
		}
		items = append(items, &h)
	}
	return items, rows.Err()
}
