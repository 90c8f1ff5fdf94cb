package analytics

import "time"

// AppointmentStatistics summarizes appointment outcomes over a date range.
// Rates are whole percentages of the total.
type AppointmentStatistics struct {
	StartDate        time.Time `json:"start_date"`
	EndDate          time.Time `json:"end_date"`
	Total            int       `json:"total"`
	Scheduled        int       `json:"scheduled"`
	Completed        int       `json:"completed"`
	Cancelled        int       `json:"cancelled"`
	NoShow           int       `json:"no_show"`
	CompletionRate   int       `json:"completion_rate"`
	CancellationRate int       `json:"cancellation_rate"`
}

// DoctorPerformance aggregates one doctor's appointment outcomes.
type DoctorPerformance struct {
	DoctorID        int64  `json:"doctor_id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Specialization  string `json:"specialization"`
	Total           int    `json:"total"`
	Completed       int    `json:"completed"`
	Cancelled       int    `json:"cancelled"`
	NoShow          int    `json:"no_show"`
	AvgDurationMins int    `json:"avg_duration_minutes"`
	PatientsSeen    int    `json:"patients_seen"`
}

// CompletionRate is the percentage of this doctor's appointments that
// completed.
func (d *DoctorPerformance) CompletionRate() int {
	return rate(d.Completed, d.Total)
}

// SpecializationStatistics aggregates outcomes across all doctors sharing a
// specialization.
type SpecializationStatistics struct {
	Specialization string `json:"specialization"`
	DoctorCount    int    `json:"doctor_count"`
	Total          int    `json:"total"`
	Completed      int    `json:"completed"`
}

// HourlyLoad counts appointments by starting hour of day, for spotting peak
// booking times.
type HourlyLoad struct {
	Hour        int `json:"hour"`
	Appointment int `json:"appointment_count"`
	DoctorCount int `json:"doctor_count"`
}

func rate(part, total int) int {
	if total == 0 {
		return 0
	}
	return part * 100 / total
}
