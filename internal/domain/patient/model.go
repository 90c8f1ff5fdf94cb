package patient

import (
	"strings"
	"time"
)

// Patient maps to the patients table.
type Patient struct {
	ID                    int64      `db:"id" json:"id"`
	FirstName             string     `db:"first_name" json:"first_name"`
	LastName              string     `db:"last_name" json:"last_name"`
	DateOfBirth           time.Time  `db:"date_of_birth" json:"date_of_birth"`
	Gender                string     `db:"gender" json:"gender"`
	PhoneNumber           string     `db:"phone_number" json:"phone_number"`
	Email                 string     `db:"email" json:"email"`
	Address               string     `db:"address" json:"address"`
	City                  string     `db:"city" json:"city"`
	PostalCode            string     `db:"postal_code" json:"postal_code"`
	InsuranceProviderID   string     `db:"insurance_provider_id" json:"insurance_provider_id"`
	MedicalHistorySummary string     `db:"medical_history_summary" json:"medical_history_summary"`
	IsActive              bool       `db:"is_active" json:"is_active"`
	LastVisitDate         *time.Time `db:"last_visit_date" json:"last_visit_date,omitempty"`
	CreatedAt             time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt             time.Time  `db:"updated_at" json:"updated_at"`
}

func (p *Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// Age in whole years as of now.
func (p *Patient) Age(now time.Time) int {
	years := now.Year() - p.DateOfBirth.Year()
	if now.YearDay() < p.DateOfBirth.YearDay() {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// Validate checks the patient payload before any I/O.
func (p *Patient) Validate() error {
	if strings.TrimSpace(p.FirstName) == "" {
		return &ValidationError{Field: "first_name", Msg: "must not be blank"}
	}
	if strings.TrimSpace(p.LastName) == "" {
		return &ValidationError{Field: "last_name", Msg: "must not be blank"}
	}
	if p.DateOfBirth.IsZero() {
		return &ValidationError{Field: "date_of_birth", Msg: "is required"}
	}
	if strings.TrimSpace(p.PhoneNumber) == "" {
		return &ValidationError{Field: "phone_number", Msg: "must not be blank"}
	}
	return nil
}
