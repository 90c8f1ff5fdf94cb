package doctor

import (
	"strings"
	"time"
)

// Doctor maps to the doctors table.
type Doctor struct {
	ID                int64     `db:"id" json:"id"`
	FirstName         string    `db:"first_name" json:"first_name"`
	LastName          string    `db:"last_name" json:"last_name"`
	Specialization    string    `db:"specialization" json:"specialization"`
	LicenseNumber     string    `db:"license_number" json:"license_number"`
	PhoneNumber       string    `db:"phone_number" json:"phone_number"`
	Email             string    `db:"email" json:"email"`
	OfficeLocation    string    `db:"office_location" json:"office_location"`
	YearsOfExperience int       `db:"years_of_experience" json:"years_of_experience"`
	MaxPatientsPerDay int       `db:"max_patients_per_day" json:"max_patients_per_day"`
	IsActive          bool      `db:"is_active" json:"is_active"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

func (d *Doctor) FullName() string {
	return strings.TrimSpace(d.FirstName + " " + d.LastName)
}

// Validate checks the doctor payload before any I/O.
func (d *Doctor) Validate() error {
	if strings.TrimSpace(d.FirstName) == "" {
		return &ValidationError{Field: "first_name", Msg: "must not be blank"}
	}
	if strings.TrimSpace(d.LastName) == "" {
		return &ValidationError{Field: "last_name", Msg: "must not be blank"}
	}
	if strings.TrimSpace(d.Specialization) == "" {
		return &ValidationError{Field: "specialization", Msg: "must not be blank"}
	}
	if strings.TrimSpace(d.LicenseNumber) == "" {
		return &ValidationError{Field: "license_number", Msg: "must not be blank"}
	}
	if d.YearsOfExperience < 0 {
		return &ValidationError{Field: "years_of_experience", Msg: "must not be negative"}
	}
	if d.MaxPatientsPerDay < 0 {
		return &ValidationError{Field: "max_patients_per_day", Msg: "must not be negative"}
	}
	return nil
}
