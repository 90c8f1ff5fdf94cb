package medicalrecord

import (
	"strings"
	"time"
)

// MedicalRecord maps to the medical_records table. Each record documents one
// visit and references the appointment it came from.
type MedicalRecord struct {
	ID               int64      `db:"id" json:"id"`
	AppointmentID    int64      `db:"appointment_id" json:"appointment_id"`
	PatientID        int64      `db:"patient_id" json:"patient_id"`
	DoctorID         int64      `db:"doctor_id" json:"doctor_id"`
	VisitDate        time.Time  `db:"visit_date" json:"visit_date"`
	ClinicalNotes    string     `db:"clinical_notes" json:"clinical_notes"`
	Diagnosis        string     `db:"diagnosis" json:"diagnosis"`
	PrescriptionText string     `db:"prescription_text" json:"prescription_text"`
	AllergiesNoted   string     `db:"allergies_noted" json:"allergies_noted"`
	VitalSigns       string     `db:"vital_signs" json:"vital_signs"`
	FollowUpNotes    string     `db:"follow_up_notes" json:"follow_up_notes"`
	FollowUpRequired bool       `db:"follow_up_required" json:"follow_up_required"`
	FollowUpDate     *time.Time `db:"follow_up_date" json:"follow_up_date,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Validate checks the record payload before any I/O. A required follow-up
// must carry a date after the visit.
func (r *MedicalRecord) Validate() error {
	if r.AppointmentID <= 0 {
		return &ValidationError{Field: "appointment_id", Msg: "must be positive"}
	}
	if r.PatientID <= 0 {
		return &ValidationError{Field: "patient_id", Msg: "must be positive"}
	}
	if r.DoctorID <= 0 {
		return &ValidationError{Field: "doctor_id", Msg: "must be positive"}
	}
	if r.VisitDate.IsZero() {
		return &ValidationError{Field: "visit_date", Msg: "is required"}
	}
	if strings.TrimSpace(r.Diagnosis) == "" {
		return &ValidationError{Field: "diagnosis", Msg: "must not be blank"}
	}
	if r.FollowUpRequired {
		if r.FollowUpDate == nil {
			return &ValidationError{Field: "follow_up_date", Msg: "is required when follow-up is flagged"}
		}
		if !r.FollowUpDate.After(r.VisitDate) {
			return &ValidationError{Field: "follow_up_date", Msg: "must be after the visit date"}
		}
	}
	return nil
}

// FollowUpOverdue reports whether a required follow-up has passed its date.
func (r *MedicalRecord) FollowUpOverdue(now time.Time) bool {
	return r.FollowUpRequired && r.FollowUpDate != nil && r.FollowUpDate.Before(now)
}

// FollowUpUpcoming reports whether a required follow-up falls within the next
// seven days.
func (r *MedicalRecord) FollowUpUpcoming(now time.Time) bool {
	if !r.FollowUpRequired || r.FollowUpDate == nil {
		return false
	}
	return !r.FollowUpDate.Before(now) && r.FollowUpDate.Before(now.Add(7*24*time.Hour))
}
