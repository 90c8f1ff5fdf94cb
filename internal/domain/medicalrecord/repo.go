package medicalrecord

import "context"

// Repository is the persistence gateway for medical records. The
// appointment_id unique constraint is enforced by the store; Create returns
// ErrDuplicateRecord when it is violated.
type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	Update(ctx context.Context, r *MedicalRecord) error
	FindByID(ctx context.Context, id int64) (*MedicalRecord, error)
	FindByAppointment(ctx context.Context, appointmentID int64) (*MedicalRecord, error)
	ListByPatient(ctx context.Context, patientID int64, limit, offset int) ([]*MedicalRecord, int, error)
	ListByDoctor(ctx context.Context, doctorID int64, limit, offset int) ([]*MedicalRecord, int, error)
	ListFollowUpRequired(ctx context.Context, limit, offset int) ([]*MedicalRecord, int, error)
}
