package record

import (
	"context"

	"github.com/hrms/hrms/pkg/pagination"
)

// Repository defines the persistence interface for medical records.
type Repository interface {
	Create(ctx context.Context, r *MedicalRecord) error
	GetByID(ctx context.Context, id int64) (*MedicalRecord, error)
	// GetForUpdate row-locks the record inside the context transaction so
	// the draft gate and the following write are atomic.
	GetForUpdate(ctx context.Context, id int64) (*MedicalRecord, error)
	Update(ctx context.Context, r *MedicalRecord) error
	UpdateStatus(ctx context.Context, id int64, status Status) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*MedicalRecord, int, error)
	CountByPatient(ctx context.Context, patientID int64) (int, error)
	CountByDoctor(ctx context.Context, doctorID int64) (int, error)
	// VisitSummariesByPatient returns the patient's visits newest first.
	VisitSummariesByPatient(ctx context.Context, patientID int64) ([]VisitSummary, error)
}

// PatientDirectory reports patient existence. Satisfied by the patient
// service.
type PatientDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// DoctorDirectory reports doctor existence. Satisfied by the doctor service.
type DoctorDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// DepartmentDirectory reports department existence. Satisfied by the
// department service.
type DepartmentDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// AttachmentFiles lists and removes stored attachment files for a record.
// Satisfied by the attachment service; used for cascade deletion.
type AttachmentFiles interface {
	FileNamesByRecord(ctx context.Context, recordID int64) ([]string, error)
	RemoveFile(name string) error
}
