package record

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/db"
	"github.com/hrms/hrms/internal/platform/ident"
	"github.com/hrms/hrms/pkg/pagination"
)

const module = "record"

// ChildLister loads the child rows filed under a record, for embedding in
// the detail view.
type ChildLister func(ctx context.Context, recordID int64) (any, error)

type Service struct {
	repo        Repository
	tx          db.TxRunner
	patients    PatientDirectory
	doctors     DoctorDirectory
	departments DepartmentDirectory
	files       AttachmentFiles
	audit       auditlog.Recorder
	logger      zerolog.Logger

	prescriptions ChildLister
	attachments   ChildLister
}

func NewService(repo Repository, tx db.TxRunner, patients PatientDirectory, doctors DoctorDirectory,
	departments DepartmentDirectory, audit auditlog.Recorder, logger zerolog.Logger) *Service {
	return &Service{
		repo:        repo,
		tx:          tx,
		patients:    patients,
		doctors:     doctors,
		departments: departments,
		audit:       audit,
		logger:      logger,
	}
}

// SetAttachmentFiles wires the attachment file lookup after construction.
// The attachment service depends on this service for its draft gate, so the
// reverse edge is attached late to break the construction cycle.
func (s *Service) SetAttachmentFiles(files AttachmentFiles) {
	s.files = files
}

// SetChildSources wires the prescription and attachment listers after
// construction, for the same reason as SetAttachmentFiles.
func (s *Service) SetChildSources(prescriptions, attachments ChildLister) {
	s.prescriptions = prescriptions
	s.attachments = attachments
}

// Input carries the writable record fields.
type Input struct {
	PatientID      int64
	DoctorID       int64
	DepartmentID   *int64
	VisitType      VisitType
	VisitDate      time.Time
	ChiefComplaint *string
	PresentIllness *string
	PhysicalExam   *string
	Diagnosis      *string
	TreatmentPlan  *string
	Prescription   *string
	Notes          *string
}

func (s *Service) Create(ctx context.Context, in Input) (*MedicalRecord, error) {
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	rec := &MedicalRecord{
		RecordNo:       ident.RecordNo(),
		PatientID:      in.PatientID,
		DoctorID:       in.DoctorID,
		DepartmentID:   in.DepartmentID,
		VisitType:      in.VisitType,
		VisitDate:      in.VisitDate,
		ChiefComplaint: in.ChiefComplaint,
		PresentIllness: in.PresentIllness,
		PhysicalExam:   in.PhysicalExam,
		Diagnosis:      in.Diagnosis,
		TreatmentPlan:  in.TreatmentPlan,
		Prescription:   in.Prescription,
		Notes:          in.Notes,
		Status:         StatusDraft,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "create", TargetID: rec.ID,
		Details: map[string]any{"recordNo": rec.RecordNo, "patientId": rec.PatientID}})
	return rec, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*MedicalRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// GetDetail returns the record together with its prescriptions and
// attachments.
func (s *Service) GetDetail(ctx context.Context, id int64) (*Detail, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := &Detail{MedicalRecord: rec}
	if s.prescriptions != nil {
		if d.Prescriptions, err = s.prescriptions(ctx, id); err != nil {
			return nil, err
		}
	}
	if s.attachments != nil {
		if d.Attachments, err = s.attachments(ctx, id); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Update rewrites the clinical fields. The draft gate and the write run in
// one transaction under a row lock so a concurrent confirm cannot slip in
// between.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*MedicalRecord, error) {
	var updated *MedicalRecord
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec.Status != StatusDraft {
			return apperr.State("Cannot modify a %s record; only draft records are editable", rec.Status)
		}

		if in.PatientID != 0 {
			rec.PatientID = in.PatientID
		}
		if in.DoctorID != 0 {
			rec.DoctorID = in.DoctorID
		}
		if in.DepartmentID != nil {
			rec.DepartmentID = in.DepartmentID
		}
		if err := s.checkReferences(ctx, Input{
			PatientID:    rec.PatientID,
			DoctorID:     rec.DoctorID,
			DepartmentID: rec.DepartmentID,
		}); err != nil {
			return err
		}

		if in.VisitType != "" {
			rec.VisitType = in.VisitType
		}
		if !in.VisitDate.IsZero() {
			rec.VisitDate = in.VisitDate
		}
		if in.ChiefComplaint != nil {
			rec.ChiefComplaint = in.ChiefComplaint
		}
		if in.PresentIllness != nil {
			rec.PresentIllness = in.PresentIllness
		}
		if in.PhysicalExam != nil {
			rec.PhysicalExam = in.PhysicalExam
		}
		if in.Diagnosis != nil {
			rec.Diagnosis = in.Diagnosis
		}
		if in.TreatmentPlan != nil {
			rec.TreatmentPlan = in.TreatmentPlan
		}
		if in.Prescription != nil {
			rec.Prescription = in.Prescription
		}
		if in.Notes != nil {
			rec.Notes = in.Notes
		}

		if err := s.repo.Update(ctx, rec); err != nil {
			return err
		}
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "update", TargetID: id})
	return updated, nil
}

// ChangeStatus advances the record along the one-directional lifecycle.
func (s *Service) ChangeStatus(ctx context.Context, id int64, target Status) (*MedicalRecord, error) {
	if !ValidStatus(target) {
		return nil, apperr.Validation(apperr.FieldError{Field: "status", Message: "status must be one of draft, confirmed, archived"})
	}

	var prev Status
	var updated *MedicalRecord
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if !CanTransition(rec.Status, target) {
			return TransitionError(rec.Status, target)
		}
		prev = rec.Status
		if err := s.repo.UpdateStatus(ctx, id, target); err != nil {
			return err
		}
		rec.Status = target
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "change_status", TargetID: id,
		Details: map[string]any{"from": string(prev), "to": string(target)}})
	return updated, nil
}

// Delete removes a draft record and its children. Database rows go in the
// transaction; stored attachment files are removed after commit, best-effort.
func (s *Service) Delete(ctx context.Context, id int64) error {
	var fileNames []string
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		rec, err := s.repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if rec.Status != StatusDraft {
			return apperr.State("Cannot delete a %s record; only draft records can be deleted", rec.Status)
		}
		if s.files != nil {
			fileNames, err = s.files.FileNamesByRecord(ctx, id)
			if err != nil {
				return err
			}
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	for _, name := range fileNames {
		if err := s.files.RemoveFile(name); err != nil {
			s.logger.Error().Err(err).Str("file", name).Int64("record_id", id).
				Msg("attachment file removal failed")
		}
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "delete", TargetID: id})
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*MedicalRecord, int, error) {
	return s.repo.List(ctx, f, p)
}

// EnsureDraft verifies the record exists and is in draft, row-locking it
// when called inside a transaction. Child services call this before every
// mutation so children can never change under a confirmed record.
func (s *Service) EnsureDraft(ctx context.Context, recordID int64) error {
	rec, err := s.repo.GetForUpdate(ctx, recordID)
	if err != nil {
		return err
	}
	if rec.Status != StatusDraft {
		return apperr.State("Cannot modify a %s record; only draft records are editable", rec.Status)
	}
	return nil
}

// CountByPatient satisfies the patient service's record counter.
func (s *Service) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	return s.repo.CountByPatient(ctx, patientID)
}

// VisitSummariesByPatient feeds the patient history view.
func (s *Service) VisitSummariesByPatient(ctx context.Context, patientID int64) ([]VisitSummary, error) {
	return s.repo.VisitSummariesByPatient(ctx, patientID)
}

// CountByDoctor satisfies the doctor service's record counter.
func (s *Service) CountByDoctor(ctx context.Context, doctorID int64) (int, error) {
	return s.repo.CountByDoctor(ctx, doctorID)
}

func (s *Service) checkReferences(ctx context.Context, in Input) error {
	if exists, err := s.patients.Exists(ctx, in.PatientID); err != nil {
		return err
	} else if !exists {
		return apperr.NotFound("Patient")
	}
	if exists, err := s.doctors.Exists(ctx, in.DoctorID); err != nil {
		return err
	} else if !exists {
		return apperr.NotFound("Doctor")
	}
	if in.DepartmentID != nil {
		if exists, err := s.departments.Exists(ctx, *in.DepartmentID); err != nil {
			return err
		} else if !exists {
			return apperr.NotFound("Department")
		}
	}
	return nil
}
