package prescription

import (
	"context"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/db"
	"github.com/hrms/hrms/pkg/pagination"
)

const module = "prescription"

type Service struct {
	repo  Repository
	tx    db.TxRunner
	gate  RecordGate
	audit auditlog.Recorder
}

func NewService(repo Repository, tx db.TxRunner, gate RecordGate, audit auditlog.Recorder) *Service {
	return &Service{repo: repo, tx: tx, gate: gate, audit: audit}
}

// Input carries the writable prescription fields.
type Input struct {
	MedicineName  string
	Specification *string
	Dosage        *string
	Frequency     *string
	Duration      *string
	Quantity      *int
	Notes         *string
}

// Create adds a prescription under a draft record. The gate check and the
// insert share a transaction so a concurrent confirm cannot interleave.
func (s *Service) Create(ctx context.Context, recordID int64, in Input) (*Prescription, error) {
	p := &Prescription{
		RecordID:      recordID,
		MedicineName:  in.MedicineName,
		Specification: in.Specification,
		Dosage:        in.Dosage,
		Frequency:     in.Frequency,
		Duration:      in.Duration,
		Quantity:      in.Quantity,
		Notes:         in.Notes,
	}
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.gate.EnsureDraft(ctx, recordID); err != nil {
			return err
		}
		return s.repo.Create(ctx, p)
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "create", TargetID: p.ID,
		Details: map[string]any{"recordId": recordID, "medicineName": p.MedicineName}})
	return p, nil
}

// CreateBatch adds several prescriptions under one draft record. One
// transaction covers the gate check and every insert, so either all rows
// land or none do.
func (s *Service) CreateBatch(ctx context.Context, recordID int64, ins []Input) ([]*Prescription, error) {
	created := make([]*Prescription, 0, len(ins))
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.gate.EnsureDraft(ctx, recordID); err != nil {
			return err
		}
		for _, in := range ins {
			p := &Prescription{
				RecordID:      recordID,
				MedicineName:  in.MedicineName,
				Specification: in.Specification,
				Dosage:        in.Dosage,
				Frequency:     in.Frequency,
				Duration:      in.Duration,
				Quantity:      in.Quantity,
				Notes:         in.Notes,
			}
			if err := s.repo.Create(ctx, p); err != nil {
				return err
			}
			created = append(created, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "create", TargetID: recordID,
		Details: map[string]any{"recordId": recordID, "count": len(created)}})
	return created, nil
}

// DeleteByRecord removes every prescription under a draft record and
// returns the number deleted.
func (s *Service) DeleteByRecord(ctx context.Context, recordID int64) (int64, error) {
	var deleted int64
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		if err := s.gate.EnsureDraft(ctx, recordID); err != nil {
			return err
		}
		var err error
		deleted, err = s.repo.DeleteByRecord(ctx, recordID)
		return err
	})
	if err != nil {
		return 0, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "delete", TargetID: recordID,
		Details: map[string]any{"recordId": recordID, "count": deleted}})
	return deleted, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Prescription, error) {
	var updated *Prescription
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.gate.EnsureDraft(ctx, p.RecordID); err != nil {
			return err
		}

		if in.MedicineName != "" {
			p.MedicineName = in.MedicineName
		}
		if in.Specification != nil {
			p.Specification = in.Specification
		}
		if in.Dosage != nil {
			p.Dosage = in.Dosage
		}
		if in.Frequency != nil {
			p.Frequency = in.Frequency
		}
		if in.Duration != nil {
			p.Duration = in.Duration
		}
		if in.Quantity != nil {
			p.Quantity = in.Quantity
		}
		if in.Notes != nil {
			p.Notes = in.Notes
		}

		if err := s.repo.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "update", TargetID: id})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.tx.InTx(ctx, func(ctx context.Context) error {
		p, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.gate.EnsureDraft(ctx, p.RecordID); err != nil {
			return err
		}
		return s.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "delete", TargetID: id})
	return nil
}

func (s *Service) ListByRecord(ctx context.Context, recordID int64) ([]*Prescription, error) {
	return s.repo.ListByRecord(ctx, recordID)
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Prescription, int, error) {
	return s.repo.List(ctx, f, p)
}
