package patient

import (
	"context"
	"time"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/ident"
	"github.com/hrms/hrms/pkg/pagination"
)

const module = "patient"

type Service struct {
	repo    Repository
	records RecordCounter
	audit   auditlog.Recorder
}

func NewService(repo Repository, records RecordCounter, audit auditlog.Recorder) *Service {
	return &Service{repo: repo, records: records, audit: audit}
}

// Input carries the writable patient fields. MedicalNo is generated, never
// accepted from callers.
type Input struct {
	Name             string
	IDCard           *string
	Gender           *string
	BirthDate        *time.Time
	Phone            *string
	EmergencyContact *string
	EmergencyPhone   *string
	Address          *string
	BloodType        *string
	Allergies        *string
	MedicalHistory   *string
}

func (s *Service) Create(ctx context.Context, in Input) (*Patient, error) {
	if in.IDCard != nil && *in.IDCard != "" {
		if taken, err := s.repo.ExistsIDCard(ctx, *in.IDCard, 0); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("ID card already exists")
		}
	}

	p := &Patient{
		MedicalNo:        ident.MedicalNo(),
		Name:             in.Name,
		IDCard:           in.IDCard,
		Gender:           in.Gender,
		BirthDate:        in.BirthDate,
		Phone:            in.Phone,
		EmergencyContact: in.EmergencyContact,
		EmergencyPhone:   in.EmergencyPhone,
		Address:          in.Address,
		BloodType:        in.BloodType,
		Allergies:        in.Allergies,
		MedicalHistory:   in.MedicalHistory,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "create", TargetID: p.ID,
		Details: map[string]any{"medicalNo": p.MedicalNo, "name": p.Name}})
	return p, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.RecordCount, err = s.records.CountByPatient(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

// GetHistory summarizes the patient's visits: totals by type, the most
// recent visit date and up to five recent diagnoses, newest first.
func (s *Service) GetHistory(ctx context.Context, id int64) (*History, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	visits, err := s.records.VisitSummariesByPatient(ctx, id)
	if err != nil {
		return nil, err
	}

	h := &History{
		Patient:         p,
		VisitStats:      VisitStats{TotalVisits: len(visits), VisitsByType: map[string]int{}},
		RecentDiagnoses: []string{},
	}
	p.RecordCount = len(visits)
	if len(visits) > 0 {
		h.VisitStats.LastVisitDate = &visits[0].VisitDate
	}
	for _, v := range visits {
		h.VisitStats.VisitsByType[string(v.VisitType)]++
		if v.Diagnosis != nil && len(h.RecentDiagnoses) < 5 {
			h.RecentDiagnoses = append(h.RecentDiagnoses, *v.Diagnosis)
		}
	}
	return h, nil
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.IDCard != nil && *in.IDCard != "" {
		if taken, err := s.repo.ExistsIDCard(ctx, *in.IDCard, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("ID card already exists")
		}
	}

	if in.Name != "" {
		p.Name = in.Name
	}
	if in.IDCard != nil {
		p.IDCard = in.IDCard
	}
	if in.Gender != nil {
		p.Gender = in.Gender
	}
	if in.BirthDate != nil {
		p.BirthDate = in.BirthDate
	}
	if in.Phone != nil {
		p.Phone = in.Phone
	}
	if in.EmergencyContact != nil {
		p.EmergencyContact = in.EmergencyContact
	}
	if in.EmergencyPhone != nil {
		p.EmergencyPhone = in.EmergencyPhone
	}
	if in.Address != nil {
		p.Address = in.Address
	}
	if in.BloodType != nil {
		p.BloodType = in.BloodType
	}
	if in.Allergies != nil {
		p.Allergies = in.Allergies
	}
	if in.MedicalHistory != nil {
		p.MedicalHistory = in.MedicalHistory
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "update", TargetID: p.ID})
	return p, nil
}

// Delete refuses while any medical record still references the patient.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.records.CountByPatient(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("Cannot delete patient with %d medical record(s)", count)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "delete", TargetID: id})
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error) {
	return s.repo.List(ctx, f, p)
}

// Exists satisfies the record service's patient directory.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
