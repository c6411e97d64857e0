package doctor

import (
	"context"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/pkg/pagination"
)

const module = "doctor"

type Service struct {
	repo        Repository
	users       UserDirectory
	departments DepartmentDirectory
	records     RecordCounter
	audit       auditlog.Recorder
}

func NewService(repo Repository, users UserDirectory, departments DepartmentDirectory, records RecordCounter, audit auditlog.Recorder) *Service {
	return &Service{repo: repo, users: users, departments: departments, records: records, audit: audit}
}

// Input carries the writable doctor fields.
type Input struct {
	UserID       int64
	DepartmentID *int64
	Name         string
	Title        *string
	Specialty    *string
	LicenseNo    *string
	Introduction *string
}

func (s *Service) Create(ctx context.Context, in Input) (*Doctor, error) {
	role, err := s.users.RoleOf(ctx, in.UserID)
	if err != nil {
		if apperr.IsStatus(err, 404) {
			return nil, apperr.NotFound("User")
		}
		return nil, err
	}
	if role != "doctor" {
		return nil, apperr.Validation(apperr.FieldError{Field: "userId", Message: "user must have the doctor role"})
	}
	if bound, err := s.repo.ExistsUserID(ctx, in.UserID, 0); err != nil {
		return nil, err
	} else if bound {
		return nil, apperr.Conflict("User already has a doctor profile")
	}

	if err := s.checkDepartment(ctx, in.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.checkLicense(ctx, in.LicenseNo, 0); err != nil {
		return nil, err
	}

	d := &Doctor{
		UserID:       in.UserID,
		DepartmentID: in.DepartmentID,
		Name:         in.Name,
		Title:        in.Title,
		Specialty:    in.Specialty,
		LicenseNo:    in.LicenseNo,
		Introduction: in.Introduction,
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "create", TargetID: d.ID,
		Details: map[string]any{"name": d.Name, "userId": d.UserID}})
	return d, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Doctor, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.DepartmentID != nil {
		if err := s.checkDepartment(ctx, in.DepartmentID); err != nil {
			return nil, err
		}
		d.DepartmentID = in.DepartmentID
	}
	if in.LicenseNo != nil {
		if err := s.checkLicense(ctx, in.LicenseNo, id); err != nil {
			return nil, err
		}
		d.LicenseNo = in.LicenseNo
	}
	if in.Name != "" {
		d.Name = in.Name
	}
	if in.Title != nil {
		d.Title = in.Title
	}
	if in.Specialty != nil {
		d.Specialty = in.Specialty
	}
	if in.Introduction != nil {
		d.Introduction = in.Introduction
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "update", TargetID: d.ID})
	return d, nil
}

// Delete refuses while any medical record still references the doctor.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.records.CountByDoctor(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("Cannot delete doctor with %d medical record(s)", count)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "delete", TargetID: id})
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Doctor, int, error) {
	return s.repo.List(ctx, f, p)
}

func (s *Service) ListByDepartment(ctx context.Context, departmentID int64) ([]*Doctor, error) {
	return s.repo.ListByDepartment(ctx, departmentID)
}

// Exists satisfies the record service's doctor directory.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}

// CountByDepartment satisfies the department service's doctor counter.
func (s *Service) CountByDepartment(ctx context.Context, departmentID int64) (int, error) {
	return s.repo.CountByDepartment(ctx, departmentID)
}

func (s *Service) checkDepartment(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	exists, err := s.departments.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !exists {
		return apperr.NotFound("Department")
	}
	return nil
}

func (s *Service) checkLicense(ctx context.Context, licenseNo *string, excludeID int64) error {
	if licenseNo == nil || *licenseNo == "" {
		return nil
	}
	taken, err := s.repo.ExistsLicenseNo(ctx, *licenseNo, excludeID)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("License number already exists")
	}
	return nil
}
