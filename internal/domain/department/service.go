package department

import (
	"context"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/pkg/pagination"
)

const module = "department"

type Service struct {
	repo    Repository
	doctors DoctorCounter
	audit   auditlog.Recorder
}

func NewService(repo Repository, doctors DoctorCounter, audit auditlog.Recorder) *Service {
	return &Service{repo: repo, doctors: doctors, audit: audit}
}

// Input carries the writable department fields.
type Input struct {
	Name        string
	Code        *string
	Description *string
	Status      *int
}

func (s *Service) Create(ctx context.Context, in Input) (*Department, error) {
	if in.Code != nil && *in.Code != "" {
		if taken, err := s.repo.ExistsCode(ctx, *in.Code, 0); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("Department code already exists")
		}
	}

	d := &Department{
		Name:        in.Name,
		Code:        in.Code,
		Description: in.Description,
		Status:      StatusActive,
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "create", TargetID: d.ID,
		Details: map[string]any{"name": d.Name}})
	return d, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Department, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id int64, in Input) (*Department, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Code != nil && *in.Code != "" {
		if taken, err := s.repo.ExistsCode(ctx, *in.Code, id); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("Department code already exists")
		}
	}

	if in.Name != "" {
		d.Name = in.Name
	}
	if in.Code != nil {
		d.Code = in.Code
	}
	if in.Description != nil {
		d.Description = in.Description
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "update", TargetID: d.ID})
	return d, nil
}

// Delete refuses while any doctor still references the department.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	count, err := s.doctors.CountByDepartment(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return apperr.Conflict("Cannot delete department with %d doctor(s) assigned", count)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "delete", TargetID: id})
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*Department, int, error) {
	return s.repo.List(ctx, f, p)
}

// Exists satisfies the record service's department directory.
func (s *Service) Exists(ctx context.Context, id int64) (bool, error) {
	return s.repo.Exists(ctx, id)
}
