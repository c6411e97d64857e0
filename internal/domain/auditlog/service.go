package auditlog

import (
	"context"

	"github.com/hrms/hrms/pkg/pagination"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*OperationLog, int, error) {
	return s.repo.List(ctx, f, p)
}
