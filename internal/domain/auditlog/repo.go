package auditlog

import (
	"context"

	"github.com/hrms/hrms/pkg/pagination"
)

// Repository defines the persistence interface for operation logs.
type Repository interface {
	Insert(ctx context.Context, log *OperationLog) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*OperationLog, int, error)
}
