package prescription

import (
	"context"

	"github.com/hrms/hrms/pkg/pagination"
)

// Repository defines the persistence interface for prescriptions.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id int64) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	Delete(ctx context.Context, id int64) error
	DeleteByRecord(ctx context.Context, recordID int64) (int64, error)
	ListByRecord(ctx context.Context, recordID int64) ([]*Prescription, error)
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Prescription, int, error)
}

// RecordGate verifies the parent record exists and is in draft, locking its
// row when called inside a transaction. Satisfied by the record service.
type RecordGate interface {
	EnsureDraft(ctx context.Context, recordID int64) error
}
