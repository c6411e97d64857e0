package patient

import (
	"context"

	"github.com/hrms/hrms/internal/domain/record"
	"github.com/hrms/hrms/pkg/pagination"
)

// Repository defines the persistence interface for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id int64) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsIDCard(ctx context.Context, idCard string, excludeID int64) (bool, error)
}

// RecordCounter reports how many medical records reference a patient and
// feeds the visit history view. Satisfied by the record repository.
type RecordCounter interface {
	CountByPatient(ctx context.Context, patientID int64) (int, error)
	VisitSummariesByPatient(ctx context.Context, patientID int64) ([]record.VisitSummary, error)
}
