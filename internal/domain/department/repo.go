package department

import (
	"context"

	"github.com/hrms/hrms/pkg/pagination"
)

// Repository defines the persistence interface for departments.
type Repository interface {
	Create(ctx context.Context, d *Department) error
	GetByID(ctx context.Context, id int64) (*Department, error)
	Update(ctx context.Context, d *Department) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Department, int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsCode(ctx context.Context, code string, excludeID int64) (bool, error)
}

// DoctorCounter reports how many doctors reference a department. Satisfied
// by the doctor service; keeps this package free of a doctor dependency.
type DoctorCounter interface {
	CountByDepartment(ctx context.Context, departmentID int64) (int, error)
}
