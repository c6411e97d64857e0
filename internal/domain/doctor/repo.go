package doctor

import (
	"context"

	"github.com/hrms/hrms/pkg/pagination"
)

// Repository defines the persistence interface for doctors.
type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id int64) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*Doctor, int, error)
	ListByDepartment(ctx context.Context, departmentID int64) ([]*Doctor, error)
	Exists(ctx context.Context, id int64) (bool, error)
	ExistsUserID(ctx context.Context, userID int64, excludeID int64) (bool, error)
	ExistsLicenseNo(ctx context.Context, licenseNo string, excludeID int64) (bool, error)
	CountByDepartment(ctx context.Context, departmentID int64) (int, error)
}

// UserDirectory resolves the role of a system user. Satisfied by the user
// service.
type UserDirectory interface {
	RoleOf(ctx context.Context, id int64) (string, error)
}

// DepartmentDirectory reports department existence. Satisfied by the
// department service.
type DepartmentDirectory interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// RecordCounter reports how many medical records reference a doctor.
// Satisfied by the record service.
type RecordCounter interface {
	CountByDoctor(ctx context.Context, doctorID int64) (int, error)
}
