package user

import (
	"context"

	"github.com/hrms/hrms/pkg/pagination"
)

// Repository defines the persistence interface for system users.
type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, u *User) error
	UpdatePassword(ctx context.Context, id int64, hash string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	List(ctx context.Context, f Filter, p pagination.Params) ([]*User, int, error)
	// ExistsUsername and ExistsEmail ignore the row with excludeID so
	// updates can keep their own value.
	ExistsUsername(ctx context.Context, username string, excludeID int64) (bool, error)
	ExistsEmail(ctx context.Context, email string, excludeID int64) (bool, error)
}
