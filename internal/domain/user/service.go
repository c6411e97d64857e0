package user

import (
	"context"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/auth"
	"github.com/hrms/hrms/pkg/pagination"
)

const module = "user"

type Service struct {
	repo   Repository
	tokens *auth.TokenManager
	hasher *auth.Hasher
	audit  auditlog.Recorder
}

func NewService(repo Repository, tokens *auth.TokenManager, hasher *auth.Hasher, audit auditlog.Recorder) *Service {
	return &Service{repo: repo, tokens: tokens, hasher: hasher, audit: audit}
}

// LoginResult is the payload returned on successful authentication.
type LoginResult struct {
	auth.TokenPair
	User *User `json:"user"`
}

// Login verifies credentials and issues a token pair. Unknown usernames and
// wrong passwords produce the same generic error so callers cannot tell
// which accounts exist. A disabled account fails distinctly before the password check,
// regardless of the password supplied.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if apperr.IsStatus(err, 404) {
			return nil, apperr.Unauthorized("Invalid username or password")
		}
		return nil, err
	}
	if !u.Active() {
		return nil, apperr.Forbidden("Account is disabled")
	}
	if !s.hasher.Check(u.PasswordHash, password) {
		return nil, apperr.Unauthorized("Invalid username or password")
	}

	pair, err := s.tokens.IssuePair(auth.Identity{UserID: u.ID, Username: u.Username, Role: u.Role})
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{UserID: u.ID, Module: "auth", Action: "login", TargetID: u.ID})
	return &LoginResult{TokenPair: pair, User: u}, nil
}

// Refresh mints a fresh token pair from a valid refresh token, re-checking
// that the account still exists and is active.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid refresh token")
	}
	u, err := s.repo.GetByID(ctx, claims.UserID)
	if err != nil {
		if apperr.IsStatus(err, 404) {
			return nil, apperr.Unauthorized("Invalid refresh token")
		}
		return nil, err
	}
	if !u.Active() {
		return nil, apperr.Forbidden("Account is disabled")
	}
	pair, err := s.tokens.IssuePair(auth.Identity{UserID: u.ID, Username: u.Username, Role: u.Role})
	if err != nil {
		return nil, err
	}
	return &pair, nil
}

// Logout records the event. Tokens are stateless, so there is nothing to
// revoke server-side.
func (s *Service) Logout(ctx context.Context, userID int64) {
	s.audit.Record(ctx, auditlog.Entry{UserID: userID, Module: "auth", Action: "logout", TargetID: userID})
}

func (s *Service) Profile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// ChangePassword re-verifies the current password before setting a new one.
func (s *Service) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	u, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Check(u.PasswordHash, current) {
		return apperr.Unauthorized("Current password is incorrect")
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, userID, hash); err != nil {
		return err
	}
	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "change_password", TargetID: userID})
	return nil
}

func (s *Service) List(ctx context.Context, f Filter, p pagination.Params) ([]*User, int, error) {
	return s.repo.List(ctx, f, p)
}

func (s *Service) Get(ctx context.Context, id int64) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// RoleOf returns the role of an existing user. Consumers use it for
// cross-entity checks without depending on this package's repository.
func (s *Service) RoleOf(ctx context.Context, id int64) (string, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// CreateInput carries the admin-provided fields for a new account.
type CreateInput struct {
	Username string
	Password string
	Email    *string
	Phone    *string
	Role     string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if !ValidRole(in.Role) {
		return nil, apperr.Validation(apperr.FieldError{Field: "role", Message: "role must be one of admin, doctor, nurse, receptionist"})
	}
	if taken, err := s.repo.ExistsUsername(ctx, in.Username, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, apperr.Conflict("Username already exists")
	}
	if in.Email != nil && *in.Email != "" {
		if taken, err := s.repo.ExistsEmail(ctx, *in.Email, 0); err != nil {
			return nil, err
		} else if taken {
			return nil, apperr.Conflict("Email already exists")
		}
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	u := &User{
		Username:     in.Username,
		PasswordHash: hash,
		Email:        in.Email,
		Phone:        in.Phone,
		Role:         in.Role,
		Status:       StatusActive,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "create", TargetID: u.ID,
		Details: map[string]any{"username": u.Username, "role": u.Role}})
	return u, nil
}

// UpdateInput carries the mutable account fields.
type UpdateInput struct {
	Email *string
	Phone *string
	Role  string
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Role != "" {
		if !ValidRole(in.Role) {
			return nil, apperr.Validation(apperr.FieldError{Field: "role", Message: "role must be one of admin, doctor, nurse, receptionist"})
		}
		u.Role = in.Role
	}
	if in.Email != nil {
		if *in.Email != "" {
			if taken, err := s.repo.ExistsEmail(ctx, *in.Email, id); err != nil {
				return nil, err
			} else if taken {
				return nil, apperr.Conflict("Email already exists")
			}
		}
		u.Email = in.Email
	}
	if in.Phone != nil {
		u.Phone = in.Phone
	}
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "update", TargetID: u.ID})
	return u, nil
}

// ToggleStatus flips an account between active and inactive.
func (s *Service) ToggleStatus(ctx context.Context, id int64) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Status == StatusActive {
		u.Status = StatusInactive
	} else {
		u.Status = StatusActive
	}
	if err := s.repo.UpdateStatus(ctx, id, u.Status); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "toggle_status", TargetID: id,
		Details: map[string]any{"status": u.Status}})
	return u, nil
}

// ResetPassword sets a new password without knowing the old one. Admin only.
func (s *Service) ResetPassword(ctx context.Context, id int64, password string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	s.audit.Record(ctx, auditlog.Entry{Module: module, Action: "reset_password", TargetID: id})
	return nil
}
