package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/auth"
	"github.com/crmkit/lead-management/internal/tenant"
)

type RepositoryAPI interface {
	Create(u *User) error
	GetByID(scope tenant.Filter, id int64) (*User, error)
	List(scope tenant.Filter, query ListQuery) ([]*User, int64, error)
	Update(u *User) error
	EmailExists(email string, excludeID int64) (bool, error)
}

type Service struct {
	repo       RepositoryAPI
	recorder   audit.Recorder
	logger     *slog.Logger
	bcryptCost int
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger, bcryptCost int) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger, bcryptCost: bcryptCost}
}

func (s *Service) ListUsers(scope tenant.Filter, query ListQuery) ([]*User, int64, error) {
	users, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, 0, internal.NewInternalError("failed to list users", err)
	}
	return users, total, nil
}

func (s *Service) GetUser(scope tenant.Filter, id int64) (*User, error) {
	u, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return u, nil
}

func (s *Service) CreateUser(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil && !principal.IsSuperAdmin() {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	exists, err := s.repo.EmailExists(dto.Email, 0)
	if err != nil {
		s.logger.Error("failed to check user email uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}
	if exists {
		return nil, internal.NewDuplicateError("a user with this email already exists", internal.ErrCodeDuplicateEmail)
	}

	hash, err := auth.HashPassword(dto.Password, s.bcryptCost)
	if err != nil {
		s.logger.Error("failed to hash password", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	now := time.Now()
	u := &User{
		OrganizationID: orgID,
		RoleID:         dto.RoleID,
		Email:          dto.Email,
		Name:           dto.Name,
		Phone:          dto.Phone,
		PasswordHash:   hash,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(u); err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "User",
		EntityID:   u.ID,
		Detail:     fmt.Sprintf("created user %s", u.Email),
	})
	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, scope tenant.Filter, id int64, dto UpdateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	if dto.RoleID != nil {
		u.RoleID = *dto.RoleID
	}
	if dto.Name != nil {
		u.Name = *dto.Name
	}
	if dto.Phone != nil {
		u.Phone = *dto.Phone
	}
	if dto.IsActive != nil {
		u.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		hash, err := auth.HashPassword(*dto.Password, s.bcryptCost)
		if err != nil {
			s.logger.Error("failed to hash password", "error", err)
			return nil, internal.NewInternalError("failed to update user", err)
		}
		u.PasswordHash = hash
	}
	u.UpdatedAt = time.Now()

	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to update user", "error", err, "user_id", u.ID)
		return nil, internal.NewInternalError("failed to update user", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "User",
		EntityID:   u.ID,
		Detail:     fmt.Sprintf("updated user %s", u.Email),
	})
	return u, nil
}

func (s *Service) DeleteUser(ctx context.Context, principal *internal.Principal, scope tenant.Filter, id int64) error {
	if principal.UserID == id {
		return internal.NewValidationError("you cannot delete your own account", internal.ErrCodeValidationFailed)
	}

	u, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	u.IsDeleted = true
	u.IsActive = false
	u.UpdatedAt = time.Now()
	if err := s.repo.Update(u); err != nil {
		s.logger.Error("failed to delete user", "error", err, "user_id", u.ID)
		return internal.NewInternalError("failed to delete user", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "User",
		EntityID:   u.ID,
		Detail:     fmt.Sprintf("deleted user %s", u.Email),
	})
	return nil
}
