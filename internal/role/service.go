package role

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/tenant"
)

type RepositoryAPI interface {
	Create(r *Role, permissionNames []string) error
	GetByID(scope tenant.Filter, id int64) (*Role, error)
	List(scope tenant.Filter, query ListQuery) ([]*Role, int64, error)
	Update(r *Role) error
	ReplacePermissions(roleID int64, permissionNames []string) error
	Delete(id int64) error
	NameExists(orgID *int64, scope, name string, excludeID int64) (bool, error)
	UserCount(roleID int64) (int64, error)
	ListPermissions() ([]*Permission, error)
}

type Service struct {
	repo     RepositoryAPI
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// ListRoles returns the tenant's own roles plus the global ones that apply to
// every tenant.
func (s *Service) ListRoles(scope tenant.Filter, query ListQuery) ([]*Role, int64, error) {
	roles, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list roles", "error", err)
		return nil, 0, internal.NewInternalError("failed to list roles", err)
	}
	return roles, total, nil
}

func (s *Service) GetRole(scope tenant.Filter, id int64) (*Role, error) {
	r, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return r, nil
}

// ListPermissions exposes the seeded permission catalog.
func (s *Service) ListPermissions() ([]*Permission, error) {
	perms, err := s.repo.ListPermissions()
	if err != nil {
		s.logger.Error("failed to list permissions", "error", err)
		return nil, internal.NewInternalError("failed to list permissions", err)
	}
	return perms, nil
}

func (s *Service) CreateRole(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	var orgID *int64
	switch dto.Scope {
	case ScopeGlobal:
		// Only super admins may mint cross-tenant roles.
		if !principal.IsSuperAdmin() {
			return nil, internal.NewMissingPermissionError("ROLE_CREATE_GLOBAL")
		}
	case ScopeOrganization:
		orgID = scope.ResolveWriteOrg(dto.OrganizationID, principal)
		if orgID == nil {
			return nil, internal.NewValidationFieldError("organization_id", "organization is required for organization-scoped roles", internal.ErrCodeValidationFailed)
		}
	}

	exists, err := s.repo.NameExists(orgID, dto.Scope, dto.Name, 0)
	if err != nil {
		s.logger.Error("failed to check role name uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create role", err)
	}
	if exists {
		return nil, internal.NewDuplicateError("a role with this name already exists", internal.ErrCodeDuplicateName)
	}

	now := time.Now()
	r := &Role{
		Name:           dto.Name,
		Description:    dto.Description,
		Scope:          dto.Scope,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(r, dto.Permissions); err != nil {
		s.logger.Error("failed to create role", "error", err)
		return nil, internal.NewInternalError("failed to create role", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Role",
		EntityID:   r.ID,
		Detail:     fmt.Sprintf("created %s role %q", r.Scope, r.Name),
	})
	return r, nil
}

func (s *Service) UpdateRole(ctx context.Context, scope tenant.Filter, id int64, dto UpdateRoleDTO) (*Role, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	r, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	if r.IsSystem {
		return nil, internal.NewForbiddenError("system roles cannot be modified", internal.ErrCodeSystemRole)
	}

	if dto.Name != nil && *dto.Name != r.Name {
		exists, err := s.repo.NameExists(r.OrganizationID, r.Scope, *dto.Name, r.ID)
		if err != nil {
			s.logger.Error("failed to check role name uniqueness", "error", err)
			return nil, internal.NewInternalError("failed to update role", err)
		}
		if exists {
			return nil, internal.NewDuplicateError("a role with this name already exists", internal.ErrCodeDuplicateName)
		}
		r.Name = *dto.Name
	}
	if dto.Description != nil {
		r.Description = *dto.Description
	}
	r.UpdatedAt = time.Now()

	if err := s.repo.Update(r); err != nil {
		s.logger.Error("failed to update role", "error", err, "role_id", r.ID)
		return nil, internal.NewInternalError("failed to update role", err)
	}

	if dto.Permissions != nil {
		if err := s.repo.ReplacePermissions(r.ID, *dto.Permissions); err != nil {
			s.logger.Error("failed to replace role permissions", "error", err, "role_id", r.ID)
			return nil, internal.NewInternalError("failed to update role", err)
		}
		r, err = s.repo.GetByID(scope, id)
		if err != nil {
			return nil, internal.ErrRecordNotFound
		}
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Role",
		EntityID:   r.ID,
		Detail:     fmt.Sprintf("updated role %q", r.Name),
	})
	return r, nil
}

// DeleteRole removes a role permanently. System roles and roles still
// assigned to users are protected.
func (s *Service) DeleteRole(ctx context.Context, scope tenant.Filter, id int64) error {
	r, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}
	if r.IsSystem {
		return internal.NewForbiddenError("system roles cannot be deleted", internal.ErrCodeSystemRole)
	}

	count, err := s.repo.UserCount(r.ID)
	if err != nil {
		s.logger.Error("failed to count role assignments", "error", err, "role_id", r.ID)
		return internal.NewInternalError("failed to delete role", err)
	}
	if count > 0 {
		return internal.NewValidationError(
			fmt.Sprintf("role is assigned to %d user(s) and cannot be deleted", count),
			internal.ErrCodeRoleInUse,
		)
	}

	if err := s.repo.Delete(r.ID); err != nil {
		s.logger.Error("failed to delete role", "error", err, "role_id", r.ID)
		return internal.NewInternalError("failed to delete role", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Role",
		EntityID:   r.ID,
		Detail:     fmt.Sprintf("deleted role %q", r.Name),
	})
	return nil
}
