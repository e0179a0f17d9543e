package organization

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
)

type RepositoryAPI interface {
	Create(o *Organization) error
	GetByID(id int64) (*Organization, error)
	List(query ListQuery) ([]*Organization, int64, error)
	Update(o *Organization) error
	NameExists(name string, excludeID int64) (bool, error)
	// Purge hard-deletes the organization and every record scoped to it.
	Purge(id int64) error
}

type Service struct {
	repo     RepositoryAPI
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (s *Service) ListOrganizations(query ListQuery) ([]*Organization, int64, error) {
	orgs, total, err := s.repo.List(query)
	if err != nil {
		s.logger.Error("failed to list organizations", "error", err)
		return nil, 0, internal.NewInternalError("failed to list organizations", err)
	}
	return orgs, total, nil
}

func (s *Service) GetOrganization(id int64) (*Organization, error) {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return o, nil
}

// Initials resolves the invoice-number initials for an organization.
func (s *Service) Initials(orgID int64) (string, error) {
	o, err := s.repo.GetByID(orgID)
	if err != nil {
		return "", internal.ErrRecordNotFound
	}
	if o.Initials != "" {
		return o.Initials, nil
	}
	return InitialsFromName(o.Name), nil
}

func (s *Service) CreateOrganization(ctx context.Context, dto CreateOrganizationDTO) (*Organization, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.NameExists(dto.Name, 0)
	if err != nil {
		s.logger.Error("failed to check organization name uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create organization", err)
	}
	if exists {
		return nil, internal.NewDuplicateError("an organization with this name already exists", internal.ErrCodeDuplicateName)
	}

	initials := dto.Initials
	if initials == "" {
		initials = InitialsFromName(dto.Name)
	}

	now := time.Now()
	o := &Organization{
		Name:      dto.Name,
		Initials:  initials,
		Email:     dto.Email,
		Phone:     dto.Phone,
		Address:   dto.Address,
		Website:   dto.Website,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(o); err != nil {
		s.logger.Error("failed to create organization", "error", err)
		return nil, internal.NewInternalError("failed to create organization", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Organization",
		EntityID:   o.ID,
		Detail:     fmt.Sprintf("created organization %q", o.Name),
	})
	return o, nil
}

func (s *Service) UpdateOrganization(ctx context.Context, id int64, dto UpdateOrganizationDTO) (*Organization, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	o, err := s.repo.GetByID(id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	if dto.Name != nil && *dto.Name != o.Name {
		exists, err := s.repo.NameExists(*dto.Name, o.ID)
		if err != nil {
			s.logger.Error("failed to check organization name uniqueness", "error", err)
			return nil, internal.NewInternalError("failed to update organization", err)
		}
		if exists {
			return nil, internal.NewDuplicateError("an organization with this name already exists", internal.ErrCodeDuplicateName)
		}
		o.Name = *dto.Name
	}
	if dto.Initials != nil {
		o.Initials = *dto.Initials
	}
	if dto.Email != nil {
		o.Email = *dto.Email
	}
	if dto.Phone != nil {
		o.Phone = *dto.Phone
	}
	if dto.Address != nil {
		o.Address = *dto.Address
	}
	if dto.Website != nil {
		o.Website = *dto.Website
	}
	if dto.IsActive != nil {
		o.IsActive = *dto.IsActive
	}
	o.UpdatedAt = time.Now()

	if err := s.repo.Update(o); err != nil {
		s.logger.Error("failed to update organization", "error", err, "organization_id", o.ID)
		return nil, internal.NewInternalError("failed to update organization", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Organization",
		EntityID:   o.ID,
		Detail:     fmt.Sprintf("updated organization %q", o.Name),
	})
	return o, nil
}

// DeleteOrganization hard-deletes the organization and everything scoped to
// it. This is the only cascade hard delete in the system and is restricted to
// super admins at the route level.
func (s *Service) DeleteOrganization(ctx context.Context, id int64) error {
	o, err := s.repo.GetByID(id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	if err := s.repo.Purge(o.ID); err != nil {
		s.logger.Error("failed to purge organization", "error", err, "organization_id", o.ID)
		return internal.NewInternalError("failed to delete organization", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Organization",
		EntityID:   o.ID,
		Detail:     fmt.Sprintf("purged organization %q and all scoped records", o.Name),
	})
	return nil
}
