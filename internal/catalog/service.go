package catalog

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
	Create(svc *Service) error
	GetByID(scope tenant.Filter, id int64) (*Service, error)
	List(scope tenant.Filter, query ListQuery) ([]*Service, int64, error)
	Update(svc *Service) error
	NameExists(orgID int64, name string, excludeID int64) (bool, error)
}

// Manager holds the price-list business logic. Named so because the entity
// itself is called Service.
type Manager struct {
	repo     RepositoryAPI
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewManager(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger) *Manager {
	return &Manager{repo: repo, recorder: recorder, logger: logger}
}

func (m *Manager) ListServices(scope tenant.Filter, query ListQuery) ([]*Service, int64, error) {
	services, total, err := m.repo.List(scope, query)
	if err != nil {
		m.logger.Error("failed to list services", "error", err)
		return nil, 0, internal.NewInternalError("failed to list services", err)
	}
	return services, total, nil
}

func (m *Manager) GetService(scope tenant.Filter, id int64) (*Service, error) {
	svc, err := m.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return svc, nil
}

func (m *Manager) CreateService(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateServiceDTO) (*Service, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	exists, err := m.repo.NameExists(*orgID, dto.Name, 0)
	if err != nil {
		m.logger.Error("failed to check service name uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create service", err)
	}
	if exists {
		return nil, internal.NewDuplicateError("a service with this name already exists", internal.ErrCodeDuplicateName)
	}

	now := time.Now()
	svc := &Service{
		OrganizationID: *orgID,
		CreatedBy:      principal.UserID,
		Name:           dto.Name,
		Description:    dto.Description,
		Price:          dto.Price,
		TaxRate:        dto.TaxRate,
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := m.repo.Create(svc); err != nil {
		m.logger.Error("failed to create service", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create service", err)
	}

	m.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Service",
		EntityID:   svc.ID,
		Detail:     fmt.Sprintf("created service %q", svc.Name),
	})
	return svc, nil
}

func (m *Manager) UpdateService(ctx context.Context, scope tenant.Filter, id int64, dto UpdateServiceDTO) (*Service, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	svc, err := m.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	if dto.Name != nil && *dto.Name != svc.Name {
		exists, err := m.repo.NameExists(svc.OrganizationID, *dto.Name, svc.ID)
		if err != nil {
			m.logger.Error("failed to check service name uniqueness", "error", err)
			return nil, internal.NewInternalError("failed to update service", err)
		}
		if exists {
			return nil, internal.NewDuplicateError("a service with this name already exists", internal.ErrCodeDuplicateName)
		}
		svc.Name = *dto.Name
	}
	if dto.Description != nil {
		svc.Description = *dto.Description
	}
	if dto.Price != nil {
		svc.Price = *dto.Price
	}
	if dto.TaxRate != nil {
		svc.TaxRate = *dto.TaxRate
	}
	if dto.IsActive != nil {
		svc.IsActive = *dto.IsActive
	}
	svc.UpdatedAt = time.Now()

	if err := m.repo.Update(svc); err != nil {
		m.logger.Error("failed to update service", "error", err, "service_id", svc.ID)
		return nil, internal.NewInternalError("failed to update service", err)
	}

	m.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Service",
		EntityID:   svc.ID,
		Detail:     fmt.Sprintf("updated service %q", svc.Name),
	})
	return svc, nil
}

func (m *Manager) DeleteService(ctx context.Context, scope tenant.Filter, id int64) error {
	svc, err := m.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	svc.IsDeleted = true
	svc.UpdatedAt = time.Now()
	if err := m.repo.Update(svc); err != nil {
		m.logger.Error("failed to delete service", "error", err, "service_id", svc.ID)
		return internal.NewInternalError("failed to delete service", err)
	}

	m.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Service",
		EntityID:   svc.ID,
		Detail:     fmt.Sprintf("deleted service %q", svc.Name),
	})
	return nil
}
