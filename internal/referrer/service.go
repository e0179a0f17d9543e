package referrer

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
	Create(rf *Referrer) error
	GetByID(scope tenant.Filter, id int64) (*Referrer, error)
	List(scope tenant.Filter, query ListQuery) ([]*Referrer, int64, error)
	Update(rf *Referrer) error
}

type Service struct {
	repo     RepositoryAPI
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (s *Service) ListReferrers(scope tenant.Filter, query ListQuery) ([]*Referrer, int64, error) {
	referrers, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list referrers", "error", err)
		return nil, 0, internal.NewInternalError("failed to list referrers", err)
	}
	return referrers, total, nil
}

func (s *Service) GetReferrer(scope tenant.Filter, id int64) (*Referrer, error) {
	rf, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return rf, nil
}

func (s *Service) CreateReferrer(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateReferrerDTO) (*Referrer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	rf := &Referrer{
		OrganizationID: *orgID,
		CreatedBy:      principal.UserID,
		Name:           dto.Name,
		Email:          dto.Email,
		Phone:          dto.Phone,
		Company:        dto.Company,
		Notes:          dto.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(rf); err != nil {
		s.logger.Error("failed to create referrer", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create referrer", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Referrer",
		EntityID:   rf.ID,
		Detail:     fmt.Sprintf("created referrer %q", rf.Name),
	})
	return rf, nil
}

func (s *Service) UpdateReferrer(ctx context.Context, scope tenant.Filter, id int64, dto UpdateReferrerDTO) (*Referrer, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	rf, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	if dto.Name != nil {
		rf.Name = *dto.Name
	}
	if dto.Email != nil {
		rf.Email = *dto.Email
	}
	if dto.Phone != nil {
		rf.Phone = *dto.Phone
	}
	if dto.Company != nil {
		rf.Company = *dto.Company
	}
	if dto.Notes != nil {
		rf.Notes = *dto.Notes
	}
	rf.UpdatedAt = time.Now()

	if err := s.repo.Update(rf); err != nil {
		s.logger.Error("failed to update referrer", "error", err, "referrer_id", rf.ID)
		return nil, internal.NewInternalError("failed to update referrer", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Referrer",
		EntityID:   rf.ID,
		Detail:     fmt.Sprintf("updated referrer %q", rf.Name),
	})
	return rf, nil
}

func (s *Service) DeleteReferrer(ctx context.Context, scope tenant.Filter, id int64) error {
	rf, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	rf.IsDeleted = true
	rf.UpdatedAt = time.Now()
	if err := s.repo.Update(rf); err != nil {
		s.logger.Error("failed to delete referrer", "error", err, "referrer_id", rf.ID)
		return internal.NewInternalError("failed to delete referrer", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Referrer",
		EntityID:   rf.ID,
		Detail:     fmt.Sprintf("deleted referrer %q", rf.Name),
	})
	return nil
}
