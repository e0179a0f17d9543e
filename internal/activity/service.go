package activity

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/followup"
	"github.com/crmkit/lead-management/internal/tenant"
)

type RepositoryAPI interface {
	Create(a *Activity) error
	GetByID(scope tenant.Filter, id int64) (*Activity, error)
	List(scope tenant.Filter, query ListQuery) ([]*Activity, int64, error)
	Update(a *Activity) error
}

// FollowUpCreator schedules the auxiliary follow-up an activity can request.
// Implemented by the follow-up service.
type FollowUpCreator interface {
	CreatePending(ctx context.Context, scope tenant.Filter, orgID, leadID, createdBy int64, scheduledAt time.Time, notes string) (*followup.FollowUp, error)
}

// SourceLeadResolver maps a contact back to its originating lead, when one
// exists. Implemented by the contact service.
type SourceLeadResolver interface {
	SourceLeadID(scope tenant.Filter, contactID int64) (*int64, error)
}

type Service struct {
	repo      RepositoryAPI
	followUps FollowUpCreator
	contacts  SourceLeadResolver
	recorder  audit.Recorder
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, followUps FollowUpCreator, contacts SourceLeadResolver, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, followUps: followUps, contacts: contacts, recorder: recorder, logger: logger}
}

func (s *Service) ListActivities(principal *internal.Principal, scope tenant.Filter, query ListQuery) ([]*Activity, int64, error) {
	// Standard users only see activities they created; this stacks on the
	// tenant filter, it never replaces it.
	if !principal.IsSuperAdmin() && !principal.SeesWholeOrganization() {
		query.OwnedBy = &principal.UserID
	}

	activities, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list activities", "error", err)
		return nil, 0, internal.NewInternalError("failed to list activities", err)
	}
	return activities, total, nil
}

func (s *Service) GetActivity(scope tenant.Filter, id int64) (*Activity, error) {
	a, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return a, nil
}

// CreateActivity logs the activity and, when a follow-up was requested,
// schedules a pending follow-up on the related lead. The follow-up write is
// auxiliary: its failure is logged and the activity creation still succeeds.
func (s *Service) CreateActivity(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateActivityDTO) (*Activity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	a := &Activity{
		OrganizationID:   *orgID,
		CreatedBy:        principal.UserID,
		LeadID:           dto.LeadID,
		ContactID:        dto.ContactID,
		Type:             dto.Type,
		Subject:          dto.Subject,
		Description:      dto.Description,
		ActivityAt:       dto.ActivityAt,
		FollowUpRequired: dto.FollowUpRequired,
		FollowUpAt:       dto.FollowUpAt,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.repo.Create(a); err != nil {
		s.logger.Error("failed to create activity", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create activity", err)
	}

	if a.FollowUpRequired && a.FollowUpAt != nil {
		s.scheduleFollowUp(ctx, principal, a)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Activity",
		EntityID:   a.ID,
		Detail:     fmt.Sprintf("logged %s activity %q", a.Type, a.Subject),
	})
	return a, nil
}

func (s *Service) UpdateActivity(ctx context.Context, scope tenant.Filter, id int64, dto UpdateActivityDTO) (*Activity, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	a, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	if dto.Type != nil {
		a.Type = *dto.Type
	}
	if dto.Subject != nil {
		a.Subject = *dto.Subject
	}
	if dto.Description != nil {
		a.Description = *dto.Description
	}
	if dto.ActivityAt != nil {
		a.ActivityAt = *dto.ActivityAt
	}
	a.UpdatedAt = time.Now()

	if err := s.repo.Update(a); err != nil {
		s.logger.Error("failed to update activity", "error", err, "activity_id", a.ID)
		return nil, internal.NewInternalError("failed to update activity", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Activity",
		EntityID:   a.ID,
		Detail:     fmt.Sprintf("updated activity %q", a.Subject),
	})
	return a, nil
}

func (s *Service) DeleteActivity(ctx context.Context, scope tenant.Filter, id int64) error {
	a, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	a.IsDeleted = true
	a.UpdatedAt = time.Now()
	if err := s.repo.Update(a); err != nil {
		s.logger.Error("failed to delete activity", "error", err, "activity_id", a.ID)
		return internal.NewInternalError("failed to delete activity", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Activity",
		EntityID:   a.ID,
		Detail:     fmt.Sprintf("deleted activity %q", a.Subject),
	})
	return nil
}

// scheduleFollowUp resolves the target lead (directly, or through the
// contact's originating lead) and creates a pending follow-up. Any failure
// here is swallowed after logging.
func (s *Service) scheduleFollowUp(ctx context.Context, principal *internal.Principal, a *Activity) {
	scope := tenant.Filter{OrganizationID: &a.OrganizationID}

	leadID := a.LeadID
	if leadID == nil && a.ContactID != nil {
		resolved, err := s.contacts.SourceLeadID(scope, *a.ContactID)
		if err != nil {
			s.logger.Error("failed to resolve source lead for activity follow-up",
				"activity_id", a.ID, "contact_id", *a.ContactID, "error", err)
			return
		}
		leadID = resolved
	}
	if leadID == nil {
		return
	}

	notes := fmt.Sprintf("Auto-created from activity %q", a.Subject)
	if _, err := s.followUps.CreatePending(ctx, scope, a.OrganizationID, *leadID, principal.UserID, *a.FollowUpAt, notes); err != nil {
		s.logger.Error("failed to auto-create follow-up for activity",
			"activity_id", a.ID, "lead_id", *leadID, "error", err)
	}
}
