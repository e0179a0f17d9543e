package followup

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
	Create(f *FollowUp) error
	GetByID(scope tenant.Filter, id int64) (*FollowUp, error)
	List(scope tenant.Filter, query ListQuery) ([]*FollowUp, int64, error)
	Update(f *FollowUp) error
}

// LeadSyncer mirrors follow-up progress onto the linked lead. Implemented by
// the lead service; defined here so this package stays free of a lead import.
type LeadSyncer interface {
	LeadExists(scope tenant.Filter, leadID int64) error
	SyncStatus(ctx context.Context, scope tenant.Filter, leadID int64, status, reason string) error
	RegisterFollowUp(scope tenant.Filter, leadID int64, scheduledAt time.Time) error
}

// leadStatusFor maps a follow-up status onto the lead status it implies.
var leadStatusFor = map[string]string{
	StatusPending:    "Follow Up",
	StatusInProgress: "In Progress",
	StatusCompleted:  "Completed",
	StatusConverted:  "Converted",
	StatusLost:       "Lost",
}

type Service struct {
	repo     RepositoryAPI
	leads    LeadSyncer
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, leads LeadSyncer, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, leads: leads, recorder: recorder, logger: logger}
}

func (s *Service) ListFollowUps(principal *internal.Principal, scope tenant.Filter, query ListQuery) ([]*FollowUp, int64, error) {
	// Standard users only see follow-ups they created or were assigned; this
	// stacks on the tenant filter, it never replaces it.
	if !principal.IsSuperAdmin() && !principal.SeesWholeOrganization() {
		query.OwnedBy = &principal.UserID
	}

	followUps, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list follow-ups", "error", err)
		return nil, 0, internal.NewInternalError("failed to list follow-ups", err)
	}
	return followUps, total, nil
}

func (s *Service) GetFollowUp(scope tenant.Filter, id int64) (*FollowUp, error) {
	f, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return f, nil
}

// CreateFollowUp persists the follow-up, then mirrors it onto the lead: the
// counter bump and the status sync are secondary writes that log and continue
// on failure, so a lead-side error never loses the follow-up itself.
func (s *Service) CreateFollowUp(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateFollowUpDTO) (*FollowUp, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}
	writeScope := tenant.Filter{OrganizationID: orgID}

	if err := s.leads.LeadExists(writeScope, dto.LeadID); err != nil {
		return nil, err
	}

	now := time.Now()
	f := &FollowUp{
		OrganizationID: *orgID,
		LeadID:         dto.LeadID,
		CreatedBy:      principal.UserID,
		AssignedTo:     dto.AssignedTo,
		ScheduledAt:    dto.ScheduledAt,
		Status:         dto.Status,
		Notes:          dto.Notes,
		Reason:         dto.Reason,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if f.Terminal() {
		f.CompletedAt = &now
	}
	if err := s.repo.Create(f); err != nil {
		s.logger.Error("failed to create follow-up", "error", err, "lead_id", dto.LeadID)
		return nil, internal.NewInternalError("failed to create follow-up", err)
	}

	if err := s.leads.RegisterFollowUp(writeScope, f.LeadID, f.ScheduledAt); err != nil {
		s.logger.Error("failed to bump lead follow-up counter",
			"follow_up_id", f.ID, "lead_id", f.LeadID, "error", err)
	}
	s.syncLead(ctx, writeScope, f)

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "FollowUp",
		EntityID:   f.ID,
		Detail:     fmt.Sprintf("created follow-up for lead %d with status %s", f.LeadID, f.Status),
	})
	return f, nil
}

func (s *Service) UpdateFollowUp(ctx context.Context, scope tenant.Filter, id int64, dto UpdateFollowUpDTO) (*FollowUp, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	f, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	now := time.Now()
	statusBefore := f.Status
	if dto.AssignedTo != nil {
		f.AssignedTo = dto.AssignedTo
	}
	if dto.ScheduledAt != nil {
		f.ScheduledAt = *dto.ScheduledAt
	}
	if dto.Notes != nil {
		f.Notes = *dto.Notes
	}
	if dto.Reason != nil {
		f.Reason = *dto.Reason
	}
	if dto.Status != nil {
		f.Status = *dto.Status
		if f.Terminal() && f.CompletedAt == nil {
			f.CompletedAt = &now
		}
	}
	f.UpdatedAt = now

	if err := s.repo.Update(f); err != nil {
		s.logger.Error("failed to update follow-up", "error", err, "follow_up_id", f.ID)
		return nil, internal.NewInternalError("failed to update follow-up", err)
	}

	if f.Status != statusBefore {
		s.syncLead(ctx, scope, f)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "FollowUp",
		EntityID:   f.ID,
		Detail:     fmt.Sprintf("updated follow-up for lead %d, status: %s -> %s", f.LeadID, statusBefore, f.Status),
	})
	return f, nil
}

func (s *Service) DeleteFollowUp(ctx context.Context, scope tenant.Filter, id int64) error {
	f, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	f.IsDeleted = true
	f.UpdatedAt = time.Now()
	if err := s.repo.Update(f); err != nil {
		s.logger.Error("failed to delete follow-up", "error", err, "follow_up_id", f.ID)
		return internal.NewInternalError("failed to delete follow-up", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "FollowUp",
		EntityID:   f.ID,
		Detail:     fmt.Sprintf("deleted follow-up for lead %d", f.LeadID),
	})
	return nil
}

// CreatePending records a system-generated pending follow-up, used when an
// activity requests one. Callers treat failures as non-fatal.
func (s *Service) CreatePending(ctx context.Context, scope tenant.Filter, orgID, leadID, createdBy int64, scheduledAt time.Time, notes string) (*FollowUp, error) {
	writeScope := tenant.Filter{OrganizationID: &orgID}
	if err := s.leads.LeadExists(writeScope, leadID); err != nil {
		return nil, err
	}

	now := time.Now()
	f := &FollowUp{
		OrganizationID: orgID,
		LeadID:         leadID,
		CreatedBy:      createdBy,
		ScheduledAt:    scheduledAt,
		Status:         StatusPending,
		Notes:          notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(f); err != nil {
		return nil, err
	}

	if err := s.leads.RegisterFollowUp(writeScope, leadID, scheduledAt); err != nil {
		s.logger.Error("failed to bump lead follow-up counter",
			"follow_up_id", f.ID, "lead_id", leadID, "error", err)
	}
	s.syncLead(ctx, writeScope, f)
	return f, nil
}

// syncLead mirrors the follow-up status onto the lead. Failures are logged
// and swallowed; the follow-up write already succeeded.
func (s *Service) syncLead(ctx context.Context, scope tenant.Filter, f *FollowUp) {
	leadStatus, ok := leadStatusFor[f.Status]
	if !ok {
		return
	}
	if err := s.leads.SyncStatus(ctx, scope, f.LeadID, leadStatus, f.Reason); err != nil {
		s.logger.Error("failed to sync lead status from follow-up",
			"follow_up_id", f.ID, "lead_id", f.LeadID, "status", f.Status, "error", err)
	}
}
