package lead

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
	Create(l *Lead) error
	GetByID(scope tenant.Filter, id int64) (*Lead, error)
	List(scope tenant.Filter, query ListQuery) ([]*Lead, int64, error)
	Update(l *Lead) error
	PhoneExists(orgID int64, phone string, excludeID int64) (bool, error)
}

// ContactConverter is implemented by the contact service; defined here so the
// lead package stays free of a contact import.
type ContactConverter interface {
	ContactExistsForLead(orgID, leadID int64) (bool, error)
	ContactPhoneExists(orgID int64, phone string) (bool, error)
	CreateFromLead(ctx context.Context, l *Lead, createdBy int64) (int64, error)
}

type Service struct {
	repo     RepositoryAPI
	contacts ContactConverter
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

// SetContactConverter wires the contact side of lead conversion; split from the
// constructor because the two services reference each other.
func (s *Service) SetContactConverter(contacts ContactConverter) {
	s.contacts = contacts
}

func (s *Service) ListLeads(principal *internal.Principal, scope tenant.Filter, query ListQuery) ([]*Lead, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 20
	}

	// Ownership narrowing: standard users only see leads they created or were
	// assigned. This stacks on the tenant filter, it never replaces it.
	if !principal.IsSuperAdmin() && !principal.SeesWholeOrganization() {
		query.OwnedBy = &principal.UserID
	}

	leads, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list leads", "error", err)
		return nil, 0, internal.NewInternalError("failed to list leads", err)
	}
	return leads, total, nil
}

func (s *Service) GetLead(scope tenant.Filter, id int64) (*Lead, error) {
	l, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return l, nil
}

func (s *Service) CreateLead(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateLeadDTO) (*Lead, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	exists, err := s.repo.PhoneExists(*orgID, dto.Phone, 0)
	if err != nil {
		s.logger.Error("failed to check lead phone uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create lead", err)
	}
	if exists {
		return nil, internal.NewDuplicateError("a lead with this phone already exists", internal.ErrCodeDuplicatePhone)
	}

	now := time.Now()
	l := &Lead{
		OrganizationID: *orgID,
		CreatedBy:      principal.UserID,
		AssignedTo:     dto.AssignedTo,
		ReferrerID:     dto.ReferrerID,
		Name:           dto.Name,
		Email:          dto.Email,
		Phone:          dto.Phone,
		Source:         dto.Source,
		Status:         StatusNew,
		CustomFields:   dto.CustomFields,
		Tags:           dto.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(l); err != nil {
		s.logger.Error("failed to create lead", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create lead", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Lead",
		EntityID:   l.ID,
		Detail:     fmt.Sprintf("created lead %q", l.Name),
	})

	return l, nil
}

func (s *Service) UpdateLead(ctx context.Context, scope tenant.Filter, id int64, dto UpdateLeadDTO) (*Lead, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	l, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	statusBefore := l.Status

	if dto.Phone != nil && *dto.Phone != l.Phone {
		exists, err := s.repo.PhoneExists(l.OrganizationID, *dto.Phone, l.ID)
		if err != nil {
			return nil, internal.NewInternalError("failed to update lead", err)
		}
		if exists {
			return nil, internal.NewDuplicateError("a lead with this phone already exists", internal.ErrCodeDuplicatePhone)
		}
		l.Phone = *dto.Phone
	}

	if dto.Name != nil {
		l.Name = *dto.Name
	}
	if dto.Email != nil {
		l.Email = *dto.Email
	}
	if dto.Source != nil {
		l.Source = *dto.Source
	}
	if dto.AssignedTo != nil {
		l.AssignedTo = dto.AssignedTo
	}
	if dto.ReferrerID != nil {
		l.ReferrerID = dto.ReferrerID
	}
	if dto.CustomFields != nil {
		l.CustomFields = *dto.CustomFields
	}
	if dto.Tags != nil {
		l.Tags = *dto.Tags
	}
	if dto.Status != nil {
		l.Status = *dto.Status
		if *dto.Status == StatusLost {
			now := time.Now()
			l.LostAt = &now
			if dto.LostReason != nil {
				l.LostReason = *dto.LostReason
			}
		}
	}
	l.UpdatedAt = time.Now()

	if err := s.repo.Update(l); err != nil {
		s.logger.Error("failed to update lead", "error", err, "lead_id", id)
		return nil, internal.NewInternalError("failed to update lead", err)
	}

	detail := fmt.Sprintf("updated lead %q", l.Name)
	if l.Status != statusBefore {
		detail = fmt.Sprintf("updated lead %q, status: %s -> %s", l.Name, statusBefore, l.Status)
	}
	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Lead",
		EntityID:   l.ID,
		Detail:     detail,
	})

	return l, nil
}

func (s *Service) DeleteLead(ctx context.Context, scope tenant.Filter, id int64) error {
	l, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	l.IsDeleted = true
	l.UpdatedAt = time.Now()
	if err := s.repo.Update(l); err != nil {
		s.logger.Error("failed to delete lead", "error", err, "lead_id", id)
		return internal.NewInternalError("failed to delete lead", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Lead",
		EntityID:   l.ID,
		Detail:     fmt.Sprintf("soft-deleted lead %q", l.Name),
	})
	return nil
}

// ConvertLead turns a lead into a contact. The two writes are a deliberate
// two-step saga: the contact insert commits first, then the lead is stamped;
// there is no rollback of the contact if the stamp fails.
func (s *Service) ConvertLead(ctx context.Context, principal *internal.Principal, scope tenant.Filter, id int64) (*Lead, int64, error) {
	l, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, 0, internal.ErrRecordNotFound
	}

	if !l.CanBeConverted() {
		return nil, 0, internal.NewValidationError("lead is already converted", internal.ErrCodeAlreadyConverted)
	}

	// A contact referencing this lead means a previous conversion happened even
	// if the lead flags were reverted out of band.
	converted, err := s.contacts.ContactExistsForLead(l.OrganizationID, l.ID)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to convert lead", err)
	}
	if converted {
		return nil, 0, internal.NewValidationError("lead is already converted", internal.ErrCodeAlreadyConverted)
	}

	phoneTaken, err := s.contacts.ContactPhoneExists(l.OrganizationID, l.Phone)
	if err != nil {
		return nil, 0, internal.NewInternalError("failed to convert lead", err)
	}
	if phoneTaken {
		return nil, 0, internal.NewDuplicateError("a contact with this phone already exists", internal.ErrCodeDuplicatePhone)
	}

	contactID, err := s.contacts.CreateFromLead(ctx, l, principal.UserID)
	if err != nil {
		s.logger.Error("failed to create contact from lead", "error", err, "lead_id", l.ID)
		return nil, 0, internal.NewInternalError("failed to convert lead", err)
	}

	l.MarkConverted(time.Now())
	if err := s.repo.Update(l); err != nil {
		// Contact exists but the lead stamp failed; accepted weak consistency,
		// surfaced in logs only.
		s.logger.Error("failed to stamp lead after conversion", "error", err, "lead_id", l.ID, "contact_id", contactID)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CONVERT",
		EntityType: "Lead",
		EntityID:   l.ID,
		Detail:     fmt.Sprintf("converted lead %q to contact", l.Name),
		Metadata:   map[string]interface{}{"contact_id": contactID},
	})

	return l, contactID, nil
}

// SyncStatus is called by the follow-up service when a follow-up lands in a
// recognized status. Best-effort from the caller's perspective.
func (s *Service) SyncStatus(ctx context.Context, scope tenant.Filter, leadID int64, status, reason string) error {
	l, err := s.repo.GetByID(scope, leadID)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	now := time.Now()
	statusBefore := l.Status
	switch status {
	case StatusConverted:
		l.MarkConverted(now)
	case StatusLost:
		l.Status = StatusLost
		l.LostAt = &now
		l.LostReason = reason
	default:
		l.Status = status
	}
	l.UpdatedAt = now

	if err := s.repo.Update(l); err != nil {
		return err
	}

	if l.Status != statusBefore {
		s.recorder.Record(ctx, audit.Event{
			Action:     "UPDATE",
			EntityType: "Lead",
			EntityID:   l.ID,
			Detail:     fmt.Sprintf("follow-up sync, status: %s -> %s", statusBefore, l.Status),
		})
	}
	return nil
}

// LeadExists reports whether the lead is visible inside the scope.
func (s *Service) LeadExists(scope tenant.Filter, leadID int64) error {
	if _, err := s.repo.GetByID(scope, leadID); err != nil {
		return internal.ErrRecordNotFound
	}
	return nil
}

// RegisterFollowUp bumps the follow-up counter and the next-follow-up date.
func (s *Service) RegisterFollowUp(scope tenant.Filter, leadID int64, scheduledAt time.Time) error {
	l, err := s.repo.GetByID(scope, leadID)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	l.FollowUpCount++
	l.NextFollowUpAt = &scheduledAt
	l.UpdatedAt = time.Now()
	return s.repo.Update(l)
}

// RevertConversion is called by the contact service when a converted contact is
// soft-deleted; the source lead becomes eligible for re-conversion.
func (s *Service) RevertConversion(ctx context.Context, scope tenant.Filter, leadID int64) error {
	l, err := s.repo.GetByID(scope, leadID)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	l.RevertConversion(time.Now())
	if err := s.repo.Update(l); err != nil {
		return err
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Lead",
		EntityID:   l.ID,
		Detail:     fmt.Sprintf("reverted conversion of lead %q", l.Name),
	})
	return nil
}
