package contact

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/lead"
	"github.com/crmkit/lead-management/internal/tenant"
)

type RepositoryAPI interface {
	Create(c *Contact) error
	GetByID(scope tenant.Filter, id int64) (*Contact, error)
	List(scope tenant.Filter, query ListQuery) ([]*Contact, int64, error)
	Update(c *Contact) error
	PhoneExists(orgID int64, phone string, excludeID int64) (bool, error)
	ExistsForLead(orgID, leadID int64) (bool, error)
}

// SourceLeadReverter undoes a lead conversion when its contact is removed.
// Implemented by the lead service.
type SourceLeadReverter interface {
	RevertConversion(ctx context.Context, scope tenant.Filter, leadID int64) error
}

type Service struct {
	repo     RepositoryAPI
	leads    SourceLeadReverter
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, leads SourceLeadReverter, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, leads: leads, recorder: recorder, logger: logger}
}

func (s *Service) ListContacts(principal *internal.Principal, scope tenant.Filter, query ListQuery) ([]*Contact, int64, error) {
	// Standard users only see contacts they created; this stacks on the
	// tenant filter, it never replaces it.
	if !principal.IsSuperAdmin() && !principal.SeesWholeOrganization() {
		query.OwnedBy = &principal.UserID
	}

	contacts, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list contacts", "error", err)
		return nil, 0, internal.NewInternalError("failed to list contacts", err)
	}
	return contacts, total, nil
}

func (s *Service) GetContact(scope tenant.Filter, id int64) (*Contact, error) {
	c, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return c, nil
}

// SourceLeadID returns the originating lead of a contact, or nil when the
// contact was entered directly.
func (s *Service) SourceLeadID(scope tenant.Filter, contactID int64) (*int64, error) {
	c, err := s.repo.GetByID(scope, contactID)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return c.LeadID, nil
}

func (s *Service) CreateContact(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateContactDTO) (*Contact, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	exists, err := s.repo.PhoneExists(*orgID, dto.Phone, 0)
	if err != nil {
		s.logger.Error("failed to check contact phone uniqueness", "error", err)
		return nil, internal.NewInternalError("failed to create contact", err)
	}
	if exists {
		return nil, internal.NewDuplicateError("a contact with this phone already exists", internal.ErrCodeDuplicatePhone)
	}

	now := time.Now()
	c := &Contact{
		OrganizationID: *orgID,
		CreatedBy:      principal.UserID,
		Name:           dto.Name,
		Email:          dto.Email,
		Phone:          dto.Phone,
		Address:        dto.Address,
		Notes:          dto.Notes,
		Tags:           dto.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(c); err != nil {
		s.logger.Error("failed to create contact", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create contact", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Contact",
		EntityID:   c.ID,
		Detail:     fmt.Sprintf("created contact %q", c.Name),
	})
	return c, nil
}

func (s *Service) UpdateContact(ctx context.Context, scope tenant.Filter, id int64, dto UpdateContactDTO) (*Contact, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	if dto.Phone != nil && *dto.Phone != c.Phone {
		exists, err := s.repo.PhoneExists(c.OrganizationID, *dto.Phone, c.ID)
		if err != nil {
			s.logger.Error("failed to check contact phone uniqueness", "error", err)
			return nil, internal.NewInternalError("failed to update contact", err)
		}
		if exists {
			return nil, internal.NewDuplicateError("a contact with this phone already exists", internal.ErrCodeDuplicatePhone)
		}
	}

	dto.ApplyTo(c)
	c.UpdatedAt = time.Now()
	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to update contact", "error", err, "contact_id", c.ID)
		return nil, internal.NewInternalError("failed to update contact", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Contact",
		EntityID:   c.ID,
		Detail:     fmt.Sprintf("updated contact %q", c.Name),
	})
	return c, nil
}

// DeleteContact soft-deletes the contact. When the contact came from a lead
// conversion, the source lead is reverted so it can be converted again; the
// reversal is best effort and never blocks the delete.
func (s *Service) DeleteContact(ctx context.Context, scope tenant.Filter, id int64) error {
	c, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	now := time.Now()
	c.IsDeleted = true
	c.DeletedAt = &now
	c.UpdatedAt = now
	if err := s.repo.Update(c); err != nil {
		s.logger.Error("failed to delete contact", "error", err, "contact_id", c.ID)
		return internal.NewInternalError("failed to delete contact", err)
	}

	if c.LeadID != nil {
		if err := s.leads.RevertConversion(ctx, scope, *c.LeadID); err != nil {
			s.logger.Error("failed to revert source lead after contact delete",
				"contact_id", c.ID, "lead_id", *c.LeadID, "error", err)
		}
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Contact",
		EntityID:   c.ID,
		Detail:     fmt.Sprintf("deleted contact %q", c.Name),
	})
	return nil
}

// ContactExistsForLead reports whether a live contact already points at the
// lead. Part of the conversion guard.
func (s *Service) ContactExistsForLead(orgID, leadID int64) (bool, error) {
	return s.repo.ExistsForLead(orgID, leadID)
}

func (s *Service) ContactPhoneExists(orgID int64, phone string) (bool, error) {
	return s.repo.PhoneExists(orgID, phone, 0)
}

// CreateFromLead materializes a contact from a lead during conversion. Only
// identity fields carry over; lead bookkeeping stays on the lead.
func (s *Service) CreateFromLead(ctx context.Context, l *lead.Lead, createdBy int64) (int64, error) {
	now := time.Now()
	c := &Contact{
		OrganizationID: l.OrganizationID,
		LeadID:         &l.ID,
		CreatedBy:      createdBy,
		Name:           l.Name,
		Email:          l.Email,
		Phone:          l.Phone,
		Tags:           l.Tags,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Create(c); err != nil {
		return 0, err
	}
	return c.ID, nil
}
