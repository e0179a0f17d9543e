package billing

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/counter"
	"github.com/crmkit/lead-management/internal/tenant"
)

type RepositoryAPI interface {
	Create(b *Billing) error
	GetByID(scope tenant.Filter, id int64) (*Billing, error)
	List(scope tenant.Filter, query ListQuery) ([]*Billing, int64, error)
	Update(b *Billing) error
	ReplaceItems(billingID int64, items []BillingItem) error
}

// OrganizationNamer supplies the initials embedded in invoice numbers.
// Implemented by the organization service.
type OrganizationNamer interface {
	Initials(orgID int64) (string, error)
}

type Service struct {
	repo     RepositoryAPI
	seq      counter.Sequencer
	orgs     OrganizationNamer
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, seq counter.Sequencer, orgs OrganizationNamer, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, seq: seq, orgs: orgs, recorder: recorder, logger: logger}
}

func (s *Service) ListBillings(principal *internal.Principal, scope tenant.Filter, query ListQuery) ([]*Billing, int64, error) {
	// Standard users only see invoices they created; this stacks on the
	// tenant filter, it never replaces it.
	if !principal.IsSuperAdmin() && !principal.SeesWholeOrganization() {
		query.OwnedBy = &principal.UserID
	}

	billings, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list billings", "error", err)
		return nil, 0, internal.NewInternalError("failed to list billings", err)
	}
	return billings, total, nil
}

func (s *Service) GetBilling(scope tenant.Filter, id int64) (*Billing, error) {
	b, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return b, nil
}

// CreateBilling issues a new invoice: totals are recomputed from the submitted
// line items and the invoice number is drawn from the global and
// per-organization sequences.
func (s *Service) CreateBilling(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateBillingDTO) (*Billing, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	issuedAt := now
	if dto.IssuedAt != nil {
		issuedAt = *dto.IssuedAt
	}

	invoiceNumber, err := s.nextInvoiceNumber(*orgID, issuedAt.Year())
	if err != nil {
		s.logger.Error("failed to allocate invoice number", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create billing", err)
	}

	b := &Billing{
		OrganizationID: *orgID,
		ContactID:      dto.ContactID,
		CreatedBy:      principal.UserID,
		InvoiceNumber:  invoiceNumber,
		Status:         StatusDraft,
		IssuedAt:       issuedAt,
		DueAt:          dto.DueAt,
		Discount:       dto.Discount,
		Notes:          dto.Notes,
		Items:          buildItems(dto.Items),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	b.RecomputeTotals()

	if err := s.repo.Create(b); err != nil {
		s.logger.Error("failed to create billing", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create billing", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Billing",
		EntityID:   b.ID,
		Detail:     fmt.Sprintf("issued invoice %s", b.InvoiceNumber),
		Metadata:   map[string]interface{}{"grand_total": b.GrandTotal},
	})
	return b, nil
}

func (s *Service) UpdateBilling(ctx context.Context, scope tenant.Filter, id int64, dto UpdateBillingDTO) (*Billing, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	now := time.Now()
	statusBefore := b.Status
	if dto.ContactID != nil {
		b.ContactID = dto.ContactID
	}
	if dto.IssuedAt != nil {
		b.IssuedAt = *dto.IssuedAt
	}
	if dto.DueAt != nil {
		b.DueAt = dto.DueAt
	}
	if dto.Discount != nil {
		b.Discount = *dto.Discount
	}
	if dto.Notes != nil {
		b.Notes = *dto.Notes
	}
	if dto.Status != nil {
		b.Status = *dto.Status
		if b.Status == StatusPaid && b.PaidAt == nil {
			b.PaidAt = &now
		}
	}
	if dto.Items != nil {
		b.Items = buildItems(*dto.Items)
		for i := range b.Items {
			b.Items[i].BillingID = b.ID
		}
	}
	b.RecomputeTotals()
	b.UpdatedAt = now

	if dto.Items != nil {
		if err := s.repo.ReplaceItems(b.ID, b.Items); err != nil {
			s.logger.Error("failed to replace billing items", "error", err, "billing_id", b.ID)
			return nil, internal.NewInternalError("failed to update billing", err)
		}
	}

	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to update billing", "error", err, "billing_id", b.ID)
		return nil, internal.NewInternalError("failed to update billing", err)
	}

	detail := fmt.Sprintf("updated invoice %s", b.InvoiceNumber)
	if b.Status != statusBefore {
		detail = fmt.Sprintf("updated invoice %s, status: %s -> %s", b.InvoiceNumber, statusBefore, b.Status)
	}
	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Billing",
		EntityID:   b.ID,
		Detail:     detail,
	})
	return b, nil
}

func (s *Service) DeleteBilling(ctx context.Context, scope tenant.Filter, id int64) error {
	b, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	b.IsDeleted = true
	b.UpdatedAt = time.Now()
	if err := s.repo.Update(b); err != nil {
		s.logger.Error("failed to delete billing", "error", err, "billing_id", b.ID)
		return internal.NewInternalError("failed to delete billing", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Billing",
		EntityID:   b.ID,
		Detail:     fmt.Sprintf("deleted invoice %s", b.InvoiceNumber),
	})
	return nil
}

// nextInvoiceNumber draws from the global and per-organization sequences.
// Each draw is a single atomic upsert-increment, so concurrent invoice
// creations always receive distinct numbers.
func (s *Service) nextInvoiceNumber(orgID int64, year int) (string, error) {
	globalSeq, err := s.seq.Next(counter.InvoiceGlobalKey())
	if err != nil {
		return "", err
	}
	orgSeq, err := s.seq.Next(counter.InvoiceOrgKey(orgID))
	if err != nil {
		return "", err
	}
	initials, err := s.orgs.Initials(orgID)
	if err != nil {
		return "", err
	}
	return FormatInvoiceNumber(globalSeq, year, initials, orgSeq), nil
}

func buildItems(dtos []BillingItemDTO) []BillingItem {
	items := make([]BillingItem, 0, len(dtos))
	for _, d := range dtos {
		items = append(items, BillingItem{
			ServiceID:   d.ServiceID,
			Description: d.Description,
			Quantity:    d.Quantity,
			UnitAmount:  d.UnitAmount,
			TaxAmount:   d.TaxAmount,
		})
	}
	return items
}
