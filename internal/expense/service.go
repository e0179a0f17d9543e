package expense

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
	Create(e *Expense) error
	GetByID(scope tenant.Filter, id int64) (*Expense, error)
	List(scope tenant.Filter, query ListQuery) ([]*Expense, int64, error)
	Update(e *Expense) error
}

type Service struct {
	repo     RepositoryAPI
	recorder audit.Recorder
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, recorder audit.Recorder, logger *slog.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (s *Service) ListExpenses(principal *internal.Principal, scope tenant.Filter, query ListQuery) ([]*Expense, int64, error) {
	// Standard users only see expenses they created; this stacks on the
	// tenant filter, it never replaces it.
	if !principal.IsSuperAdmin() && !principal.SeesWholeOrganization() {
		query.OwnedBy = &principal.UserID
	}

	expenses, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list expenses", "error", err)
		return nil, 0, internal.NewInternalError("failed to list expenses", err)
	}
	return expenses, total, nil
}

func (s *Service) GetExpense(scope tenant.Filter, id int64) (*Expense, error) {
	e, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}
	return e, nil
}

func (s *Service) CreateExpense(ctx context.Context, principal *internal.Principal, scope tenant.Filter, dto CreateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	orgID := scope.ResolveWriteOrg(dto.OrganizationID, principal)
	if orgID == nil {
		return nil, internal.NewValidationFieldError("organization_id", "organization is required", internal.ErrCodeValidationFailed)
	}

	now := time.Now()
	e := &Expense{
		OrganizationID:  *orgID,
		CreatedBy:       principal.UserID,
		Amount:          dto.Amount,
		Description:     dto.Description,
		Category:        dto.Category,
		ReceiptURL:      dto.ReceiptURL,
		ReceiptFileName: dto.ReceiptFileName,
		ExpenseDate:     dto.ExpenseDate,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.repo.Create(e); err != nil {
		s.logger.Error("failed to create expense", "error", err, "organization_id", *orgID)
		return nil, internal.NewInternalError("failed to create expense", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "CREATE",
		EntityType: "Expense",
		EntityID:   e.ID,
		Detail:     fmt.Sprintf("recorded expense %q", e.Description),
		Metadata:   map[string]interface{}{"amount": e.Amount},
	})
	return e, nil
}

func (s *Service) UpdateExpense(ctx context.Context, scope tenant.Filter, id int64, dto UpdateExpenseDTO) (*Expense, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	e, err := s.repo.GetByID(scope, id)
	if err != nil {
		return nil, internal.ErrRecordNotFound
	}

	if dto.Amount != nil {
		e.Amount = *dto.Amount
	}
	if dto.Description != nil {
		e.Description = *dto.Description
	}
	if dto.Category != nil {
		e.Category = *dto.Category
	}
	if dto.ExpenseDate != nil {
		e.ExpenseDate = *dto.ExpenseDate
	}
	if dto.ReceiptURL != nil {
		e.ReceiptURL = dto.ReceiptURL
	}
	if dto.ReceiptFileName != nil {
		e.ReceiptFileName = dto.ReceiptFileName
	}
	e.UpdatedAt = time.Now()

	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to update expense", "error", err, "expense_id", e.ID)
		return nil, internal.NewInternalError("failed to update expense", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "UPDATE",
		EntityType: "Expense",
		EntityID:   e.ID,
		Detail:     fmt.Sprintf("updated expense %q", e.Description),
	})
	return e, nil
}

func (s *Service) DeleteExpense(ctx context.Context, scope tenant.Filter, id int64) error {
	e, err := s.repo.GetByID(scope, id)
	if err != nil {
		return internal.ErrRecordNotFound
	}

	e.IsDeleted = true
	e.UpdatedAt = time.Now()
	if err := s.repo.Update(e); err != nil {
		s.logger.Error("failed to delete expense", "error", err, "expense_id", e.ID)
		return internal.NewInternalError("failed to delete expense", err)
	}

	s.recorder.Record(ctx, audit.Event{
		Action:     "DELETE",
		EntityType: "Expense",
		EntityID:   e.ID,
		Detail:     fmt.Sprintf("deleted expense %q", e.Description),
	})
	return nil
}
