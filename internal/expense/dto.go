package expense

import (
	"strings"
	"time"

	"github.com/crmkit/lead-management/internal"
)

type CreateExpenseDTO struct {
	OrganizationID  *int64    `json:"organization_id,omitempty"`
	Amount          int64     `json:"amount"`
	Description     string    `json:"description"`
	Category        string    `json:"category"`
	ExpenseDate     time.Time `json:"expense_date"`
	ReceiptURL      *string   `json:"receipt_url,omitempty"`
	ReceiptFileName *string   `json:"receipt_filename,omitempty"`
}

func (d *CreateExpenseDTO) Validate() error {
	d.Description = strings.TrimSpace(d.Description)
	if d.Amount <= 0 {
		return internal.NewValidationFieldError("amount", "amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if d.Description == "" {
		return internal.NewValidationFieldError("description", "description is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Description) > 500 {
		return internal.NewValidationFieldError("description", "description must not exceed 500 characters", internal.ErrCodeValidationFailed)
	}
	if d.ExpenseDate.IsZero() {
		return internal.NewValidationFieldError("expense_date", "expense date is required", internal.ErrCodeInvalidDate)
	}
	if d.ExpenseDate.After(time.Now()) {
		return internal.NewValidationFieldError("expense_date", "expense date cannot be in the future", internal.ErrCodeInvalidDate)
	}
	return nil
}

type UpdateExpenseDTO struct {
	Amount          *int64     `json:"amount,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Category        *string    `json:"category,omitempty"`
	ExpenseDate     *time.Time `json:"expense_date,omitempty"`
	ReceiptURL      *string    `json:"receipt_url,omitempty"`
	ReceiptFileName *string    `json:"receipt_filename,omitempty"`
}

func (d *UpdateExpenseDTO) Validate() error {
	if d.Amount != nil && *d.Amount <= 0 {
		return internal.NewValidationFieldError("amount", "amount must be greater than 0", internal.ErrCodeInvalidAmount)
	}
	if d.Description != nil && strings.TrimSpace(*d.Description) == "" {
		return internal.NewValidationFieldError("description", "description cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.ExpenseDate != nil && d.ExpenseDate.After(time.Now()) {
		return internal.NewValidationFieldError("expense_date", "expense date cannot be in the future", internal.ErrCodeInvalidDate)
	}
	return nil
}

type ListQuery struct {
	Search   string
	Category string
	From     *time.Time
	To       *time.Time
	Page     int
	PerPage  int
	// OwnedBy narrows results to records the user created; set by the service
	// for standard-level principals.
	OwnedBy *int64
}
