package billing

import (
	"strings"
	"time"

	"github.com/crmkit/lead-management/internal"
)

type BillingItemDTO struct {
	ServiceID   *int64 `json:"service_id,omitempty"`
	Description string `json:"description"`
	Quantity    int64  `json:"quantity"`
	UnitAmount  int64  `json:"unit_amount"`
	TaxAmount   int64  `json:"tax_amount"`
}

type CreateBillingDTO struct {
	OrganizationID *int64           `json:"organization_id,omitempty"`
	ContactID      *int64           `json:"contact_id,omitempty"`
	IssuedAt       *time.Time       `json:"issued_at,omitempty"`
	DueAt          *time.Time       `json:"due_at,omitempty"`
	Discount       int64            `json:"discount"`
	Notes          string           `json:"notes"`
	Items          []BillingItemDTO `json:"items"`
}

func (d *CreateBillingDTO) Validate() error {
	if len(d.Items) == 0 {
		return internal.NewValidationFieldError("items", "at least one line item is required", internal.ErrCodeValidationFailed)
	}
	if d.Discount < 0 {
		return internal.NewValidationFieldError("discount", "discount cannot be negative", internal.ErrCodeValidationFailed)
	}
	for i := range d.Items {
		item := &d.Items[i]
		item.Description = strings.TrimSpace(item.Description)
		if item.Description == "" {
			return internal.NewValidationFieldError("items", "line item description is required", internal.ErrCodeValidationFailed)
		}
		if item.Quantity <= 0 {
			return internal.NewValidationFieldError("items", "line item quantity must be positive", internal.ErrCodeValidationFailed)
		}
		if item.UnitAmount < 0 {
			return internal.NewValidationFieldError("items", "line item unit amount cannot be negative", internal.ErrCodeValidationFailed)
		}
		if item.TaxAmount < 0 {
			return internal.NewValidationFieldError("items", "line item tax cannot be negative", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

type UpdateBillingDTO struct {
	ContactID *int64            `json:"contact_id,omitempty"`
	Status    *string           `json:"status,omitempty"`
	IssuedAt  *time.Time        `json:"issued_at,omitempty"`
	DueAt     *time.Time        `json:"due_at,omitempty"`
	Discount  *int64            `json:"discount,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	Items     *[]BillingItemDTO `json:"items,omitempty"`
}

func (d *UpdateBillingDTO) Validate() error {
	if d.Status != nil && !IsValidStatus(*d.Status) {
		return internal.NewValidationError("invalid billing status", internal.ErrCodeInvalidStatus)
	}
	if d.Discount != nil && *d.Discount < 0 {
		return internal.NewValidationFieldError("discount", "discount cannot be negative", internal.ErrCodeValidationFailed)
	}
	if d.Items != nil {
		if len(*d.Items) == 0 {
			return internal.NewValidationFieldError("items", "at least one line item is required", internal.ErrCodeValidationFailed)
		}
		for i := range *d.Items {
			item := &(*d.Items)[i]
			item.Description = strings.TrimSpace(item.Description)
			if item.Description == "" {
				return internal.NewValidationFieldError("items", "line item description is required", internal.ErrCodeValidationFailed)
			}
			if item.Quantity <= 0 {
				return internal.NewValidationFieldError("items", "line item quantity must be positive", internal.ErrCodeValidationFailed)
			}
			if item.UnitAmount < 0 {
				return internal.NewValidationFieldError("items", "line item unit amount cannot be negative", internal.ErrCodeValidationFailed)
			}
			if item.TaxAmount < 0 {
				return internal.NewValidationFieldError("items", "line item tax cannot be negative", internal.ErrCodeValidationFailed)
			}
		}
	}
	return nil
}

type ListQuery struct {
	Search    string
	Status    string
	ContactID *int64
	From      *time.Time
	To        *time.Time
	Page      int
	PerPage   int
	// OwnedBy narrows results to records the user created; set by the service
	// for standard-level principals.
	OwnedBy *int64
}
