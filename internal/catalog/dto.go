package catalog

import (
	"strings"

	"github.com/crmkit/lead-management/internal"
)

type CreateServiceDTO struct {
	OrganizationID *int64 `json:"organization_id,omitempty"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Price          int64  `json:"price"`
	TaxRate        int64  `json:"tax_rate"`
}

func (d *CreateServiceDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Price < 0 {
		return internal.NewValidationFieldError("price", "price cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if d.TaxRate < 0 {
		return internal.NewValidationFieldError("tax_rate", "tax rate cannot be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

type UpdateServiceDTO struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	Price       *int64  `json:"price,omitempty"`
	TaxRate     *int64  `json:"tax_rate,omitempty"`
	IsActive    *bool   `json:"is_active,omitempty"`
}

func (d *UpdateServiceDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Price != nil && *d.Price < 0 {
		return internal.NewValidationFieldError("price", "price cannot be negative", internal.ErrCodeInvalidAmount)
	}
	if d.TaxRate != nil && *d.TaxRate < 0 {
		return internal.NewValidationFieldError("tax_rate", "tax rate cannot be negative", internal.ErrCodeInvalidAmount)
	}
	return nil
}

type ListQuery struct {
	Search  string
	Active  *bool
	Page    int
	PerPage int
}
