package contact

import (
	"strings"

	"github.com/crmkit/lead-management/internal"
)

type CreateContactDTO struct {
	OrganizationID *int64   `json:"organization_id,omitempty"`
	Name           string   `json:"name"`
	Email          string   `json:"email"`
	Phone          string   `json:"phone"`
	Address        string   `json:"address"`
	Notes          string   `json:"notes"`
	Tags           []string `json:"tags,omitempty"`
}

func (d *CreateContactDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Phone = strings.TrimSpace(d.Phone)
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Phone == "" {
		return internal.NewValidationFieldError("phone", "phone is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Name) > 200 {
		return internal.NewValidationFieldError("name", "name must not exceed 200 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateContactDTO struct {
	Name    *string   `json:"name,omitempty"`
	Email   *string   `json:"email,omitempty"`
	Phone   *string   `json:"phone,omitempty"`
	Address *string   `json:"address,omitempty"`
	Notes   *string   `json:"notes,omitempty"`
	Tags    *[]string `json:"tags,omitempty"`
}

func (d *UpdateContactDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Phone != nil && strings.TrimSpace(*d.Phone) == "" {
		return internal.NewValidationFieldError("phone", "phone cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

// ApplyTo merges the set fields onto an existing contact.
func (d *UpdateContactDTO) ApplyTo(c *Contact) {
	if d.Name != nil {
		c.Name = strings.TrimSpace(*d.Name)
	}
	if d.Email != nil {
		c.Email = *d.Email
	}
	if d.Phone != nil {
		c.Phone = strings.TrimSpace(*d.Phone)
	}
	if d.Address != nil {
		c.Address = *d.Address
	}
	if d.Notes != nil {
		c.Notes = *d.Notes
	}
	if d.Tags != nil {
		c.Tags = *d.Tags
	}
}

type ListQuery struct {
	Search  string
	Page    int
	PerPage int
	// OwnedBy narrows results to records the user created; set by the service
	// for standard-level principals.
	OwnedBy *int64
}
