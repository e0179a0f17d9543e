package organization

import (
	"strings"

	"github.com/crmkit/lead-management/internal"
)

type CreateOrganizationDTO struct {
	Name     string `json:"name"`
	Initials string `json:"initials,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Website  string `json:"website"`
}

func (d *CreateOrganizationDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Initials = strings.ToUpper(strings.TrimSpace(d.Initials))
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if len(d.Name) > 200 {
		return internal.NewValidationFieldError("name", "name must not exceed 200 characters", internal.ErrCodeValidationFailed)
	}
	if len(d.Initials) > 5 {
		return internal.NewValidationFieldError("initials", "initials must not exceed 5 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateOrganizationDTO struct {
	Name     *string `json:"name,omitempty"`
	Initials *string `json:"initials,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	Website  *string `json:"website,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

func (d *UpdateOrganizationDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if d.Initials != nil && len(strings.TrimSpace(*d.Initials)) > 5 {
		return internal.NewValidationFieldError("initials", "initials must not exceed 5 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ListQuery struct {
	Search  string
	Active  *bool
	Page    int
	PerPage int
}
