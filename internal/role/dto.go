package role

import (
	"strings"

	"github.com/crmkit/lead-management/internal"
)

type CreateRoleDTO struct {
	OrganizationID *int64   `json:"organization_id,omitempty"`
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	Scope          string   `json:"scope,omitempty"`
	Permissions    []string `json:"permissions"`
}

func (d *CreateRoleDTO) Validate() error {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if d.Scope == "" {
		d.Scope = ScopeOrganization
	}
	if d.Scope != ScopeGlobal && d.Scope != ScopeOrganization {
		return internal.NewValidationFieldError("scope", "scope must be global or organization", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateRoleDTO struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Permissions *[]string `json:"permissions,omitempty"`
}

func (d *UpdateRoleDTO) Validate() error {
	if d.Name != nil && strings.TrimSpace(*d.Name) == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ListQuery struct {
	Search  string
	Page    int
	PerPage int
}
