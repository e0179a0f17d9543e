package lead

import (
	"time"

	"github.com/crmkit/lead-management/internal"
)

type CreateLeadDTO struct {
	// OrganizationID is only honored for super admins; everyone else has it
	// overwritten with their own organization before persistence.
	OrganizationID *int64            `json:"organization_id,omitempty"`
	Name           string            `json:"name"`
	Email          string            `json:"email"`
	Phone          string            `json:"phone"`
	Source         string            `json:"source"`
	AssignedTo     *int64            `json:"assigned_to,omitempty"`
	ReferrerID     *int64            `json:"referrer_id,omitempty"`
	CustomFields   map[string]string `json:"custom_fields,omitempty"`
	Tags           []string          `json:"tags,omitempty"`
}

func (dto CreateLeadDTO) Validate() error {
	if dto.Name == "" {
		return internal.NewValidationFieldError("name", "name is required", internal.ErrCodeValidationFailed)
	}
	if dto.Phone == "" {
		return internal.NewValidationFieldError("phone", "phone is required", internal.ErrCodeValidationFailed)
	}
	if len(dto.Name) > 200 {
		return internal.NewValidationFieldError("name", "name must not exceed 200 characters", internal.ErrCodeValidationFailed)
	}
	return nil
}

// UpdateLeadDTO carries a partial merge; nil pointers leave fields untouched.
type UpdateLeadDTO struct {
	OrganizationID *int64             `json:"organization_id,omitempty"`
	Name           *string            `json:"name,omitempty"`
	Email          *string            `json:"email,omitempty"`
	Phone          *string            `json:"phone,omitempty"`
	Source         *string            `json:"source,omitempty"`
	Status         *string            `json:"status,omitempty"`
	AssignedTo     *int64             `json:"assigned_to,omitempty"`
	ReferrerID     *int64             `json:"referrer_id,omitempty"`
	LostReason     *string            `json:"lost_reason,omitempty"`
	CustomFields   *map[string]string `json:"custom_fields,omitempty"`
	Tags           *[]string          `json:"tags,omitempty"`
}

func (dto UpdateLeadDTO) Validate() error {
	if dto.Name != nil && *dto.Name == "" {
		return internal.NewValidationFieldError("name", "name cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Phone != nil && *dto.Phone == "" {
		return internal.NewValidationFieldError("phone", "phone cannot be empty", internal.ErrCodeValidationFailed)
	}
	if dto.Status != nil && !ValidStatus(*dto.Status) {
		return internal.NewValidationError("invalid lead status", internal.ErrCodeInvalidStatus)
	}
	return nil
}

// ListQuery is the caller-supplied filtering merged on top of the tenant filter.
type ListQuery struct {
	Search     string
	Status     string
	AssignedTo *int64
	From       *time.Time
	To         *time.Time

	// OwnedBy narrows results to records the user created or was assigned;
	// set by the service for standard-level principals, never by the caller.
	OwnedBy *int64

	Page    int
	PerPage int
}
