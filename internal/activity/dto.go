package activity

import (
	"strings"
	"time"

	"github.com/crmkit/lead-management/internal"
)

type CreateActivityDTO struct {
	OrganizationID   *int64     `json:"organization_id,omitempty"`
	LeadID           *int64     `json:"lead_id,omitempty"`
	ContactID        *int64     `json:"contact_id,omitempty"`
	Type             string     `json:"type"`
	Subject          string     `json:"subject"`
	Description      string     `json:"description"`
	ActivityAt       time.Time  `json:"activity_at"`
	FollowUpRequired bool       `json:"follow_up_required"`
	FollowUpAt       *time.Time `json:"follow_up_at,omitempty"`
}

func (d *CreateActivityDTO) Validate() error {
	d.Subject = strings.TrimSpace(d.Subject)
	if d.LeadID == nil && d.ContactID == nil {
		return internal.NewValidationError("activity must reference a lead or a contact", internal.ErrCodeValidationFailed)
	}
	if !IsValidType(d.Type) {
		return internal.NewValidationFieldError("type", "invalid activity type", internal.ErrCodeValidationFailed)
	}
	if d.Subject == "" {
		return internal.NewValidationFieldError("subject", "subject is required", internal.ErrCodeValidationFailed)
	}
	if d.ActivityAt.IsZero() {
		d.ActivityAt = time.Now()
	}
	if d.FollowUpRequired && d.FollowUpAt == nil {
		return internal.NewValidationFieldError("follow_up_at", "follow_up_at is required when follow-up is requested", internal.ErrCodeValidationFailed)
	}
	return nil
}

type UpdateActivityDTO struct {
	Type        *string    `json:"type,omitempty"`
	Subject     *string    `json:"subject,omitempty"`
	Description *string    `json:"description,omitempty"`
	ActivityAt  *time.Time `json:"activity_at,omitempty"`
}

func (d *UpdateActivityDTO) Validate() error {
	if d.Type != nil && !IsValidType(*d.Type) {
		return internal.NewValidationFieldError("type", "invalid activity type", internal.ErrCodeValidationFailed)
	}
	if d.Subject != nil && strings.TrimSpace(*d.Subject) == "" {
		return internal.NewValidationFieldError("subject", "subject cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ListQuery struct {
	LeadID    *int64
	ContactID *int64
	Type      string
	From      *time.Time
	To        *time.Time
	Page      int
	PerPage   int
	// OwnedBy narrows results to records the user created; set by the service
	// for standard-level principals.
	OwnedBy *int64
}
