package followup

import (
	"time"

	"github.com/crmkit/lead-management/internal"
)

type CreateFollowUpDTO struct {
	OrganizationID *int64    `json:"organization_id,omitempty"`
	LeadID         int64     `json:"lead_id"`
	AssignedTo     *int64    `json:"assigned_to,omitempty"`
	ScheduledAt    time.Time `json:"scheduled_at"`
	Status         string    `json:"status,omitempty"`
	Notes          string    `json:"notes"`
	Reason         string    `json:"reason,omitempty"`
}

func (d *CreateFollowUpDTO) Validate() error {
	if d.LeadID <= 0 {
		return internal.NewValidationFieldError("lead_id", "lead_id is required", internal.ErrCodeValidationFailed)
	}
	if d.ScheduledAt.IsZero() {
		return internal.NewValidationFieldError("scheduled_at", "scheduled_at is required", internal.ErrCodeValidationFailed)
	}
	if d.Status == "" {
		d.Status = StatusPending
	}
	if !IsValidStatus(d.Status) {
		return internal.NewValidationError("invalid follow-up status", internal.ErrCodeInvalidStatus)
	}
	return nil
}

type UpdateFollowUpDTO struct {
	AssignedTo  *int64     `json:"assigned_to,omitempty"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Notes       *string    `json:"notes,omitempty"`
	Reason      *string    `json:"reason,omitempty"`
}

func (d *UpdateFollowUpDTO) Validate() error {
	if d.Status != nil && !IsValidStatus(*d.Status) {
		return internal.NewValidationError("invalid follow-up status", internal.ErrCodeInvalidStatus)
	}
	if d.ScheduledAt != nil && d.ScheduledAt.IsZero() {
		return internal.NewValidationFieldError("scheduled_at", "scheduled_at cannot be empty", internal.ErrCodeValidationFailed)
	}
	return nil
}

type ListQuery struct {
	LeadID  *int64
	Status  string
	From    *time.Time
	To      *time.Time
	Page    int
	PerPage int
	// OwnedBy narrows results to records the user created or was assigned;
	// set by the service for standard-level principals.
	OwnedBy *int64
}
