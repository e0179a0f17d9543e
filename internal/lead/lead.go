package lead

import (
	"time"
)

// Lead statuses. Converted and Lost are terminal; Completed leads become
// eligible for (re-)conversion.
const (
	StatusNew        = "New"
	StatusInProgress = "In Progress"
	StatusFollowUp   = "Follow Up"
	StatusCompleted  = "Completed"
	StatusConverted  = "Converted"
	StatusLost       = "Lost"
)

// CustomFields is a free-form field-name to value mapping; keys unique,
// insertion order irrelevant.
type CustomFields map[string]string

type Tags []string

type Lead struct {
	ID             int64        `json:"id" gorm:"primaryKey"`
	OrganizationID int64        `json:"organization_id" gorm:"column:organization_id;not null"`
	CreatedBy      int64        `json:"created_by" gorm:"column:created_by;not null"`
	AssignedTo     *int64       `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	ReferrerID     *int64       `json:"referrer_id,omitempty" gorm:"column:referrer_id"`
	Name           string       `json:"name" gorm:"not null"`
	Email          string       `json:"email"`
	Phone          string       `json:"phone" gorm:"not null"`
	Source         string       `json:"source"`
	Status         string       `json:"status" gorm:"default:New"`
	IsConverted    bool         `json:"is_converted" gorm:"column:is_converted;default:false"`
	ConvertedAt    *time.Time   `json:"converted_at,omitempty" gorm:"column:converted_at"`
	LostAt         *time.Time   `json:"lost_at,omitempty" gorm:"column:lost_at"`
	LostReason     string       `json:"lost_reason,omitempty" gorm:"column:lost_reason"`
	FollowUpCount  int          `json:"follow_up_count" gorm:"column:follow_up_count;default:0"`
	NextFollowUpAt *time.Time   `json:"next_follow_up_at,omitempty" gorm:"column:next_follow_up_at"`
	CustomFields   CustomFields `json:"custom_fields,omitempty" gorm:"column:custom_fields;serializer:json"`
	Tags           Tags         `json:"tags,omitempty" gorm:"serializer:json"`
	IsDeleted      bool         `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt      time.Time    `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Lead) TableName() string {
	return "leads"
}

func ValidStatus(status string) bool {
	switch status {
	case StatusNew, StatusInProgress, StatusFollowUp, StatusCompleted, StatusConverted, StatusLost:
		return true
	}
	return false
}

// CanBeConverted reports whether a conversion attempt may proceed; leads that
// already produced a contact are rejected upstream with a dedicated error.
func (l *Lead) CanBeConverted() bool {
	return !l.IsConverted
}

// MarkConverted stamps the conversion fields on a successful Lead-to-Contact
// conversion.
func (l *Lead) MarkConverted(now time.Time) {
	l.Status = StatusConverted
	l.IsConverted = true
	l.ConvertedAt = &now
	l.UpdatedAt = now
}

// RevertConversion makes the lead eligible for re-conversion after the contact
// it produced was soft-deleted.
func (l *Lead) RevertConversion(now time.Time) {
	l.Status = StatusCompleted
	l.IsConverted = false
	l.ConvertedAt = nil
	l.UpdatedAt = now
}
