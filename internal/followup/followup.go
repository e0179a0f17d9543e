package followup

import (
	"time"
)

// Follow-up statuses. Pending and In Progress are interim; the rest are
// terminal and drive the linked lead's status.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusCompleted  = "Completed"
	StatusConverted  = "Converted"
	StatusLost       = "Lost"
)

// ValidStatuses lists every status a follow-up may be created with or moved to.
var ValidStatuses = []string{StatusPending, StatusInProgress, StatusCompleted, StatusConverted, StatusLost}

func IsValidStatus(status string) bool {
	for _, s := range ValidStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// FollowUp is a scheduled touchpoint on a lead. Its status transitions are
// mirrored onto the lead.
type FollowUp struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	OrganizationID int64      `json:"organization_id" gorm:"column:organization_id;not null"`
	LeadID         int64      `json:"lead_id" gorm:"column:lead_id;not null"`
	CreatedBy      int64      `json:"created_by" gorm:"column:created_by;not null"`
	AssignedTo     *int64     `json:"assigned_to,omitempty" gorm:"column:assigned_to"`
	ScheduledAt    time.Time  `json:"scheduled_at" gorm:"column:scheduled_at;not null"`
	Status         string     `json:"status" gorm:"default:Pending"`
	Notes          string     `json:"notes"`
	Reason         string     `json:"reason,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty" gorm:"column:completed_at"`
	IsDeleted      bool       `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (FollowUp) TableName() string {
	return "follow_ups"
}

// Terminal reports whether the follow-up has reached a final status.
func (f *FollowUp) Terminal() bool {
	switch f.Status {
	case StatusCompleted, StatusConverted, StatusLost:
		return true
	}
	return false
}
