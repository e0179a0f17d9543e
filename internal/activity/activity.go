package activity

import (
	"time"
)

// Activity types.
const (
	TypeCall    = "Call"
	TypeEmail   = "Email"
	TypeMeeting = "Meeting"
	TypeNote    = "Note"
	TypeTask    = "Task"
)

var ValidTypes = []string{TypeCall, TypeEmail, TypeMeeting, TypeNote, TypeTask}

func IsValidType(t string) bool {
	for _, v := range ValidTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Activity is a logged interaction against a lead or a contact. At least one
// of LeadID/ContactID is set.
type Activity struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	OrganizationID   int64      `json:"organization_id" gorm:"column:organization_id;not null"`
	CreatedBy        int64      `json:"created_by" gorm:"column:created_by;not null"`
	LeadID           *int64     `json:"lead_id,omitempty" gorm:"column:lead_id"`
	ContactID        *int64     `json:"contact_id,omitempty" gorm:"column:contact_id"`
	Type             string     `json:"type" gorm:"not null"`
	Subject          string     `json:"subject" gorm:"not null"`
	Description      string     `json:"description"`
	ActivityAt       time.Time  `json:"activity_at" gorm:"column:activity_at;not null"`
	FollowUpRequired bool       `json:"follow_up_required" gorm:"column:follow_up_required;default:false"`
	FollowUpAt       *time.Time `json:"follow_up_at,omitempty" gorm:"column:follow_up_at"`
	IsDeleted        bool       `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt        time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt        time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Activity) TableName() string {
	return "activities"
}
