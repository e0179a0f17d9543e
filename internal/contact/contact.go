package contact

import (
	"time"
)

// Contact is a converted or directly-entered customer record. LeadID links a
// contact back to the lead it was converted from; contacts created by hand
// have none.
type Contact struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	OrganizationID int64      `json:"organization_id" gorm:"column:organization_id;not null"`
	LeadID         *int64     `json:"lead_id,omitempty" gorm:"column:lead_id"`
	CreatedBy      int64      `json:"created_by" gorm:"column:created_by;not null"`
	Name           string     `json:"name" gorm:"not null"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone" gorm:"not null"`
	Address        string     `json:"address"`
	Notes          string     `json:"notes"`
	Tags           []string   `json:"tags,omitempty" gorm:"serializer:json"`
	IsDeleted      bool       `json:"-" gorm:"column:is_deleted;default:false"`
	DeletedAt      *time.Time `json:"-" gorm:"column:deleted_at"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Contact) TableName() string {
	return "contacts"
}

// FromConversion reports whether this contact originated from a lead.
func (c *Contact) FromConversion() bool {
	return c.LeadID != nil
}
