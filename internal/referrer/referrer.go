package referrer

import (
	"time"
)

// Referrer is a person or business that sends leads to an organization.
type Referrer struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	OrganizationID int64     `json:"organization_id" gorm:"column:organization_id;not null"`
	CreatedBy      int64     `json:"created_by" gorm:"column:created_by;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Company        string    `json:"company"`
	Notes          string    `json:"notes"`
	IsDeleted      bool      `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Referrer) TableName() string {
	return "referrers"
}
