package catalog

import (
	"time"
)

// Service is a billable offering on an organization's price list. Billing
// line items reference it by id. Price is in minor currency units.
type Service struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	OrganizationID int64     `json:"organization_id" gorm:"column:organization_id;not null"`
	CreatedBy      int64     `json:"created_by" gorm:"column:created_by;not null"`
	Name           string    `json:"name" gorm:"not null"`
	Description    string    `json:"description"`
	Price          int64     `json:"price" gorm:"not null;default:0"`
	TaxRate        int64     `json:"tax_rate" gorm:"column:tax_rate;not null;default:0"`
	IsActive       bool      `json:"is_active" gorm:"column:is_active;default:true"`
	IsDeleted      bool      `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Service) TableName() string {
	return "services"
}
