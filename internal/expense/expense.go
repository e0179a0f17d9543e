package expense

import (
	"time"
)

// Expense is an organization cost entry: rent, tooling, marketing spend and
// the like. Amount is in minor currency units.
type Expense struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	OrganizationID  int64     `json:"organization_id" gorm:"column:organization_id;not null"`
	CreatedBy       int64     `json:"created_by" gorm:"column:created_by;not null"`
	Amount          int64     `json:"amount" gorm:"not null"`
	Description     string    `json:"description" gorm:"not null"`
	Category        string    `json:"category"`
	ReceiptURL      *string   `json:"receipt_url,omitempty" gorm:"column:receipt_url"`
	ReceiptFileName *string   `json:"receipt_filename,omitempty" gorm:"column:receipt_filename"`
	ExpenseDate     time.Time `json:"expense_date" gorm:"column:expense_date;type:date"`
	IsDeleted       bool      `json:"-" gorm:"column:is_deleted;default:false"`
	CreatedAt       time.Time `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Expense) TableName() string {
	return "expenses"
}
