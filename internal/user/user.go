package user

import (
	"time"
)

// User is an account inside an organization. Super admins are the only users
// without an organization.
type User struct {
	ID             int64      `json:"id" gorm:"primaryKey"`
	OrganizationID *int64     `json:"organization_id,omitempty" gorm:"column:organization_id"`
	RoleID         int64      `json:"role_id" gorm:"column:role_id;not null"`
	RoleName       string     `json:"role_name,omitempty" gorm:"-"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Name           string     `json:"name" gorm:"not null"`
	Phone          string     `json:"phone"`
	PasswordHash   string     `json:"-" gorm:"column:password_hash;not null"`
	IsActive       bool       `json:"is_active" gorm:"column:is_active;default:true"`
	IsDeleted      bool       `json:"-" gorm:"column:is_deleted;default:false"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty" gorm:"column:last_login_at"`
	CreatedAt      time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (User) TableName() string {
	return "users"
}
