package role

import (
	"time"
)

// Role scopes.
const (
	ScopeGlobal       = "global"
	ScopeOrganization = "organization"
)

// Permission is an atomic named capability, optionally tied to a
// resource/method pair. Seeded once; immutable afterwards.
type Permission struct {
	ID          int64  `json:"id" gorm:"primaryKey"`
	Name        string `json:"name" gorm:"uniqueIndex;not null"`
	Resource    string `json:"resource"`
	Method      string `json:"method"`
	Description string `json:"description"`
}

func (Permission) TableName() string {
	return "permissions"
}

// Role is a named bundle of permissions. Global roles belong to no
// organization and are visible across tenants; organization roles always
// carry an owning organization. System roles are seeded and cannot be edited
// or deleted.
type Role struct {
	ID             int64        `json:"id" gorm:"primaryKey"`
	Name           string       `json:"name" gorm:"not null"`
	Description    string       `json:"description"`
	Scope          string       `json:"scope" gorm:"not null;default:organization"`
	OrganizationID *int64       `json:"organization_id,omitempty" gorm:"column:organization_id"`
	IsSystem       bool         `json:"is_system" gorm:"column:is_system;default:false"`
	Permissions    []Permission `json:"permissions" gorm:"many2many:role_permissions"`
	CreatedAt      time.Time    `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt      time.Time    `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Role) TableName() string {
	return "roles"
}

// Global reports whether the role applies across tenants.
func (r *Role) Global() bool {
	return r.Scope == ScopeGlobal
}

// PermissionNames flattens the permission set for principal resolution.
func (r *Role) PermissionNames() []string {
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}
