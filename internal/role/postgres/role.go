package postgres

import (
	"errors"

	"github.com/crmkit/lead-management/internal/role"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) role.RepositoryAPI {
	return &RoleRepository{db: db}
}

// visible narrows a query to the tenant's own roles plus global roles. An
// unrestricted filter (super admin) sees everything.
func visible(scope tenant.Filter, q *gorm.DB) *gorm.DB {
	if scope.OrganizationID != nil {
		return q.Where("organization_id = ? OR scope = ?", *scope.OrganizationID, role.ScopeGlobal)
	}
	return q
}

func (r *RoleRepository) Create(rl *role.Role, permissionNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Permissions").Create(rl).Error; err != nil {
			return err
		}
		return attachPermissions(tx, rl, permissionNames)
	})
}

func (r *RoleRepository) GetByID(scope tenant.Filter, id int64) (*role.Role, error) {
	var rl role.Role
	err := visible(scope, r.db).
		Preload("Permissions").
		Where("id = ?", id).
		First(&rl).Error
	if err != nil {
		return nil, err
	}
	return &rl, nil
}

func (r *RoleRepository) List(scope tenant.Filter, query role.ListQuery) ([]*role.Role, int64, error) {
	q := visible(scope, r.db.Model(&role.Role{}))

	if query.Search != "" {
		q = q.Where("name LIKE ?", "%"+query.Search+"%")
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var roles []*role.Role
	err := q.Preload("Permissions").
		Order("name ASC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&roles).Error
	return roles, total, err
}

func (r *RoleRepository) Update(rl *role.Role) error {
	return r.db.Omit("Permissions").Save(rl).Error
}

func (r *RoleRepository) ReplacePermissions(roleID int64, permissionNames []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", roleID).Error; err != nil {
			return err
		}
		return attachPermissions(tx, &role.Role{ID: roleID}, permissionNames)
	})
}

func (r *RoleRepository) Delete(id int64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM role_permissions WHERE role_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM roles WHERE id = ?", id).Error
	})
}

func (r *RoleRepository) NameExists(orgID *int64, scope, name string, excludeID int64) (bool, error) {
	var rl role.Role
	q := r.db.Where("scope = ? AND name = ?", scope, name)
	if orgID != nil {
		q = q.Where("organization_id = ?", *orgID)
	} else {
		q = q.Where("organization_id IS NULL")
	}
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&rl).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *RoleRepository) UserCount(roleID int64) (int64, error) {
	var count int64
	err := r.db.Table("users").
		Where("role_id = ? AND is_deleted = ?", roleID, false).
		Count(&count).Error
	return count, err
}

func (r *RoleRepository) ListPermissions() ([]*role.Permission, error) {
	var perms []*role.Permission
	err := r.db.Order("name ASC").Find(&perms).Error
	return perms, err
}

func attachPermissions(tx *gorm.DB, rl *role.Role, names []string) error {
	if len(names) == 0 {
		return nil
	}
	var perms []role.Permission
	if err := tx.Where("name IN ?", names).Find(&perms).Error; err != nil {
		return err
	}
	return tx.Model(rl).Association("Permissions").Append(&perms)
}
