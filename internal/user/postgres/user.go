package postgres

import (
	"errors"

	"github.com/crmkit/lead-management/internal/tenant"
	"github.com/crmkit/lead-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(u *user.User) error {
	return r.db.Create(u).Error
}

func (r *UserRepository) GetByID(scope tenant.Filter, id int64) (*user.User, error) {
	var u user.User
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&u).Error
	if err != nil {
		return nil, err
	}
	r.fillRoleName(&u)
	return &u, nil
}

func (r *UserRepository) List(scope tenant.Filter, query user.ListQuery) ([]*user.User, int64, error) {
	q := scope.Scoped(r.db.Model(&user.User{})).Where("is_deleted = ?", false)

	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if query.RoleID != nil {
		q = q.Where("role_id = ?", *query.RoleID)
	}
	if query.Active != nil {
		q = q.Where("is_active = ?", *query.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*user.User
	err := q.Order("name ASC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	for _, u := range users {
		r.fillRoleName(u)
	}
	return users, total, nil
}

func (r *UserRepository) Update(u *user.User) error {
	return r.db.Save(u).Error
}

func (r *UserRepository) EmailExists(email string, excludeID int64) (bool, error) {
	var u user.User
	q := r.db.Where("email = ? AND is_deleted = ?", email, false)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *UserRepository) fillRoleName(u *user.User) {
	var name string
	if err := r.db.Table("roles").Select("name").Where("id = ?", u.RoleID).Row().Scan(&name); err == nil {
		u.RoleName = name
	}
}
