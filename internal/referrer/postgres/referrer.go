package postgres

import (
	"github.com/crmkit/lead-management/internal/referrer"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type ReferrerRepository struct {
	db *gorm.DB
}

func NewReferrerRepository(db *gorm.DB) referrer.RepositoryAPI {
	return &ReferrerRepository{db: db}
}

func (r *ReferrerRepository) Create(rf *referrer.Referrer) error {
	return r.db.Create(rf).Error
}

func (r *ReferrerRepository) GetByID(scope tenant.Filter, id int64) (*referrer.Referrer, error) {
	var rf referrer.Referrer
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&rf).Error
	if err != nil {
		return nil, err
	}
	return &rf, nil
}

func (r *ReferrerRepository) List(scope tenant.Filter, query referrer.ListQuery) ([]*referrer.Referrer, int64, error) {
	q := scope.Scoped(r.db.Model(&referrer.Referrer{})).Where("is_deleted = ?", false)

	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where("name LIKE ? OR company LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var referrers []*referrer.Referrer
	err := q.Order("name ASC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&referrers).Error
	return referrers, total, err
}

func (r *ReferrerRepository) Update(rf *referrer.Referrer) error {
	return r.db.Save(rf).Error
}
