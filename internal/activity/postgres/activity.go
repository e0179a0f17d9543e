package postgres

import (
	"github.com/crmkit/lead-management/internal/activity"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) activity.RepositoryAPI {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(a *activity.Activity) error {
	return r.db.Create(a).Error
}

func (r *ActivityRepository) GetByID(scope tenant.Filter, id int64) (*activity.Activity, error) {
	var a activity.Activity
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ActivityRepository) List(scope tenant.Filter, query activity.ListQuery) ([]*activity.Activity, int64, error) {
	q := scope.Scoped(r.db.Model(&activity.Activity{})).Where("is_deleted = ?", false)

	if query.LeadID != nil {
		q = q.Where("lead_id = ?", *query.LeadID)
	}
	if query.ContactID != nil {
		q = q.Where("contact_id = ?", *query.ContactID)
	}
	if query.Type != "" {
		q = q.Where("type = ?", query.Type)
	}
	if query.From != nil {
		q = q.Where("activity_at >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("activity_at <= ?", *query.To)
	}
	if query.OwnedBy != nil {
		q = q.Where("created_by = ?", *query.OwnedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var activities []*activity.Activity
	err := q.Order("activity_at DESC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&activities).Error
	return activities, total, err
}

func (r *ActivityRepository) Update(a *activity.Activity) error {
	return r.db.Save(a).Error
}
