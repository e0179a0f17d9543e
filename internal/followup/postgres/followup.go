package postgres

import (
	"github.com/crmkit/lead-management/internal/followup"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type FollowUpRepository struct {
	db *gorm.DB
}

func NewFollowUpRepository(db *gorm.DB) followup.RepositoryAPI {
	return &FollowUpRepository{db: db}
}

func (r *FollowUpRepository) Create(f *followup.FollowUp) error {
	return r.db.Create(f).Error
}

func (r *FollowUpRepository) GetByID(scope tenant.Filter, id int64) (*followup.FollowUp, error) {
	var f followup.FollowUp
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&f).Error
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (r *FollowUpRepository) List(scope tenant.Filter, query followup.ListQuery) ([]*followup.FollowUp, int64, error) {
	q := scope.Scoped(r.db.Model(&followup.FollowUp{})).Where("is_deleted = ?", false)

	if query.LeadID != nil {
		q = q.Where("lead_id = ?", *query.LeadID)
	}
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.From != nil {
		q = q.Where("scheduled_at >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("scheduled_at <= ?", *query.To)
	}
	if query.OwnedBy != nil {
		q = q.Where("created_by = ? OR assigned_to = ?", *query.OwnedBy, *query.OwnedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var followUps []*followup.FollowUp
	err := q.Order("scheduled_at DESC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&followUps).Error
	return followUps, total, err
}

func (r *FollowUpRepository) Update(f *followup.FollowUp) error {
	return r.db.Save(f).Error
}
