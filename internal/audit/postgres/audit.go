package postgres

import (
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(log *audit.Log) error {
	return r.db.Create(log).Error
}

func (r *AuditRepository) List(scope tenant.Filter, query audit.ListQuery) ([]*audit.Log, int64, error) {
	q := scope.Scoped(r.db.Model(&audit.Log{}))

	if query.EntityType != "" {
		q = q.Where("entity_type = ?", query.EntityType)
	}
	if query.Action != "" {
		q = q.Where("action = ?", query.Action)
	}
	if query.UserID != nil {
		q = q.Where("user_id = ?", *query.UserID)
	}
	if query.From != nil {
		q = q.Where("created_at >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("created_at <= ?", *query.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []*audit.Log
	err := q.Order("created_at DESC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&logs).Error
	return logs, total, err
}
