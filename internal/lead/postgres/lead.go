package postgres

import (
	"errors"

	"github.com/crmkit/lead-management/internal/lead"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type LeadRepository struct {
	db *gorm.DB
}

func NewLeadRepository(db *gorm.DB) lead.RepositoryAPI {
	return &LeadRepository{db: db}
}

func (r *LeadRepository) Create(l *lead.Lead) error {
	return r.db.Create(l).Error
}

// GetByID applies the tenant filter inside the query, so a cross-tenant id
// lookup is indistinguishable from a missing record.
func (r *LeadRepository) GetByID(scope tenant.Filter, id int64) (*lead.Lead, error) {
	var l lead.Lead
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&l).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LeadRepository) List(scope tenant.Filter, query lead.ListQuery) ([]*lead.Lead, int64, error) {
	q := scope.Scoped(r.db.Model(&lead.Lead{})).Where("is_deleted = ?", false)

	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.AssignedTo != nil {
		q = q.Where("assigned_to = ?", *query.AssignedTo)
	}
	if query.From != nil {
		q = q.Where("created_at >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("created_at <= ?", *query.To)
	}
	if query.OwnedBy != nil {
		q = q.Where("created_by = ? OR assigned_to = ?", *query.OwnedBy, *query.OwnedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []*lead.Lead
	err := q.Order("created_at DESC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&leads).Error
	return leads, total, err
}

func (r *LeadRepository) Update(l *lead.Lead) error {
	return r.db.Save(l).Error
}

func (r *LeadRepository) PhoneExists(orgID int64, phone string, excludeID int64) (bool, error) {
	var l lead.Lead
	q := r.db.Where("organization_id = ? AND phone = ? AND is_deleted = ?", orgID, phone, false)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&l).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
