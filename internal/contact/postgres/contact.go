package postgres

import (
	"errors"

	"github.com/crmkit/lead-management/internal/contact"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type ContactRepository struct {
	db *gorm.DB
}

func NewContactRepository(db *gorm.DB) contact.RepositoryAPI {
	return &ContactRepository{db: db}
}

func (r *ContactRepository) Create(c *contact.Contact) error {
	return r.db.Create(c).Error
}

// GetByID applies the tenant filter inside the query, so a cross-tenant id
// lookup is indistinguishable from a missing record.
func (r *ContactRepository) GetByID(scope tenant.Filter, id int64) (*contact.Contact, error) {
	var c contact.Contact
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ContactRepository) List(scope tenant.Filter, query contact.ListQuery) ([]*contact.Contact, int64, error) {
	q := scope.Scoped(r.db.Model(&contact.Contact{})).Where("is_deleted = ?", false)

	if query.Search != "" {
		like := "%" + query.Search + "%"
		q = q.Where("name LIKE ? OR email LIKE ? OR phone LIKE ?", like, like, like)
	}
	if query.OwnedBy != nil {
		q = q.Where("created_by = ?", *query.OwnedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contacts []*contact.Contact
	err := q.Order("created_at DESC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&contacts).Error
	return contacts, total, err
}

func (r *ContactRepository) Update(c *contact.Contact) error {
	return r.db.Save(c).Error
}

func (r *ContactRepository) PhoneExists(orgID int64, phone string, excludeID int64) (bool, error) {
	var c contact.Contact
	q := r.db.Where("organization_id = ? AND phone = ? AND is_deleted = ?", orgID, phone, false)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *ContactRepository) ExistsForLead(orgID, leadID int64) (bool, error) {
	var c contact.Contact
	err := r.db.
		Where("organization_id = ? AND lead_id = ? AND is_deleted = ?", orgID, leadID, false).
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
