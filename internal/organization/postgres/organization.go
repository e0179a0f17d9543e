package postgres

import (
	"errors"

	"github.com/crmkit/lead-management/internal/counter"
	"github.com/crmkit/lead-management/internal/organization"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.RepositoryAPI {
	return &OrganizationRepository{db: db}
}

func (r *OrganizationRepository) Create(o *organization.Organization) error {
	return r.db.Create(o).Error
}

func (r *OrganizationRepository) GetByID(id int64) (*organization.Organization, error) {
	var o organization.Organization
	err := r.db.
		Where("id = ? AND is_deleted = ?", id, false).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrganizationRepository) List(query organization.ListQuery) ([]*organization.Organization, int64, error) {
	q := r.db.Model(&organization.Organization{}).Where("is_deleted = ?", false)

	if query.Search != "" {
		q = q.Where("name LIKE ?", "%"+query.Search+"%")
	}
	if query.Active != nil {
		q = q.Where("is_active = ?", *query.Active)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orgs []*organization.Organization
	err := q.Order("name ASC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&orgs).Error
	return orgs, total, err
}

func (r *OrganizationRepository) Update(o *organization.Organization) error {
	return r.db.Save(o).Error
}

func (r *OrganizationRepository) NameExists(name string, excludeID int64) (bool, error) {
	var o organization.Organization
	q := r.db.Where("name = ? AND is_deleted = ?", name, false)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Purge removes the organization and every row scoped to it in one
// transaction. This is the single hard-delete path in the system.
func (r *OrganizationRepository) Purge(id int64) error {
	scoped := []string{
		"billing_items",
		"billings",
		"activities",
		"follow_ups",
		"contacts",
		"leads",
		"expenses",
		"referrers",
		"services",
		"audit_logs",
		"users",
		"role_permissions",
		"roles",
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM billing_items WHERE billing_id IN
		                   (SELECT id FROM billings WHERE organization_id = ?)`, id).Error; err != nil {
			return err
		}
		if err := tx.Exec(`DELETE FROM role_permissions WHERE role_id IN
		                   (SELECT id FROM roles WHERE organization_id = ?)`, id).Error; err != nil {
			return err
		}
		for _, table := range scoped {
			if table == "billing_items" || table == "role_permissions" {
				continue
			}
			if err := tx.Exec("DELETE FROM "+table+" WHERE organization_id = ?", id).Error; err != nil {
				return err
			}
		}
		if err := tx.Exec(`DELETE FROM counters WHERE name = ?`, counter.InvoiceOrgKey(id)).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM organizations WHERE id = ?", id).Error
	})
}
