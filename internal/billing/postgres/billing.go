package postgres

import (
	"github.com/crmkit/lead-management/internal/billing"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) billing.RepositoryAPI {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) Create(b *billing.Billing) error {
	return r.db.Create(b).Error
}

func (r *BillingRepository) GetByID(scope tenant.Filter, id int64) (*billing.Billing, error) {
	var b billing.Billing
	err := scope.Scoped(r.db).
		Preload("Items").
		Where("id = ? AND is_deleted = ?", id, false).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BillingRepository) List(scope tenant.Filter, query billing.ListQuery) ([]*billing.Billing, int64, error) {
	q := scope.Scoped(r.db.Model(&billing.Billing{})).Where("is_deleted = ?", false)

	if query.Search != "" {
		q = q.Where("invoice_number LIKE ?", "%"+query.Search+"%")
	}
	if query.Status != "" {
		q = q.Where("status = ?", query.Status)
	}
	if query.ContactID != nil {
		q = q.Where("contact_id = ?", *query.ContactID)
	}
	if query.From != nil {
		q = q.Where("issued_at >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("issued_at <= ?", *query.To)
	}
	if query.OwnedBy != nil {
		q = q.Where("created_by = ?", *query.OwnedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var billings []*billing.Billing
	err := q.Preload("Items").
		Order("issued_at DESC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&billings).Error
	return billings, total, err
}

func (r *BillingRepository) Update(b *billing.Billing) error {
	return r.db.Omit("Items").Save(b).Error
}

// ReplaceItems swaps the full line-item set of an invoice in one transaction.
func (r *BillingRepository) ReplaceItems(billingID int64, items []billing.BillingItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("billing_id = ?", billingID).Delete(&billing.BillingItem{}).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}
