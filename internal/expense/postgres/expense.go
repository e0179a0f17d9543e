package postgres

import (
	"github.com/crmkit/lead-management/internal/expense"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.RepositoryAPI {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(e *expense.Expense) error {
	return r.db.Create(e).Error
}

func (r *ExpenseRepository) GetByID(scope tenant.Filter, id int64) (*expense.Expense, error) {
	var e expense.Expense
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExpenseRepository) List(scope tenant.Filter, query expense.ListQuery) ([]*expense.Expense, int64, error) {
	q := scope.Scoped(r.db.Model(&expense.Expense{})).Where("is_deleted = ?", false)

	if query.Search != "" {
		q = q.Where("description LIKE ?", "%"+query.Search+"%")
	}
	if query.Category != "" {
		q = q.Where("category = ?", query.Category)
	}
	if query.From != nil {
		q = q.Where("expense_date >= ?", *query.From)
	}
	if query.To != nil {
		q = q.Where("expense_date <= ?", *query.To)
	}
	if query.OwnedBy != nil {
		q = q.Where("created_by = ?", *query.OwnedBy)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var expenses []*expense.Expense
	err := q.Order("expense_date DESC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&expenses).Error
	return expenses, total, err
}

func (r *ExpenseRepository) Update(e *expense.Expense) error {
	return r.db.Save(e).Error
}
