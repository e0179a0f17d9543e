package postgres

import (
	"errors"

	"github.com/crmkit/lead-management/internal/catalog"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type ServiceRepository struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) catalog.RepositoryAPI {
	return &ServiceRepository{db: db}
}

func (r *ServiceRepository) Create(svc *catalog.Service) error {
	return r.db.Create(svc).Error
}

func (r *ServiceRepository) GetByID(scope tenant.Filter, id int64) (*catalog.Service, error) {
	var svc catalog.Service
	err := scope.Scoped(r.db).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&svc).Error
	if err != nil {
		return nil, err
	}
	return &svc, nil
}

func (r *ServiceRepository) List(scope tenant.Filter, query catalog.ListQuery) ([]*catalog.Service, int64, error) {
	q := scope.Scoped(r.db.Model(&catalog.Service{})).Where("is_deleted = ?", false)

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

	var services []*catalog.Service
	err := q.Order("name ASC").
		Limit(query.PerPage).
		Offset((query.Page - 1) * query.PerPage).
		Find(&services).Error
	return services, total, err
}

func (r *ServiceRepository) Update(svc *catalog.Service) error {
	return r.db.Save(svc).Error
}

func (r *ServiceRepository) NameExists(orgID int64, name string, excludeID int64) (bool, error) {
	var svc catalog.Service
	q := r.db.Where("organization_id = ? AND name = ? AND is_deleted = ?", orgID, name, false)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.First(&svc).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
