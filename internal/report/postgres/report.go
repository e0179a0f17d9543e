package postgres

import (
	"github.com/crmkit/lead-management/internal/report"
	"github.com/crmkit/lead-management/internal/tenant"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) report.RepositoryAPI {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Dashboard(scope tenant.Filter) (*report.Dashboard, error) {
	d := &report.Dashboard{LeadsByStatus: map[string]int64{}}

	if err := scope.Scoped(r.db.Table("leads")).
		Where("is_deleted = ?", false).
		Count(&d.TotalLeads).Error; err != nil {
		return nil, err
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var statuses []statusCount
	err := scope.Scoped(r.db.Table("leads")).
		Select("status, COUNT(*) AS count").
		Where("is_deleted = ?", false).
		Group("status").
		Scan(&statuses).Error
	if err != nil {
		return nil, err
	}
	for _, sc := range statuses {
		d.LeadsByStatus[sc.Status] = sc.Count
	}

	if err := scope.Scoped(r.db.Table("contacts")).
		Where("is_deleted = ?", false).
		Count(&d.TotalContacts).Error; err != nil {
		return nil, err
	}

	if err := scope.Scoped(r.db.Table("follow_ups")).
		Where("is_deleted = ? AND status = ?", false, "Pending").
		Count(&d.PendingFollowUps).Error; err != nil {
		return nil, err
	}

	if err := scope.Scoped(r.db.Table("billings")).
		Where("is_deleted = ?", false).
		Count(&d.TotalInvoices).Error; err != nil {
		return nil, err
	}

	if err := scope.Scoped(r.db.Table("billings")).
		Select("COALESCE(SUM(grand_total), 0)").
		Where("is_deleted = ? AND status = ?", false, "Paid").
		Row().Scan(&d.PaidRevenue); err != nil {
		return nil, err
	}

	if err := scope.Scoped(r.db.Table("billings")).
		Select("COALESCE(SUM(grand_total), 0)").
		Where("is_deleted = ? AND status = ?", false, "Sent").
		Row().Scan(&d.OutstandingAmount); err != nil {
		return nil, err
	}

	if err := scope.Scoped(r.db.Table("expenses")).
		Select("COALESCE(SUM(amount), 0)").
		Where("is_deleted = ?", false).
		Row().Scan(&d.TotalExpenses); err != nil {
		return nil, err
	}

	return d, nil
}

// RevenueByMonth sums paid invoices per calendar month of the given year.
// Months without revenue are filled with zero so charts get twelve points.
func (r *ReportRepository) RevenueByMonth(scope tenant.Filter, year int) ([]report.MonthlyRevenue, error) {
	type row struct {
		Month   int
		Revenue int64
	}
	var rows []row
	err := scope.Scoped(r.db.Table("billings")).
		Select("EXTRACT(MONTH FROM issued_at)::int AS month, SUM(grand_total) AS revenue").
		Where("is_deleted = ? AND status = ?", false, "Paid").
		Where("EXTRACT(YEAR FROM issued_at) = ?", year).
		Group("month").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]report.MonthlyRevenue, 12)
	for i := range out {
		out[i].Month = i + 1
	}
	for _, rw := range rows {
		if rw.Month >= 1 && rw.Month <= 12 {
			out[rw.Month-1].Revenue = rw.Revenue
		}
	}
	return out, nil
}

func (r *ReportRepository) RevenueByService(scope tenant.Filter, year int) ([]report.ServiceRevenue, error) {
	var rows []report.ServiceRevenue
	q := r.db.Table("billing_items").
		Select("services.id AS service_id, services.name AS service_name, SUM(billing_items.line_total + billing_items.tax_amount) AS revenue").
		Joins("JOIN billings ON billings.id = billing_items.billing_id").
		Joins("JOIN services ON services.id = billing_items.service_id").
		Where("billings.is_deleted = ? AND billings.status = ?", false, "Paid").
		Where("EXTRACT(YEAR FROM billings.issued_at) = ?", year).
		Group("services.id, services.name").
		Order("revenue DESC")
	if scope.OrganizationID != nil {
		q = q.Where("billings.organization_id = ?", *scope.OrganizationID)
	}
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
