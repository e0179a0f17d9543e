package report

// Dashboard is the landing-page summary for a tenant.
type Dashboard struct {
	TotalLeads        int64            `json:"total_leads"`
	LeadsByStatus     map[string]int64 `json:"leads_by_status"`
	TotalContacts     int64            `json:"total_contacts"`
	PendingFollowUps  int64            `json:"pending_follow_ups"`
	TotalInvoices     int64            `json:"total_invoices"`
	PaidRevenue       int64            `json:"paid_revenue"`
	OutstandingAmount int64            `json:"outstanding_amount"`
	TotalExpenses     int64            `json:"total_expenses"`
}

// MonthlyRevenue is one month of paid invoice revenue.
type MonthlyRevenue struct {
	Month   int   `json:"month"`
	Revenue int64 `json:"revenue"`
}

// ServiceRevenue is the paid revenue attributed to one catalog service.
type ServiceRevenue struct {
	ServiceID   int64  `json:"service_id"`
	ServiceName string `json:"service_name"`
	Revenue     int64  `json:"revenue"`
}
