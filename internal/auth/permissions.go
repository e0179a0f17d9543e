package auth

// Permission names are atomic capabilities referenced by roles. Seeded once,
// immutable afterwards.
const (
	PermLeadRead   = "LEAD_READ"
	PermLeadCreate = "LEAD_CREATE"
	PermLeadUpdate = "LEAD_UPDATE"
	PermLeadDelete = "LEAD_DELETE"

	PermContactRead   = "CONTACT_READ"
	PermContactCreate = "CONTACT_CREATE"
	PermContactUpdate = "CONTACT_UPDATE"
	PermContactDelete = "CONTACT_DELETE"

	PermFollowUpRead   = "FOLLOWUP_READ"
	PermFollowUpCreate = "FOLLOWUP_CREATE"
	PermFollowUpUpdate = "FOLLOWUP_UPDATE"
	PermFollowUpDelete = "FOLLOWUP_DELETE"

	PermActivityRead   = "ACTIVITY_READ"
	PermActivityCreate = "ACTIVITY_CREATE"
	PermActivityUpdate = "ACTIVITY_UPDATE"
	PermActivityDelete = "ACTIVITY_DELETE"

	PermBillingRead   = "BILLING_READ"
	PermBillingCreate = "BILLING_CREATE"
	PermBillingUpdate = "BILLING_UPDATE"
	PermBillingDelete = "BILLING_DELETE"

	PermServiceRead   = "SERVICE_READ"
	PermServiceCreate = "SERVICE_CREATE"
	PermServiceUpdate = "SERVICE_UPDATE"
	PermServiceDelete = "SERVICE_DELETE"

	PermReferrerRead   = "REFERRER_READ"
	PermReferrerCreate = "REFERRER_CREATE"
	PermReferrerUpdate = "REFERRER_UPDATE"
	PermReferrerDelete = "REFERRER_DELETE"

	PermExpenseRead   = "EXPENSE_READ"
	PermExpenseCreate = "EXPENSE_CREATE"
	PermExpenseUpdate = "EXPENSE_UPDATE"
	PermExpenseDelete = "EXPENSE_DELETE"

	PermUserRead   = "USER_READ"
	PermUserCreate = "USER_CREATE"
	PermUserUpdate = "USER_UPDATE"
	PermUserDelete = "USER_DELETE"

	PermRoleRead   = "ROLE_READ"
	PermRoleCreate = "ROLE_CREATE"
	PermRoleUpdate = "ROLE_UPDATE"
	PermRoleDelete = "ROLE_DELETE"

	PermOrgRead   = "ORG_READ"
	PermOrgCreate = "ORG_CREATE"
	PermOrgUpdate = "ORG_UPDATE"
	PermOrgDelete = "ORG_DELETE"

	PermAuditRead  = "AUDIT_READ"
	PermReportRead = "REPORT_READ"
)

// AllPermissions is the seed catalog: name plus the resource/method pair the
// capability loosely maps to.
func AllPermissions() []struct{ Name, Resource, Method string } {
	return []struct{ Name, Resource, Method string }{
		{PermLeadRead, "leads", "GET"}, {PermLeadCreate, "leads", "POST"},
		{PermLeadUpdate, "leads", "PUT"}, {PermLeadDelete, "leads", "DELETE"},
		{PermContactRead, "contacts", "GET"}, {PermContactCreate, "contacts", "POST"},
		{PermContactUpdate, "contacts", "PUT"}, {PermContactDelete, "contacts", "DELETE"},
		{PermFollowUpRead, "followups", "GET"}, {PermFollowUpCreate, "followups", "POST"},
		{PermFollowUpUpdate, "followups", "PUT"}, {PermFollowUpDelete, "followups", "DELETE"},
		{PermActivityRead, "activities", "GET"}, {PermActivityCreate, "activities", "POST"},
		{PermActivityUpdate, "activities", "PUT"}, {PermActivityDelete, "activities", "DELETE"},
		{PermBillingRead, "billings", "GET"}, {PermBillingCreate, "billings", "POST"},
		{PermBillingUpdate, "billings", "PUT"}, {PermBillingDelete, "billings", "DELETE"},
		{PermServiceRead, "services", "GET"}, {PermServiceCreate, "services", "POST"},
		{PermServiceUpdate, "services", "PUT"}, {PermServiceDelete, "services", "DELETE"},
		{PermReferrerRead, "referrers", "GET"}, {PermReferrerCreate, "referrers", "POST"},
		{PermReferrerUpdate, "referrers", "PUT"}, {PermReferrerDelete, "referrers", "DELETE"},
		{PermExpenseRead, "expenses", "GET"}, {PermExpenseCreate, "expenses", "POST"},
		{PermExpenseUpdate, "expenses", "PUT"}, {PermExpenseDelete, "expenses", "DELETE"},
		{PermUserRead, "users", "GET"}, {PermUserCreate, "users", "POST"},
		{PermUserUpdate, "users", "PUT"}, {PermUserDelete, "users", "DELETE"},
		{PermRoleRead, "roles", "GET"}, {PermRoleCreate, "roles", "POST"},
		{PermRoleUpdate, "roles", "PUT"}, {PermRoleDelete, "roles", "DELETE"},
		{PermOrgRead, "organizations", "GET"}, {PermOrgCreate, "organizations", "POST"},
		{PermOrgUpdate, "organizations", "PUT"}, {PermOrgDelete, "organizations", "DELETE"},
		{PermAuditRead, "audit-logs", "GET"},
		{PermReportRead, "reports", "GET"},
	}
}
