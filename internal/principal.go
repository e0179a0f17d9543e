package internal

// AccessLevel is resolved once per request from the principal's role, replacing
// ad-hoc role-name comparisons in services. Ordering matters: higher levels see
// more records within their tenant.
type AccessLevel int

const (
	AccessStandard AccessLevel = iota
	AccessOrgAdmin
	AccessOrgOwner
	AccessSuperAdmin
)

func (l AccessLevel) String() string {
	switch l {
	case AccessSuperAdmin:
		return "super_admin"
	case AccessOrgOwner:
		return "org_owner"
	case AccessOrgAdmin:
		return "org_admin"
	default:
		return "standard"
	}
}

// Principal is the authenticated actor for a request: user, resolved role and
// organization. Built once by the auth middleware, never persisted.
type Principal struct {
	UserID         int64
	Email          string
	Name           string
	OrganizationID *int64
	RoleName       string
	SystemRole     bool
	Permissions    []string
	Access         AccessLevel
}

func (p *Principal) IsSuperAdmin() bool {
	return p.Access == AccessSuperAdmin
}

// HasPermission reports whether the role grants the named permission. The system
// super-admin role bypasses the permission set entirely.
func (p *Principal) HasPermission(permission string) bool {
	if p.IsSuperAdmin() {
		return true
	}
	for _, perm := range p.Permissions {
		if perm == permission {
			return true
		}
	}
	return false
}

// SeesWholeOrganization reports whether list endpoints skip the ownership
// narrowing rule: owners and org admins see every record in their tenant,
// standard users only records they created or were assigned.
func (p *Principal) SeesWholeOrganization() bool {
	return p.Access >= AccessOrgAdmin
}
