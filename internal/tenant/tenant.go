package tenant

import (
	"context"

	"github.com/crmkit/lead-management/internal"
	"gorm.io/gorm"
)

// Filter is the query predicate derived from the principal that scopes all data
// access for a request. A nil OrganizationID means unrestricted, which only a
// super admin without an explicit organization context ever gets.
type Filter struct {
	OrganizationID *int64
}

func (f Filter) Restricted() bool {
	return f.OrganizationID != nil
}

// Scoped narrows a GORM query to the filter's organization. Repositories apply
// this on every tenant-scoped read and write; an unrestricted filter leaves the
// query untouched.
func (f Filter) Scoped(db *gorm.DB) *gorm.DB {
	if f.OrganizationID != nil {
		return db.Where("organization_id = ?", *f.OrganizationID)
	}
	return db
}

// Matches reports whether a loaded record's organization satisfies the filter.
// Used after get-by-id loads; a mismatch is reported as not-found upstream.
func (f Filter) Matches(orgID int64) bool {
	return f.OrganizationID == nil || *f.OrganizationID == orgID
}

// ResolveWriteOrg decides which organization id a create/update payload is
// persisted with. Non-super-admin payloads are always overwritten with the
// principal's own organization, never trusted from client input. A super admin
// keeps the payload value, falling back to the explicit organization context
// when the payload omits it.
func (f Filter) ResolveWriteOrg(bodyOrg *int64, p *internal.Principal) *int64 {
	if p != nil && p.IsSuperAdmin() {
		if bodyOrg != nil {
			return bodyOrg
		}
		return f.OrganizationID
	}
	return f.OrganizationID
}

// Resolve computes the tenant filter for a principal per the scoping policy:
// super admins may narrow themselves to an explicit organization, everyone else
// is pinned to their own organization and rejected without one.
func Resolve(p *internal.Principal, explicitOrg *int64) (Filter, error) {
	if p == nil {
		return Filter{}, internal.ErrMissingOrganization
	}
	if p.IsSuperAdmin() {
		return Filter{OrganizationID: explicitOrg}, nil
	}
	if p.OrganizationID == nil {
		return Filter{}, internal.ErrMissingOrganization
	}
	return Filter{OrganizationID: p.OrganizationID}, nil
}

type ctxKey string

const contextFilterKey ctxKey = "tenantFilter"

func ContextWithFilter(ctx context.Context, f Filter) context.Context {
	return context.WithValue(ctx, contextFilterKey, f)
}

// FilterFromContext returns the tenant filter the scope middleware attached.
func FilterFromContext(ctx context.Context) (Filter, bool) {
	if ctx == nil {
		return Filter{}, false
	}
	f, ok := ctx.Value(contextFilterKey).(Filter)
	return f, ok
}
