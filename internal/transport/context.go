package transport

import (
	"net/http"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/tenant"
)

// RequestContext pulls the resolved principal and tenant filter out of the
// request. Both are guaranteed present behind the auth + scope middleware; a
// miss means the route was wired outside that chain.
func RequestContext(r *http.Request) (*internal.Principal, tenant.Filter, bool) {
	principal, ok := internal.PrincipalFromContext(r.Context())
	if !ok {
		return nil, tenant.Filter{}, false
	}
	scope, ok := tenant.FilterFromContext(r.Context())
	if !ok {
		return nil, tenant.Filter{}, false
	}
	return principal, scope, true
}
