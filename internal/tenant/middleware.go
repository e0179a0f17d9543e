package tenant

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/crmkit/lead-management/internal"
)

// OrganizationHeader lets a super admin scope a request to one organization
// without changing their own identity. The header wins over the query parameter.
const (
	OrganizationHeader     = "X-Organization-ID"
	OrganizationQueryParam = "organization_id"
)

// ScopeMiddleware computes the tenant filter for the authenticated principal and
// attaches it to the request context before any resource handler runs. Requests
// from a non-super-admin principal without a resolvable organization are
// rejected here, so downstream services can assume the filter is valid.
func ScopeMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				internal.WriteDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			filter, err := Resolve(principal, explicitOrgFromRequest(r))
			if err != nil {
				logger.WarnContext(r.Context(), "tenant scope rejected",
					"user_id", principal.UserID,
					"role", principal.RoleName)
				internal.WriteDenied(w, http.StatusForbidden, "no organization resolved for this request")
				return
			}

			next.ServeHTTP(w, r.WithContext(ContextWithFilter(r.Context(), filter)))
		})
	}
}

func explicitOrgFromRequest(r *http.Request) *int64 {
	raw := r.Header.Get(OrganizationHeader)
	if raw == "" {
		raw = r.URL.Query().Get(OrganizationQueryParam)
	}
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil
	}
	return &id
}
