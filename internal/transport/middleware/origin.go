package middleware

import (
	"net/http"

	"github.com/crmkit/lead-management/internal/audit"
)

// AuditOrigin stashes the caller's address and user agent in the request
// context so audit records can attribute writes to their source.
func AuditOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := audit.ContextWithOrigin(r.Context(), audit.Origin{
			IPAddress: clientIP(r),
			UserAgent: r.UserAgent(),
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
