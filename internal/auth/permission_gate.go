package auth

import (
	"log/slog"
	"net/http"

	"github.com/crmkit/lead-management/internal"
)

// PermissionGate authorizes a specific action against the principal's role. It
// is independent of, and always applied in addition to, the tenant filter: a
// permission grants the capability to act on the resource type, the tenant
// filter constrains which instances.
type PermissionGate struct {
	logger *slog.Logger
}

func NewPermissionGate(logger *slog.Logger) *PermissionGate {
	return &PermissionGate{logger: logger}
}

// Allow checks a single permission for a resolved principal. The system
// super-admin role always passes.
func (g *PermissionGate) Allow(p *internal.Principal, permission string) error {
	if p == nil {
		return internal.ErrInvalidToken
	}
	if p.HasPermission(permission) {
		return nil
	}
	g.logger.Warn("access denied: insufficient permissions",
		"user_id", p.UserID,
		"role", p.RoleName,
		"required_permission", permission)
	return internal.NewMissingPermissionError(permission)
}

// Require wraps a route group with the permission check.
func (g *PermissionGate) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				internal.WriteDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if err := g.Allow(principal, permission); err != nil {
				if appErr, isApp := internal.IsAppError(err); isApp {
					internal.WriteDenied(w, appErr.StatusCode, appErr.Message)
					return
				}
				internal.WriteDenied(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin guards the few routes (organization create/purge) that only
// the system role may reach regardless of granted permissions.
func (g *PermissionGate) RequireSuperAdmin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := internal.PrincipalFromContext(r.Context())
			if !ok {
				internal.WriteDenied(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			if !principal.IsSuperAdmin() {
				g.logger.Warn("access denied: super admin required",
					"user_id", principal.UserID,
					"role", principal.RoleName)
				internal.WriteDenied(w, http.StatusForbidden, "super admin required")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
