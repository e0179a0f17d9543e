package rest

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/activity"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/auth"
	"github.com/crmkit/lead-management/internal/billing"
	"github.com/crmkit/lead-management/internal/catalog"
	"github.com/crmkit/lead-management/internal/contact"
	"github.com/crmkit/lead-management/internal/expense"
	"github.com/crmkit/lead-management/internal/followup"
	"github.com/crmkit/lead-management/internal/lead"
	"github.com/crmkit/lead-management/internal/organization"
	"github.com/crmkit/lead-management/internal/referrer"
	"github.com/crmkit/lead-management/internal/report"
	"github.com/crmkit/lead-management/internal/role"
	"github.com/crmkit/lead-management/internal/tenant"
	"github.com/crmkit/lead-management/internal/transport/middleware"
	"github.com/crmkit/lead-management/internal/transport/swagger"
	"github.com/crmkit/lead-management/internal/user"
	"github.com/go-chi/chi"
)

// Handlers bundles every HTTP handler the router mounts. Nil entries are
// skipped so partial wiring (tests, tools) stays possible.
type Handlers struct {
	Auth         *auth.Handler
	User         *user.Handler
	Organization *organization.Handler
	Role         *role.Handler
	Lead         *lead.Handler
	Contact      *contact.Handler
	FollowUp     *followup.Handler
	Activity     *activity.Handler
	Billing      *billing.Handler
	Catalog      *catalog.Handler
	Referrer     *referrer.Handler
	Expense      *expense.Handler
	Report       *report.Handler
	Audit        *audit.Handler
}

// RegisterAllRoutes mounts the full API surface under /api/v1. Every
// authenticated route runs through principal resolution, tenant scoping and a
// permission gate, in that order.
func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, cfg *internal.Config, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)
	gate := auth.NewPermissionGate(logger)

	middleware.RegisterMetrics()

	router.Use(middleware.CORS)
	router.Use(middleware.RequestID)
	router.Use(middleware.Metrics)
	router.Use(middleware.RequestLogging)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.AuditOrigin)

	router.Handle("/metrics", middleware.MetricsHandler())
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./api/openapi.yml")
	})
	router.Handle("/swagger/*", swagger.Handler())

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		if h.Auth != nil {
			r.Route("/auth", func(sr chi.Router) {
				loginLimit := middleware.LoginRateLimit(cfg.Security.LoginRatePerMinute, cfg.Security.LoginRateBurst)
				sr.With(loginLimit).Post("/login", h.Auth.Login)
				sr.Post("/refresh", h.Auth.RefreshToken)
				sr.Post("/logout", h.Auth.Logout)
			})
		}

		if h.Auth == nil {
			return
		}

		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)
			pr.Use(tenant.ScopeMiddleware(logger))

			if h.User != nil {
				pr.Get("/users/me", h.User.Me)
				pr.Route("/users", func(ur chi.Router) {
					ur.With(gate.Require(auth.PermUserRead)).Get("/", h.User.ListUsers)
					ur.With(gate.Require(auth.PermUserRead)).Get("/{id}", h.User.GetUser)
					ur.With(gate.Require(auth.PermUserCreate)).Post("/", h.User.CreateUser)
					ur.With(gate.Require(auth.PermUserUpdate)).Put("/{id}", h.User.UpdateUser)
					ur.With(gate.Require(auth.PermUserDelete)).Delete("/{id}", h.User.DeleteUser)
				})
			}

			if h.Organization != nil {
				pr.Route("/organizations", func(or chi.Router) {
					or.With(gate.Require(auth.PermOrgRead)).Get("/", h.Organization.ListOrganizations)
					or.With(gate.Require(auth.PermOrgRead)).Get("/{id}", h.Organization.GetOrganization)
					or.With(gate.RequireSuperAdmin()).Post("/", h.Organization.CreateOrganization)
					or.With(gate.Require(auth.PermOrgUpdate)).Put("/{id}", h.Organization.UpdateOrganization)
					or.With(gate.RequireSuperAdmin()).Delete("/{id}", h.Organization.DeleteOrganization)
				})
			}

			if h.Role != nil {
				pr.With(gate.Require(auth.PermRoleRead)).Get("/permissions", h.Role.ListPermissions)
				pr.Route("/roles", func(rr chi.Router) {
					rr.With(gate.Require(auth.PermRoleRead)).Get("/", h.Role.ListRoles)
					rr.With(gate.Require(auth.PermRoleRead)).Get("/{id}", h.Role.GetRole)
					rr.With(gate.Require(auth.PermRoleCreate)).Post("/", h.Role.CreateRole)
					rr.With(gate.Require(auth.PermRoleUpdate)).Put("/{id}", h.Role.UpdateRole)
					rr.With(gate.Require(auth.PermRoleDelete)).Delete("/{id}", h.Role.DeleteRole)
				})
			}

			if h.Lead != nil {
				pr.Route("/leads", func(lr chi.Router) {
					lr.With(gate.Require(auth.PermLeadRead)).Get("/", h.Lead.ListLeads)
					lr.With(gate.Require(auth.PermLeadRead)).Get("/{id}", h.Lead.GetLead)
					lr.With(gate.Require(auth.PermLeadCreate)).Post("/", h.Lead.CreateLead)
					lr.With(gate.Require(auth.PermLeadUpdate)).Put("/{id}", h.Lead.UpdateLead)
					lr.With(gate.Require(auth.PermLeadDelete)).Delete("/{id}", h.Lead.DeleteLead)
					lr.With(gate.Require(auth.PermLeadUpdate)).Post("/{id}/convert", h.Lead.ConvertLead)
				})
			}

			if h.Contact != nil {
				pr.Route("/contacts", func(cr chi.Router) {
					cr.With(gate.Require(auth.PermContactRead)).Get("/", h.Contact.ListContacts)
					cr.With(gate.Require(auth.PermContactRead)).Get("/{id}", h.Contact.GetContact)
					cr.With(gate.Require(auth.PermContactCreate)).Post("/", h.Contact.CreateContact)
					cr.With(gate.Require(auth.PermContactUpdate)).Put("/{id}", h.Contact.UpdateContact)
					cr.With(gate.Require(auth.PermContactDelete)).Delete("/{id}", h.Contact.DeleteContact)
				})
			}

			if h.FollowUp != nil {
				pr.Route("/followups", func(fr chi.Router) {
					fr.With(gate.Require(auth.PermFollowUpRead)).Get("/", h.FollowUp.ListFollowUps)
					fr.With(gate.Require(auth.PermFollowUpRead)).Get("/{id}", h.FollowUp.GetFollowUp)
					fr.With(gate.Require(auth.PermFollowUpCreate)).Post("/", h.FollowUp.CreateFollowUp)
					fr.With(gate.Require(auth.PermFollowUpUpdate)).Put("/{id}", h.FollowUp.UpdateFollowUp)
					fr.With(gate.Require(auth.PermFollowUpDelete)).Delete("/{id}", h.FollowUp.DeleteFollowUp)
				})
			}

			if h.Activity != nil {
				pr.Route("/activities", func(ar chi.Router) {
					ar.With(gate.Require(auth.PermActivityRead)).Get("/", h.Activity.ListActivities)
					ar.With(gate.Require(auth.PermActivityRead)).Get("/{id}", h.Activity.GetActivity)
					ar.With(gate.Require(auth.PermActivityCreate)).Post("/", h.Activity.CreateActivity)
					ar.With(gate.Require(auth.PermActivityUpdate)).Put("/{id}", h.Activity.UpdateActivity)
					ar.With(gate.Require(auth.PermActivityDelete)).Delete("/{id}", h.Activity.DeleteActivity)
				})
			}

			if h.Billing != nil {
				pr.Route("/billings", func(br chi.Router) {
					br.With(gate.Require(auth.PermBillingRead)).Get("/", h.Billing.ListBillings)
					br.With(gate.Require(auth.PermBillingRead)).Get("/{id}", h.Billing.GetBilling)
					br.With(gate.Require(auth.PermBillingCreate)).Post("/", h.Billing.CreateBilling)
					br.With(gate.Require(auth.PermBillingUpdate)).Put("/{id}", h.Billing.UpdateBilling)
					br.With(gate.Require(auth.PermBillingDelete)).Delete("/{id}", h.Billing.DeleteBilling)
				})
			}

			if h.Catalog != nil {
				pr.Route("/services", func(sr chi.Router) {
					sr.With(gate.Require(auth.PermServiceRead)).Get("/", h.Catalog.ListServices)
					sr.With(gate.Require(auth.PermServiceRead)).Get("/{id}", h.Catalog.GetService)
					sr.With(gate.Require(auth.PermServiceCreate)).Post("/", h.Catalog.CreateService)
					sr.With(gate.Require(auth.PermServiceUpdate)).Put("/{id}", h.Catalog.UpdateService)
					sr.With(gate.Require(auth.PermServiceDelete)).Delete("/{id}", h.Catalog.DeleteService)
				})
			}

			if h.Referrer != nil {
				pr.Route("/referrers", func(rr chi.Router) {
					rr.With(gate.Require(auth.PermReferrerRead)).Get("/", h.Referrer.ListReferrers)
					rr.With(gate.Require(auth.PermReferrerRead)).Get("/{id}", h.Referrer.GetReferrer)
					rr.With(gate.Require(auth.PermReferrerCreate)).Post("/", h.Referrer.CreateReferrer)
					rr.With(gate.Require(auth.PermReferrerUpdate)).Put("/{id}", h.Referrer.UpdateReferrer)
					rr.With(gate.Require(auth.PermReferrerDelete)).Delete("/{id}", h.Referrer.DeleteReferrer)
				})
			}

			if h.Expense != nil {
				pr.Route("/expenses", func(er chi.Router) {
					er.With(gate.Require(auth.PermExpenseRead)).Get("/", h.Expense.ListExpenses)
					er.With(gate.Require(auth.PermExpenseRead)).Get("/{id}", h.Expense.GetExpense)
					er.With(gate.Require(auth.PermExpenseCreate)).Post("/", h.Expense.CreateExpense)
					er.With(gate.Require(auth.PermExpenseUpdate)).Put("/{id}", h.Expense.UpdateExpense)
					er.With(gate.Require(auth.PermExpenseDelete)).Delete("/{id}", h.Expense.DeleteExpense)
				})
			}

			if h.Report != nil {
				pr.Route("/reports", func(rr chi.Router) {
					rr.Use(gate.Require(auth.PermReportRead))
					rr.Get("/dashboard", h.Report.Dashboard)
					rr.Get("/revenue/monthly", h.Report.RevenueByMonth)
					rr.Get("/revenue/services", h.Report.RevenueByService)
				})
			}

			if h.Audit != nil {
				pr.With(gate.Require(auth.PermAuditRead)).Get("/audit-logs", h.Audit.ListLogs)
			}
		})
	})
}
