package tenant_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/tenant"
)

func TestTenant(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Tenant Suite")
}

func orgID(id int64) *int64 { return &id }

var _ = Describe("Resolve", func() {
	Context("with a regular organization member", func() {
		It("pins the filter to the member's own organization", func() {
			p := &internal.Principal{UserID: 1, OrganizationID: orgID(7), Access: internal.AccessStandard}

			f, err := tenant.Resolve(p, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(f.OrganizationID).ToNot(BeNil())
			Expect(*f.OrganizationID).To(Equal(int64(7)))
		})

		It("ignores an explicit organization from the request", func() {
			p := &internal.Principal{UserID: 1, OrganizationID: orgID(7), Access: internal.AccessOrgOwner}

			f, err := tenant.Resolve(p, orgID(99))

			Expect(err).ToNot(HaveOccurred())
			Expect(*f.OrganizationID).To(Equal(int64(7)))
		})

		It("rejects a member without an organization", func() {
			p := &internal.Principal{UserID: 1, Access: internal.AccessStandard}

			_, err := tenant.Resolve(p, nil)

			Expect(err).To(MatchError(internal.ErrMissingOrganization))
		})
	})

	Context("with a super admin", func() {
		It("grants an unrestricted filter when no organization is specified", func() {
			p := &internal.Principal{UserID: 1, Access: internal.AccessSuperAdmin}

			f, err := tenant.Resolve(p, nil)

			Expect(err).ToNot(HaveOccurred())
			Expect(f.Restricted()).To(BeFalse())
		})

		It("narrows to the explicitly requested organization", func() {
			p := &internal.Principal{UserID: 1, Access: internal.AccessSuperAdmin}

			f, err := tenant.Resolve(p, orgID(3))

			Expect(err).ToNot(HaveOccurred())
			Expect(*f.OrganizationID).To(Equal(int64(3)))
		})
	})

	It("rejects a nil principal", func() {
		_, err := tenant.Resolve(nil, nil)

		Expect(err).To(MatchError(internal.ErrMissingOrganization))
	})
})

var _ = Describe("Filter", func() {
	Describe("Matches", func() {
		It("accepts any organization when unrestricted", func() {
			f := tenant.Filter{}

			Expect(f.Matches(1)).To(BeTrue())
			Expect(f.Matches(42)).To(BeTrue())
		})

		It("accepts only the scoped organization when restricted", func() {
			f := tenant.Filter{OrganizationID: orgID(5)}

			Expect(f.Matches(5)).To(BeTrue())
			Expect(f.Matches(6)).To(BeFalse())
		})
	})

	Describe("ResolveWriteOrg", func() {
		It("overwrites the payload organization for regular members", func() {
			p := &internal.Principal{OrganizationID: orgID(7), Access: internal.AccessOrgAdmin}
			f := tenant.Filter{OrganizationID: orgID(7)}

			got := f.ResolveWriteOrg(orgID(99), p)

			Expect(got).ToNot(BeNil())
			Expect(*got).To(Equal(int64(7)))
		})

		It("keeps the payload organization for super admins", func() {
			p := &internal.Principal{Access: internal.AccessSuperAdmin}
			f := tenant.Filter{}

			got := f.ResolveWriteOrg(orgID(99), p)

			Expect(got).ToNot(BeNil())
			Expect(*got).To(Equal(int64(99)))
		})

		It("falls back to the filter organization when a super admin omits it", func() {
			p := &internal.Principal{Access: internal.AccessSuperAdmin}
			f := tenant.Filter{OrganizationID: orgID(3)}

			got := f.ResolveWriteOrg(nil, p)

			Expect(got).ToNot(BeNil())
			Expect(*got).To(Equal(int64(3)))
		})

		It("returns nil for a super admin with no organization context at all", func() {
			p := &internal.Principal{Access: internal.AccessSuperAdmin}
			f := tenant.Filter{}

			Expect(f.ResolveWriteOrg(nil, p)).To(BeNil())
		})
	})

	Describe("context round trip", func() {
		It("returns the filter attached by the middleware", func() {
			f := tenant.Filter{OrganizationID: orgID(11)}
			ctx := tenant.ContextWithFilter(context.Background(), f)

			got, ok := tenant.FilterFromContext(ctx)

			Expect(ok).To(BeTrue())
			Expect(*got.OrganizationID).To(Equal(int64(11)))
		})

		It("reports absence on a bare context", func() {
			_, ok := tenant.FilterFromContext(context.Background())

			Expect(ok).To(BeFalse())
		})
	})
})

var _ = Describe("ScopeMiddleware", func() {
	var (
		mw   func(http.Handler) http.Handler
		next http.Handler
	)

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mw = tenant.ScopeMiddleware(logger)
		next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
	})

	It("attaches the resolved filter for a member", func() {
		p := &internal.Principal{UserID: 1, OrganizationID: orgID(7), Access: internal.AccessStandard}
		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
		rec := httptest.NewRecorder()

		var got tenant.Filter
		inspect := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, _ = tenant.FilterFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
		mw(inspect).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(*got.OrganizationID).To(Equal(int64(7)))
	})

	It("returns a 401 error envelope without a principal", func() {
		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		Expect(rec.Body.String()).To(MatchJSON(`{"success": false, "message": "unauthorized"}`))
	})

	It("returns a 403 error envelope when no organization resolves", func() {
		p := &internal.Principal{UserID: 1, Access: internal.AccessStandard}
		req := httptest.NewRequest(http.MethodGet, "/leads", nil)
		req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)

		Expect(rec.Code).To(Equal(http.StatusForbidden))
		Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
		Expect(rec.Body.String()).To(MatchJSON(`{"success": false, "message": "no organization resolved for this request"}`))
	})
})
