package auth_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/auth"
)

func TestPermissionGate(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "PermissionGate Suite")
}

var _ = Describe("PermissionGate", func() {
	var gate *auth.PermissionGate

	BeforeEach(func() {
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		gate = auth.NewPermissionGate(logger)
	})

	Describe("Allow", func() {
		It("passes when the role carries the permission", func() {
			p := &internal.Principal{UserID: 1, Permissions: []string{auth.PermLeadRead}}

			Expect(gate.Allow(p, auth.PermLeadRead)).To(Succeed())
		})

		It("rejects when the permission is missing", func() {
			p := &internal.Principal{UserID: 1, Permissions: []string{auth.PermLeadRead}}

			err := gate.Allow(p, auth.PermLeadDelete)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(http.StatusForbidden))
		})

		It("bypasses the permission set for super admins", func() {
			p := &internal.Principal{UserID: 1, Access: internal.AccessSuperAdmin}

			Expect(gate.Allow(p, auth.PermOrgDelete)).To(Succeed())
		})

		It("rejects a nil principal", func() {
			Expect(gate.Allow(nil, auth.PermLeadRead)).To(HaveOccurred())
		})
	})

	Describe("Require middleware", func() {
		var next http.Handler

		BeforeEach(func() {
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})
		})

		request := func(p *internal.Principal) *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/leads", nil)
			if p != nil {
				req = req.WithContext(internal.ContextWithPrincipal(req.Context(), p))
			}
			return req
		}

		It("returns a 401 error envelope when no principal is resolved", func() {
			rec := httptest.NewRecorder()

			gate.Require(auth.PermLeadRead)(next).ServeHTTP(rec, request(nil))

			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
			Expect(rec.Header().Get("Content-Type")).To(Equal("application/json"))
			Expect(rec.Body.String()).To(MatchJSON(`{"success": false, "message": "unauthorized"}`))
		})

		It("returns a 403 error envelope when the permission is missing", func() {
			rec := httptest.NewRecorder()
			p := &internal.Principal{UserID: 2, Permissions: []string{auth.PermContactRead}}

			gate.Require(auth.PermLeadRead)(next).ServeHTTP(rec, request(p))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(rec.Body.String()).To(ContainSubstring(`"success":false`))
			Expect(rec.Body.String()).To(ContainSubstring(auth.PermLeadRead))
		})

		It("calls through when the permission is granted", func() {
			rec := httptest.NewRecorder()
			p := &internal.Principal{UserID: 2, Permissions: []string{auth.PermLeadRead}}

			gate.Require(auth.PermLeadRead)(next).ServeHTTP(rec, request(p))

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("lets a super admin through any gate", func() {
			rec := httptest.NewRecorder()
			p := &internal.Principal{UserID: 2, Access: internal.AccessSuperAdmin}

			gate.Require(auth.PermRoleDelete)(next).ServeHTTP(rec, request(p))

			Expect(rec.Code).To(Equal(http.StatusOK))
		})

		It("blocks non-super-admins on super admin routes", func() {
			rec := httptest.NewRecorder()
			p := &internal.Principal{UserID: 2, Access: internal.AccessOrgOwner}

			gate.RequireSuperAdmin()(next).ServeHTTP(rec, request(p))

			Expect(rec.Code).To(Equal(http.StatusForbidden))
			Expect(rec.Body.String()).To(MatchJSON(`{"success": false, "message": "super admin required"}`))
		})
	})
})
