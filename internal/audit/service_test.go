package audit

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/tenant"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAuditService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "AuditService Suite")
}

type mockAuditRepository struct {
	logs        []*Log
	createError error
	listError   error
	lastQuery   ListQuery
}

func (m *mockAuditRepository) Create(log *Log) error {
	if m.createError != nil {
		return m.createError
	}
	log.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockAuditRepository) List(scope tenant.Filter, query ListQuery) ([]*Log, int64, error) {
	if m.listError != nil {
		return nil, 0, m.listError
	}
	m.lastQuery = query
	var out []*Log
	for _, l := range m.logs {
		if scope.OrganizationID != nil {
			if l.OrganizationID == nil || *l.OrganizationID != *scope.OrganizationID {
				continue
			}
		}
		if query.EntityType != "" && l.EntityType != query.EntityType {
			continue
		}
		if query.Action != "" && l.Action != query.Action {
			continue
		}
		out = append(out, l)
	}
	return out, int64(len(out)), nil
}

var _ = Describe("AuditService", func() {
	var (
		repo    *mockAuditRepository
		service *Service
		ctx     context.Context
	)

	orgID := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		repo = &mockAuditRepository{}
		service = NewService(repo, slog.Default())

		principal := &internal.Principal{
			UserID:         10,
			Email:          "agent@example.com",
			OrganizationID: orgID(1),
			Access:         internal.AccessStandard,
		}
		ctx = internal.ContextWithPrincipal(context.Background(), principal)
		ctx = tenant.ContextWithFilter(ctx, tenant.Filter{OrganizationID: orgID(1)})
	})

	Describe("Record", func() {
		It("should append an entry stamped with the caller's identity", func() {
			service.Record(ctx, Event{
				Action:     "CREATE",
				EntityType: "lead",
				EntityID:   7,
				Detail:     "created lead",
			})

			Expect(repo.logs).To(HaveLen(1))
			entry := repo.logs[0]
			Expect(entry.Action).To(Equal("CREATE"))
			Expect(entry.EntityType).To(Equal("lead"))
			Expect(entry.EntityID).To(Equal(int64(7)))
			Expect(entry.UserID).NotTo(BeNil())
			Expect(*entry.UserID).To(Equal(int64(10)))
			Expect(entry.UserEmail).To(Equal("agent@example.com"))
			Expect(entry.OrganizationID).NotTo(BeNil())
			Expect(*entry.OrganizationID).To(Equal(int64(1)))
		})

		It("should capture request origin from the context", func() {
			originCtx := ContextWithOrigin(ctx, Origin{
				IPAddress: "203.0.113.9",
				UserAgent: "crm-cli/1.0",
			})

			service.Record(originCtx, Event{Action: "UPDATE", EntityType: "contact", EntityID: 3})

			Expect(repo.logs).To(HaveLen(1))
			Expect(repo.logs[0].IPAddress).To(Equal("203.0.113.9"))
			Expect(repo.logs[0].UserAgent).To(Equal("crm-cli/1.0"))
		})

		It("should serialize metadata as JSON", func() {
			service.Record(ctx, Event{
				Action:     "CONVERT",
				EntityType: "lead",
				EntityID:   7,
				Metadata:   map[string]interface{}{"contact_id": 42},
			})

			Expect(repo.logs).To(HaveLen(1))
			Expect(repo.logs[0].Metadata).To(MatchJSON(`{"contact_id": 42}`))
		})

		It("should skip unauthenticated contexts silently", func() {
			service.Record(context.Background(), Event{Action: "CREATE", EntityType: "lead", EntityID: 7})

			Expect(repo.logs).To(BeEmpty())
		})

		It("should swallow repository failures", func() {
			repo.createError = errors.New("connection reset")

			Expect(func() {
				service.Record(ctx, Event{Action: "CREATE", EntityType: "lead", EntityID: 7})
			}).NotTo(Panic())
			Expect(repo.logs).To(BeEmpty())
		})
	})

	Describe("ListLogs", func() {
		BeforeEach(func() {
			repo.logs = []*Log{
				{ID: 1, OrganizationID: orgID(1), Action: "CREATE", EntityType: "lead", EntityID: 7},
				{ID: 2, OrganizationID: orgID(1), Action: "UPDATE", EntityType: "contact", EntityID: 3},
				{ID: 3, OrganizationID: orgID(2), Action: "CREATE", EntityType: "lead", EntityID: 9},
			}
		})

		It("should return only the caller's organization", func() {
			logs, total, err := service.ListLogs(tenant.Filter{OrganizationID: orgID(1)}, ListQuery{})

			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(Equal(int64(2)))
			Expect(logs).To(HaveLen(2))
		})

		It("should filter by entity type and action", func() {
			logs, _, err := service.ListLogs(tenant.Filter{OrganizationID: orgID(1)}, ListQuery{
				EntityType: "lead",
				Action:     "CREATE",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(logs).To(HaveLen(1))
			Expect(logs[0].ID).To(Equal(int64(1)))
		})

		It("should clamp pagination defaults", func() {
			_, _, err := service.ListLogs(tenant.Filter{OrganizationID: orgID(1)}, ListQuery{Page: 0, PerPage: 500})

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.lastQuery.Page).To(Equal(1))
			Expect(repo.lastQuery.PerPage).To(Equal(20))
		})

		It("should wrap repository failures", func() {
			repo.listError = errors.New("connection reset")

			_, _, err := service.ListLogs(tenant.Filter{OrganizationID: orgID(1)}, ListQuery{})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})
})
