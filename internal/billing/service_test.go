package billing_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/billing"
	"github.com/crmkit/lead-management/internal/tenant"
)

func TestBillingService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Billing Service Suite")
}

type mockBillingRepository struct {
	billings    map[int64]*billing.Billing
	nextID      int64
	createError error
	lastQuery   billing.ListQuery
}

func newMockBillingRepository() *mockBillingRepository {
	return &mockBillingRepository{billings: make(map[int64]*billing.Billing), nextID: 1}
}

func (m *mockBillingRepository) Create(b *billing.Billing) error {
	if m.createError != nil {
		return m.createError
	}
	b.ID = m.nextID
	m.nextID++
	m.billings[b.ID] = b
	return nil
}

func (m *mockBillingRepository) GetByID(scope tenant.Filter, id int64) (*billing.Billing, error) {
	b, ok := m.billings[id]
	if !ok || b.IsDeleted || !scope.Matches(b.OrganizationID) {
		return nil, errors.New("billing not found")
	}
	return b, nil
}

func (m *mockBillingRepository) List(scope tenant.Filter, query billing.ListQuery) ([]*billing.Billing, int64, error) {
	m.lastQuery = query
	var out []*billing.Billing
	for _, b := range m.billings {
		if !b.IsDeleted && scope.Matches(b.OrganizationID) {
			out = append(out, b)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockBillingRepository) Update(b *billing.Billing) error {
	m.billings[b.ID] = b
	return nil
}

func (m *mockBillingRepository) ReplaceItems(billingID int64, items []billing.BillingItem) error {
	if b, ok := m.billings[billingID]; ok {
		b.Items = items
	}
	return nil
}

type mockSequencer struct {
	seqs map[string]int64
}

func (m *mockSequencer) Next(name string) (int64, error) {
	if m.seqs == nil {
		m.seqs = make(map[string]int64)
	}
	m.seqs[name]++
	return m.seqs[name], nil
}

type mockNamer struct {
	initials map[int64]string
}

func (m *mockNamer) Initials(orgID int64) (string, error) {
	in, ok := m.initials[orgID]
	if !ok {
		return "", internal.ErrRecordNotFound
	}
	return in, nil
}

type mockRecorder struct {
	events []audit.Event
}

func (m *mockRecorder) Record(ctx context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

var _ = Describe("BillingService", func() {
	var (
		service   *billing.Service
		repo      *mockBillingRepository
		seq       *mockSequencer
		namer     *mockNamer
		recorder  *mockRecorder
		principal *internal.Principal
		scope     tenant.Filter
	)

	orgRef := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		repo = newMockBillingRepository()
		seq = &mockSequencer{}
		namer = &mockNamer{initials: map[int64]string{1: "AC"}}
		recorder = &mockRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = billing.NewService(repo, seq, namer, recorder, logger)

		principal = &internal.Principal{UserID: 10, OrganizationID: orgRef(1), Access: internal.AccessOrgAdmin}
		scope = tenant.Filter{OrganizationID: orgRef(1)}
	})

	Describe("CreateBilling", func() {
		It("recomputes every derived amount from the line items", func() {
			dto := billing.CreateBillingDTO{
				Discount: 20,
				Items: []billing.BillingItemDTO{
					{Description: "Consulting", Quantity: 2, UnitAmount: 100, TaxAmount: 10},
					{Description: "Support", Quantity: 1, UnitAmount: 50},
				},
			}

			b, err := service.CreateBilling(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(b.Subtotal).To(Equal(int64(250)))
			Expect(b.TaxTotal).To(Equal(int64(20)))
			Expect(b.GrandTotal).To(Equal(int64(250)))
			Expect(b.Items[0].LineTotal).To(Equal(int64(200)))
			Expect(b.Items[1].LineTotal).To(Equal(int64(50)))
			Expect(b.Status).To(Equal(billing.StatusDraft))
		})

		It("embeds both sequences and the organization initials in the invoice number", func() {
			issued := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
			dto := billing.CreateBillingDTO{
				IssuedAt: &issued,
				Items:    []billing.BillingItemDTO{{Description: "Consulting", Quantity: 1, UnitAmount: 100}},
			}

			b, err := service.CreateBilling(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(b.InvoiceNumber).To(Equal("INV-1-2026-AC-001"))
		})

		It("advances the per-organization sequence independently of the global one", func() {
			issued := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
			namer.initials[2] = "BX"
			saScope := tenant.Filter{OrganizationID: orgRef(2)}
			sa := &internal.Principal{UserID: 1, Access: internal.AccessSuperAdmin}
			mk := func(p *internal.Principal, sc tenant.Filter) *billing.Billing {
				b, err := service.CreateBilling(context.Background(), p, sc, billing.CreateBillingDTO{
					IssuedAt: &issued,
					Items:    []billing.BillingItemDTO{{Description: "Consulting", Quantity: 1, UnitAmount: 100}},
				})
				Expect(err).ToNot(HaveOccurred())
				return b
			}

			first := mk(principal, scope)
			second := mk(sa, saScope)
			third := mk(principal, scope)

			Expect(first.InvoiceNumber).To(Equal("INV-1-2026-AC-001"))
			Expect(second.InvoiceNumber).To(Equal("INV-2-2026-BX-001"))
			Expect(third.InvoiceNumber).To(Equal("INV-3-2026-AC-002"))
		})

		It("rejects an invoice without line items", func() {
			_, err := service.CreateBilling(context.Background(), principal, scope, billing.CreateBillingDTO{})

			Expect(err).To(HaveOccurred())
		})

		It("rejects a non-positive quantity", func() {
			dto := billing.CreateBillingDTO{
				Items: []billing.BillingItemDTO{{Description: "Consulting", Quantity: 0, UnitAmount: 100}},
			}

			_, err := service.CreateBilling(context.Background(), principal, scope, dto)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateBilling", func() {
		var existing *billing.Billing

		BeforeEach(func() {
			var err error
			existing, err = service.CreateBilling(context.Background(), principal, scope, billing.CreateBillingDTO{
				Items: []billing.BillingItemDTO{{Description: "Consulting", Quantity: 2, UnitAmount: 100}},
			})
			Expect(err).ToNot(HaveOccurred())
		})

		It("stamps PaidAt when the status moves to Paid", func() {
			status := billing.StatusPaid

			b, err := service.UpdateBilling(context.Background(), scope, existing.ID, billing.UpdateBillingDTO{Status: &status})

			Expect(err).ToNot(HaveOccurred())
			Expect(b.Status).To(Equal(billing.StatusPaid))
			Expect(b.PaidAt).ToNot(BeNil())
		})

		It("recomputes totals when line items are replaced", func() {
			items := []billing.BillingItemDTO{
				{Description: "Consulting", Quantity: 3, UnitAmount: 100, TaxAmount: 30},
			}

			b, err := service.UpdateBilling(context.Background(), scope, existing.ID, billing.UpdateBillingDTO{Items: &items})

			Expect(err).ToNot(HaveOccurred())
			Expect(b.Subtotal).To(Equal(int64(300)))
			Expect(b.TaxTotal).To(Equal(int64(90)))
			Expect(b.GrandTotal).To(Equal(int64(390)))
			Expect(b.Items[0].LineTotal).To(Equal(int64(300)))
		})

		It("keeps the invoice number stable across updates", func() {
			notes := "net 30"

			b, err := service.UpdateBilling(context.Background(), scope, existing.ID, billing.UpdateBillingDTO{Notes: &notes})

			Expect(err).ToNot(HaveOccurred())
			Expect(b.InvoiceNumber).To(Equal(existing.InvoiceNumber))
		})
	})

	Describe("FormatInvoiceNumber", func() {
		It("zero-pads the organization sequence to three digits", func() {
			Expect(billing.FormatInvoiceNumber(42, 2026, "AC", 7)).To(Equal("INV-42-2026-AC-007"))
			Expect(billing.FormatInvoiceNumber(42, 2026, "AC", 1234)).To(Equal("INV-42-2026-AC-1234"))
		})
	})

	Describe("ListBillings", func() {
		It("narrows to owned records for standard users", func() {
			standard := &internal.Principal{UserID: 42, OrganizationID: orgRef(1), Access: internal.AccessStandard}

			_, _, err := service.ListBillings(standard, scope, billing.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).ToNot(BeNil())
			Expect(*repo.lastQuery.OwnedBy).To(Equal(int64(42)))
		})

		It("does not narrow for org admins", func() {
			_, _, err := service.ListBillings(principal, scope, billing.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).To(BeNil())
		})
	})
})
