package expense_test

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
	"github.com/crmkit/lead-management/internal/expense"
	"github.com/crmkit/lead-management/internal/tenant"
)

func TestExpenseService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Service Suite")
}

type mockExpenseRepository struct {
	expenses  map[int64]*expense.Expense
	nextID    int64
	lastQuery expense.ListQuery
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{expenses: make(map[int64]*expense.Expense), nextID: 1}
}

func (m *mockExpenseRepository) Create(e *expense.Expense) error {
	e.ID = m.nextID
	m.nextID++
	m.expenses[e.ID] = e
	return nil
}

func (m *mockExpenseRepository) GetByID(scope tenant.Filter, id int64) (*expense.Expense, error) {
	e, ok := m.expenses[id]
	if !ok || e.IsDeleted || !scope.Matches(e.OrganizationID) {
		return nil, errors.New("expense not found")
	}
	return e, nil
}

func (m *mockExpenseRepository) List(scope tenant.Filter, query expense.ListQuery) ([]*expense.Expense, int64, error) {
	m.lastQuery = query
	var out []*expense.Expense
	for _, e := range m.expenses {
		if !e.IsDeleted && scope.Matches(e.OrganizationID) {
			out = append(out, e)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockExpenseRepository) Update(e *expense.Expense) error {
	m.expenses[e.ID] = e
	return nil
}

type mockRecorder struct {
	events []audit.Event
}

func (m *mockRecorder) Record(ctx context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

var _ = Describe("ExpenseService", func() {
	var (
		service   *expense.Service
		repo      *mockExpenseRepository
		recorder  *mockRecorder
		principal *internal.Principal
		scope     tenant.Filter
	)

	orgRef := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		repo = newMockExpenseRepository()
		recorder = &mockRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(repo, recorder, logger)

		principal = &internal.Principal{UserID: 10, OrganizationID: orgRef(1), Access: internal.AccessOrgAdmin}
		scope = tenant.Filter{OrganizationID: orgRef(1)}
	})

	Describe("CreateExpense", func() {
		It("stamps the organization and creator", func() {
			dto := expense.CreateExpenseDTO{
				Amount:      150000,
				Description: "Office rent",
				Category:    "rent",
				ExpenseDate: time.Now().AddDate(0, 0, -1),
			}

			e, err := service.CreateExpense(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(e.OrganizationID).To(Equal(int64(1)))
			Expect(e.CreatedBy).To(Equal(int64(10)))
			Expect(recorder.events).To(HaveLen(1))
		})

		It("rejects a non-positive amount", func() {
			dto := expense.CreateExpenseDTO{
				Amount:      0,
				Description: "Office rent",
				ExpenseDate: time.Now(),
			}

			_, err := service.CreateExpense(context.Background(), principal, scope, dto)

			Expect(err).To(HaveOccurred())
		})

		It("rejects a future expense date", func() {
			dto := expense.CreateExpenseDTO{
				Amount:      100,
				Description: "Office rent",
				ExpenseDate: time.Now().AddDate(0, 0, 2),
			}

			_, err := service.CreateExpense(context.Background(), principal, scope, dto)

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("ListExpenses", func() {
		It("narrows to owned records for standard users", func() {
			standard := &internal.Principal{UserID: 42, OrganizationID: orgRef(1), Access: internal.AccessStandard}

			_, _, err := service.ListExpenses(standard, scope, expense.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).ToNot(BeNil())
			Expect(*repo.lastQuery.OwnedBy).To(Equal(int64(42)))
		})

		It("does not narrow for org admins", func() {
			_, _, err := service.ListExpenses(principal, scope, expense.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).To(BeNil())
		})
	})

	Describe("DeleteExpense", func() {
		It("soft-deletes and hides the record from later reads", func() {
			e, err := service.CreateExpense(context.Background(), principal, scope, expense.CreateExpenseDTO{
				Amount:      100,
				Description: "Stationery",
				ExpenseDate: time.Now().AddDate(0, 0, -1),
			})
			Expect(err).ToNot(HaveOccurred())

			err = service.DeleteExpense(context.Background(), scope, e.ID)
			Expect(err).ToNot(HaveOccurred())

			_, err = service.GetExpense(scope, e.ID)
			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})

		It("hides expenses from other tenants", func() {
			e, err := service.CreateExpense(context.Background(), principal, scope, expense.CreateExpenseDTO{
				Amount:      100,
				Description: "Stationery",
				ExpenseDate: time.Now().AddDate(0, 0, -1),
			})
			Expect(err).ToNot(HaveOccurred())

			err = service.DeleteExpense(context.Background(), tenant.Filter{OrganizationID: orgRef(2)}, e.ID)
			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})
	})
})
