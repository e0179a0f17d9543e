package contact_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/contact"
	"github.com/crmkit/lead-management/internal/lead"
	"github.com/crmkit/lead-management/internal/tenant"
)

func TestContactService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Contact Service Suite")
}

type mockContactRepository struct {
	contacts    map[int64]*contact.Contact
	nextID      int64
	createError error
	updateError error
	lastQuery   contact.ListQuery
}

func newMockContactRepository() *mockContactRepository {
	return &mockContactRepository{contacts: make(map[int64]*contact.Contact), nextID: 1}
}

func (m *mockContactRepository) Create(c *contact.Contact) error {
	if m.createError != nil {
		return m.createError
	}
	c.ID = m.nextID
	m.nextID++
	m.contacts[c.ID] = c
	return nil
}

func (m *mockContactRepository) GetByID(scope tenant.Filter, id int64) (*contact.Contact, error) {
	c, ok := m.contacts[id]
	if !ok || c.IsDeleted || !scope.Matches(c.OrganizationID) {
		return nil, errors.New("contact not found")
	}
	return c, nil
}

func (m *mockContactRepository) List(scope tenant.Filter, query contact.ListQuery) ([]*contact.Contact, int64, error) {
	m.lastQuery = query
	var out []*contact.Contact
	for _, c := range m.contacts {
		if !c.IsDeleted && scope.Matches(c.OrganizationID) {
			out = append(out, c)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockContactRepository) Update(c *contact.Contact) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.contacts[c.ID] = c
	return nil
}

func (m *mockContactRepository) PhoneExists(orgID int64, phone string, excludeID int64) (bool, error) {
	for _, c := range m.contacts {
		if !c.IsDeleted && c.OrganizationID == orgID && c.Phone == phone && c.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockContactRepository) ExistsForLead(orgID, leadID int64) (bool, error) {
	for _, c := range m.contacts {
		if !c.IsDeleted && c.OrganizationID == orgID && c.LeadID != nil && *c.LeadID == leadID {
			return true, nil
		}
	}
	return false, nil
}

type mockReverter struct {
	reverted    []int64
	revertError error
}

func (m *mockReverter) RevertConversion(ctx context.Context, scope tenant.Filter, leadID int64) error {
	if m.revertError != nil {
		return m.revertError
	}
	m.reverted = append(m.reverted, leadID)
	return nil
}

type mockRecorder struct {
	events []audit.Event
}

func (m *mockRecorder) Record(ctx context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

var _ = Describe("ContactService", func() {
	var (
		service   *contact.Service
		repo      *mockContactRepository
		reverter  *mockReverter
		recorder  *mockRecorder
		principal *internal.Principal
		scope     tenant.Filter
	)

	orgRef := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		repo = newMockContactRepository()
		reverter = &mockReverter{}
		recorder = &mockRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = contact.NewService(repo, reverter, recorder, logger)

		principal = &internal.Principal{UserID: 10, OrganizationID: orgRef(1), Access: internal.AccessOrgAdmin}
		scope = tenant.Filter{OrganizationID: orgRef(1)}
	})

	Describe("CreateContact", func() {
		It("creates a directly-entered contact without a source lead", func() {
			dto := contact.CreateContactDTO{Name: "Jane Customer", Phone: "+628122222"}

			c, err := service.CreateContact(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(c.LeadID).To(BeNil())
			Expect(c.OrganizationID).To(Equal(int64(1)))
		})

		It("rejects a duplicate phone within the organization", func() {
			repo.contacts[5] = &contact.Contact{ID: 5, OrganizationID: 1, Phone: "+628122222"}
			dto := contact.CreateContactDTO{Name: "Jane", Phone: "+628122222"}

			_, err := service.CreateContact(context.Background(), principal, scope, dto)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicatePhone))
		})
	})

	Describe("CreateFromLead", func() {
		It("copies identity fields and links the source lead", func() {
			src := &lead.Lead{
				ID:             7,
				OrganizationID: 1,
				Name:           "Jane Prospect",
				Email:          "jane@example.com",
				Phone:          "+628122222",
				Tags:           []string{"vip"},
			}

			id, err := service.CreateFromLead(context.Background(), src, 10)

			Expect(err).ToNot(HaveOccurred())
			c := repo.contacts[id]
			Expect(c.LeadID).ToNot(BeNil())
			Expect(*c.LeadID).To(Equal(int64(7)))
			Expect(c.Name).To(Equal("Jane Prospect"))
			Expect(c.Phone).To(Equal("+628122222"))
			Expect(c.CreatedBy).To(Equal(int64(10)))
		})
	})

	Describe("DeleteContact", func() {
		It("soft-deletes and reverts the source lead", func() {
			leadID := int64(7)
			repo.contacts[1] = &contact.Contact{ID: 1, OrganizationID: 1, LeadID: &leadID, Name: "Jane"}

			err := service.DeleteContact(context.Background(), scope, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.contacts[1].IsDeleted).To(BeTrue())
			Expect(repo.contacts[1].DeletedAt).ToNot(BeNil())
			Expect(reverter.reverted).To(Equal([]int64{7}))
		})

		It("does not touch leads for directly-entered contacts", func() {
			repo.contacts[1] = &contact.Contact{ID: 1, OrganizationID: 1, Name: "Jane"}

			err := service.DeleteContact(context.Background(), scope, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(reverter.reverted).To(BeEmpty())
		})

		It("still deletes when the lead reversal fails", func() {
			leadID := int64(7)
			repo.contacts[1] = &contact.Contact{ID: 1, OrganizationID: 1, LeadID: &leadID, Name: "Jane"}
			reverter.revertError = errors.New("lead gone")

			err := service.DeleteContact(context.Background(), scope, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.contacts[1].IsDeleted).To(BeTrue())
		})

		It("hides contacts of other organizations as not found", func() {
			repo.contacts[1] = &contact.Contact{ID: 1, OrganizationID: 2, Name: "Jane"}

			err := service.DeleteContact(context.Background(), scope, 1)

			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})
	})

	Describe("SourceLeadID", func() {
		It("returns the originating lead id", func() {
			leadID := int64(7)
			repo.contacts[1] = &contact.Contact{ID: 1, OrganizationID: 1, LeadID: &leadID}

			got, err := service.SourceLeadID(scope, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(got).ToNot(BeNil())
			Expect(*got).To(Equal(int64(7)))
		})

		It("returns nil for directly-entered contacts", func() {
			repo.contacts[1] = &contact.Contact{ID: 1, OrganizationID: 1}

			got, err := service.SourceLeadID(scope, 1)

			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("ListContacts", func() {
		It("narrows to owned records for standard users", func() {
			standard := &internal.Principal{UserID: 42, OrganizationID: orgRef(1), Access: internal.AccessStandard}

			_, _, err := service.ListContacts(standard, scope, contact.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).ToNot(BeNil())
			Expect(*repo.lastQuery.OwnedBy).To(Equal(int64(42)))
		})

		It("does not narrow for org admins", func() {
			_, _, err := service.ListContacts(principal, scope, contact.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).To(BeNil())
		})
	})
})
