package organization

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestOrganizationService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OrganizationService Suite")
}

type mockOrganizationRepository struct {
	orgs       map[int64]*Organization
	nextID     int64
	purged     []int64
	purgeError error
}

func newMockOrganizationRepository() *mockOrganizationRepository {
	return &mockOrganizationRepository{orgs: make(map[int64]*Organization), nextID: 1}
}

func (m *mockOrganizationRepository) Create(o *Organization) error {
	o.ID = m.nextID
	m.nextID++
	m.orgs[o.ID] = o
	return nil
}

func (m *mockOrganizationRepository) GetByID(id int64) (*Organization, error) {
	o, ok := m.orgs[id]
	if !ok {
		return nil, internal.ErrRecordNotFound
	}
	return o, nil
}

func (m *mockOrganizationRepository) List(query ListQuery) ([]*Organization, int64, error) {
	var out []*Organization
	for _, o := range m.orgs {
		out = append(out, o)
	}
	return out, int64(len(out)), nil
}

func (m *mockOrganizationRepository) Update(o *Organization) error {
	m.orgs[o.ID] = o
	return nil
}

func (m *mockOrganizationRepository) NameExists(name string, excludeID int64) (bool, error) {
	for _, o := range m.orgs {
		if o.ID != excludeID && o.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockOrganizationRepository) Purge(id int64) error {
	if m.purgeError != nil {
		return m.purgeError
	}
	m.purged = append(m.purged, id)
	delete(m.orgs, id)
	return nil
}

type mockOrgRecorder struct {
	events []audit.Event
}

func (m *mockOrgRecorder) Record(ctx context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

var _ = Describe("OrganizationService", func() {
	var (
		repo     *mockOrganizationRepository
		recorder *mockOrgRecorder
		service  *Service
		ctx      context.Context
	)

	BeforeEach(func() {
		repo = newMockOrganizationRepository()
		recorder = &mockOrgRecorder{}
		service = NewService(repo, recorder, slog.Default())
		ctx = context.Background()
	})

	Describe("CreateOrganization", func() {
		It("should create with derived initials when none are given", func() {
			o, err := service.CreateOrganization(ctx, CreateOrganizationDTO{
				Name:  "Acme Consulting Group",
				Email: "hello@acme.test",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(o.Initials).To(Equal("ACG"))
			Expect(o.IsActive).To(BeTrue())
			Expect(recorder.events).To(HaveLen(1))
		})

		It("should keep explicit initials", func() {
			o, err := service.CreateOrganization(ctx, CreateOrganizationDTO{
				Name:     "Acme Consulting Group",
				Initials: "AC",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(o.Initials).To(Equal("AC"))
		})

		It("should reject a duplicate name", func() {
			_, err := service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Acme"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateName))
		})
	})

	Describe("Initials", func() {
		It("should prefer the stored initials", func() {
			o, err := service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Acme", Initials: "AX"})
			Expect(err).NotTo(HaveOccurred())

			initials, err := service.Initials(o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(initials).To(Equal("AX"))
		})

		It("should derive from the name when initials are empty", func() {
			o, err := service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Blue Sky"})
			Expect(err).NotTo(HaveOccurred())
			o.Initials = ""

			initials, err := service.Initials(o.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(initials).To(Equal("BS"))
		})

		It("should report unknown organizations as not found", func() {
			_, err := service.Initials(999)
			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})
	})

	Describe("UpdateOrganization", func() {
		var existing *Organization

		BeforeEach(func() {
			var err error
			existing, err = service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())
			recorder.events = nil
		})

		It("should apply partial updates", func() {
			name := "Acme Ltd"
			inactive := false

			updated, err := service.UpdateOrganization(ctx, existing.ID, UpdateOrganizationDTO{
				Name:     &name,
				IsActive: &inactive,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Acme Ltd"))
			Expect(updated.IsActive).To(BeFalse())
		})

		It("should reject renaming onto an existing organization", func() {
			_, err := service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Globex"})
			Expect(err).NotTo(HaveOccurred())

			name := "Globex"
			_, err = service.UpdateOrganization(ctx, existing.ID, UpdateOrganizationDTO{Name: &name})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateName))
		})
	})

	Describe("DeleteOrganization", func() {
		It("should purge the organization and audit the cascade", func() {
			o, err := service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())
			recorder.events = nil

			err = service.DeleteOrganization(ctx, o.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.purged).To(Equal([]int64{o.ID}))
			Expect(recorder.events).To(HaveLen(1))
			Expect(recorder.events[0].Action).To(Equal("DELETE"))
		})

		It("should report unknown organizations as not found", func() {
			err := service.DeleteOrganization(ctx, 999)
			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})

		It("should wrap purge failures", func() {
			o, err := service.CreateOrganization(ctx, CreateOrganizationDTO{Name: "Acme"})
			Expect(err).NotTo(HaveOccurred())
			repo.purgeError = errors.New("deadlock detected")

			err = service.DeleteOrganization(ctx, o.ID)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(500))
		})
	})
})
