package role

import (
	"context"
	"log/slog"
	"testing"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/tenant"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestRoleService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "RoleService Suite")
}

type mockRoleRepository struct {
	roles       map[int64]*Role
	userCounts  map[int64]int64
	nextID      int64
	createError error
	deleteError error

	replacedPerms map[int64][]string
}

func newMockRoleRepository() *mockRoleRepository {
	return &mockRoleRepository{
		roles:         make(map[int64]*Role),
		userCounts:    make(map[int64]int64),
		replacedPerms: make(map[int64][]string),
		nextID:        1,
	}
}

func (m *mockRoleRepository) Create(r *Role, permissionNames []string) error {
	if m.createError != nil {
		return m.createError
	}
	r.ID = m.nextID
	m.nextID++
	for _, name := range permissionNames {
		r.Permissions = append(r.Permissions, Permission{Name: name})
	}
	m.roles[r.ID] = r
	return nil
}

func (m *mockRoleRepository) GetByID(scope tenant.Filter, id int64) (*Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, internal.ErrRecordNotFound
	}
	// Global roles are visible to every tenant.
	if !r.Global() && (r.OrganizationID == nil || !scope.Matches(*r.OrganizationID)) {
		return nil, internal.ErrRecordNotFound
	}
	return r, nil
}

func (m *mockRoleRepository) List(scope tenant.Filter, query ListQuery) ([]*Role, int64, error) {
	var out []*Role
	for _, r := range m.roles {
		if r.Global() || (r.OrganizationID != nil && scope.Matches(*r.OrganizationID)) {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockRoleRepository) Update(r *Role) error {
	m.roles[r.ID] = r
	return nil
}

func (m *mockRoleRepository) ReplacePermissions(roleID int64, permissionNames []string) error {
	m.replacedPerms[roleID] = permissionNames
	r := m.roles[roleID]
	r.Permissions = nil
	for _, name := range permissionNames {
		r.Permissions = append(r.Permissions, Permission{Name: name})
	}
	return nil
}

func (m *mockRoleRepository) Delete(id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.roles, id)
	return nil
}

func (m *mockRoleRepository) NameExists(orgID *int64, scope, name string, excludeID int64) (bool, error) {
	for _, r := range m.roles {
		if r.ID == excludeID || r.Name != name || r.Scope != scope {
			continue
		}
		if orgID == nil && r.OrganizationID == nil {
			return true, nil
		}
		if orgID != nil && r.OrganizationID != nil && *orgID == *r.OrganizationID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockRoleRepository) UserCount(roleID int64) (int64, error) {
	return m.userCounts[roleID], nil
}

func (m *mockRoleRepository) ListPermissions() ([]*Permission, error) {
	return []*Permission{{ID: 1, Name: "lead:read"}}, nil
}

type mockRoleRecorder struct {
	events []audit.Event
}

func (m *mockRoleRecorder) Record(ctx context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

var _ = Describe("RoleService", func() {
	var (
		repo     *mockRoleRepository
		recorder *mockRoleRecorder
		service  *Service
		ctx      context.Context
	)

	orgID := func(id int64) *int64 { return &id }

	member := func(org int64) *internal.Principal {
		return &internal.Principal{UserID: 10, OrganizationID: orgID(org), Access: internal.AccessOrgAdmin}
	}
	superAdmin := func() *internal.Principal {
		return &internal.Principal{UserID: 1, Access: internal.AccessSuperAdmin}
	}

	BeforeEach(func() {
		repo = newMockRoleRepository()
		recorder = &mockRoleRecorder{}
		service = NewService(repo, recorder, slog.Default())
		ctx = context.Background()
	})

	Describe("CreateRole", func() {
		It("should create an organization role pinned to the tenant", func() {
			scope := tenant.Filter{OrganizationID: orgID(1)}

			r, err := service.CreateRole(ctx, member(1), scope, CreateRoleDTO{
				Name:        "Sales Agent",
				Permissions: []string{"lead:read", "lead:create"},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Scope).To(Equal(ScopeOrganization))
			Expect(r.OrganizationID).NotTo(BeNil())
			Expect(*r.OrganizationID).To(Equal(int64(1)))
			Expect(r.PermissionNames()).To(ConsistOf("lead:read", "lead:create"))
			Expect(recorder.events).To(HaveLen(1))
			Expect(recorder.events[0].Action).To(Equal("CREATE"))
		})

		It("should reject a global role from a non super admin", func() {
			scope := tenant.Filter{OrganizationID: orgID(1)}

			_, err := service.CreateRole(ctx, member(1), scope, CreateRoleDTO{
				Name:  "Platform Auditor",
				Scope: ScopeGlobal,
			})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.StatusCode).To(Equal(403))
		})

		It("should let a super admin create a global role", func() {
			r, err := service.CreateRole(ctx, superAdmin(), tenant.Filter{}, CreateRoleDTO{
				Name:  "Platform Auditor",
				Scope: ScopeGlobal,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(r.Scope).To(Equal(ScopeGlobal))
			Expect(r.OrganizationID).To(BeNil())
		})

		It("should reject a duplicate name within the same organization", func() {
			scope := tenant.Filter{OrganizationID: orgID(1)}

			_, err := service.CreateRole(ctx, member(1), scope, CreateRoleDTO{Name: "Sales Agent"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateRole(ctx, member(1), scope, CreateRoleDTO{Name: "Sales Agent"})
			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeDuplicateName))
		})

		It("should allow the same name in different organizations", func() {
			_, err := service.CreateRole(ctx, member(1), tenant.Filter{OrganizationID: orgID(1)}, CreateRoleDTO{Name: "Sales Agent"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.CreateRole(ctx, member(2), tenant.Filter{OrganizationID: orgID(2)}, CreateRoleDTO{Name: "Sales Agent"})
			Expect(err).NotTo(HaveOccurred())
		})

		It("should reject an empty name", func() {
			_, err := service.CreateRole(ctx, member(1), tenant.Filter{OrganizationID: orgID(1)}, CreateRoleDTO{Name: "   "})

			Expect(err).To(HaveOccurred())
		})
	})

	Describe("UpdateRole", func() {
		var existing *Role

		BeforeEach(func() {
			var err error
			existing, err = service.CreateRole(ctx, member(1), tenant.Filter{OrganizationID: orgID(1)}, CreateRoleDTO{
				Name:        "Sales Agent",
				Permissions: []string{"lead:read"},
			})
			Expect(err).NotTo(HaveOccurred())
			recorder.events = nil
		})

		It("should rename the role and replace its permissions", func() {
			name := "Senior Agent"
			perms := []string{"lead:read", "lead:update"}

			updated, err := service.UpdateRole(ctx, tenant.Filter{OrganizationID: orgID(1)}, existing.ID, UpdateRoleDTO{
				Name:        &name,
				Permissions: &perms,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Senior Agent"))
			Expect(updated.PermissionNames()).To(ConsistOf("lead:read", "lead:update"))
			Expect(repo.replacedPerms[existing.ID]).To(Equal(perms))
		})

		It("should refuse to modify a system role", func() {
			existing.IsSystem = true
			name := "Renamed"

			_, err := service.UpdateRole(ctx, tenant.Filter{OrganizationID: orgID(1)}, existing.ID, UpdateRoleDTO{Name: &name})

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSystemRole))
		})

		It("should hide roles from other tenants", func() {
			name := "Renamed"

			_, err := service.UpdateRole(ctx, tenant.Filter{OrganizationID: orgID(2)}, existing.ID, UpdateRoleDTO{Name: &name})

			Expect(err).To(MatchError(internal.ErrRecordNotFound))
		})
	})

	Describe("DeleteRole", func() {
		var existing *Role

		BeforeEach(func() {
			var err error
			existing, err = service.CreateRole(ctx, member(1), tenant.Filter{OrganizationID: orgID(1)}, CreateRoleDTO{Name: "Sales Agent"})
			Expect(err).NotTo(HaveOccurred())
			recorder.events = nil
		})

		It("should delete an unassigned custom role", func() {
			err := service.DeleteRole(ctx, tenant.Filter{OrganizationID: orgID(1)}, existing.ID)

			Expect(err).NotTo(HaveOccurred())
			Expect(repo.roles).NotTo(HaveKey(existing.ID))
			Expect(recorder.events).To(HaveLen(1))
			Expect(recorder.events[0].Action).To(Equal("DELETE"))
		})

		It("should refuse to delete a system role", func() {
			existing.IsSystem = true

			err := service.DeleteRole(ctx, tenant.Filter{OrganizationID: orgID(1)}, existing.ID)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeSystemRole))
		})

		It("should refuse to delete a role still assigned to users", func() {
			repo.userCounts[existing.ID] = 3

			err := service.DeleteRole(ctx, tenant.Filter{OrganizationID: orgID(1)}, existing.ID)

			Expect(err).To(HaveOccurred())
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Code).To(Equal(internal.ErrCodeRoleInUse))
			Expect(repo.roles).To(HaveKey(existing.ID))
		})
	})
})
