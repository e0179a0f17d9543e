package activity_test

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
	"github.com/crmkit/lead-management/internal/activity"
	"github.com/crmkit/lead-management/internal/audit"
	"github.com/crmkit/lead-management/internal/followup"
	"github.com/crmkit/lead-management/internal/tenant"
)

func TestActivityService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Activity Service Suite")
}

type mockActivityRepository struct {
	activities  map[int64]*activity.Activity
	nextID      int64
	createError error
	lastQuery   activity.ListQuery
}

func newMockActivityRepository() *mockActivityRepository {
	return &mockActivityRepository{activities: make(map[int64]*activity.Activity), nextID: 1}
}

func (m *mockActivityRepository) Create(a *activity.Activity) error {
	if m.createError != nil {
		return m.createError
	}
	a.ID = m.nextID
	m.nextID++
	m.activities[a.ID] = a
	return nil
}

func (m *mockActivityRepository) GetByID(scope tenant.Filter, id int64) (*activity.Activity, error) {
	a, ok := m.activities[id]
	if !ok || a.IsDeleted || !scope.Matches(a.OrganizationID) {
		return nil, errors.New("activity not found")
	}
	return a, nil
}

func (m *mockActivityRepository) List(scope tenant.Filter, query activity.ListQuery) ([]*activity.Activity, int64, error) {
	m.lastQuery = query
	var out []*activity.Activity
	for _, a := range m.activities {
		if !a.IsDeleted && scope.Matches(a.OrganizationID) {
			out = append(out, a)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockActivityRepository) Update(a *activity.Activity) error {
	m.activities[a.ID] = a
	return nil
}

type pendingCall struct {
	leadID    int64
	createdBy int64
	notes     string
}

type mockFollowUpCreator struct {
	calls       []pendingCall
	createError error
}

func (m *mockFollowUpCreator) CreatePending(ctx context.Context, scope tenant.Filter, orgID, leadID, createdBy int64, scheduledAt time.Time, notes string) (*followup.FollowUp, error) {
	if m.createError != nil {
		return nil, m.createError
	}
	m.calls = append(m.calls, pendingCall{leadID: leadID, createdBy: createdBy, notes: notes})
	return &followup.FollowUp{ID: 1, OrganizationID: orgID, LeadID: leadID, ScheduledAt: scheduledAt}, nil
}

type mockLeadResolver struct {
	sourceLeads  map[int64]*int64
	resolveError error
}

func (m *mockLeadResolver) SourceLeadID(scope tenant.Filter, contactID int64) (*int64, error) {
	if m.resolveError != nil {
		return nil, m.resolveError
	}
	id, ok := m.sourceLeads[contactID]
	if !ok {
		return nil, internal.ErrRecordNotFound
	}
	return id, nil
}

type mockRecorder struct {
	events []audit.Event
}

func (m *mockRecorder) Record(ctx context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

var _ = Describe("ActivityService", func() {
	var (
		service   *activity.Service
		repo      *mockActivityRepository
		creator   *mockFollowUpCreator
		resolver  *mockLeadResolver
		recorder  *mockRecorder
		principal *internal.Principal
		scope     tenant.Filter
	)

	orgRef := func(id int64) *int64 { return &id }
	ref := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		repo = newMockActivityRepository()
		creator = &mockFollowUpCreator{}
		resolver = &mockLeadResolver{sourceLeads: make(map[int64]*int64)}
		recorder = &mockRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = activity.NewService(repo, creator, resolver, recorder, logger)

		principal = &internal.Principal{UserID: 10, OrganizationID: orgRef(1), Access: internal.AccessOrgAdmin}
		scope = tenant.Filter{OrganizationID: orgRef(1)}
	})

	Describe("CreateActivity", func() {
		It("logs a plain activity against a lead", func() {
			dto := activity.CreateActivityDTO{
				LeadID:     ref(7),
				Type:       activity.TypeCall,
				Subject:    "Intro call",
				ActivityAt: time.Now(),
			}

			a, err := service.CreateActivity(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(a.OrganizationID).To(Equal(int64(1)))
			Expect(creator.calls).To(BeEmpty())
		})

		It("rejects an activity referencing neither lead nor contact", func() {
			dto := activity.CreateActivityDTO{
				Type:       activity.TypeNote,
				Subject:    "Orphan note",
				ActivityAt: time.Now(),
			}

			_, err := service.CreateActivity(context.Background(), principal, scope, dto)

			Expect(err).To(HaveOccurred())
		})

		Context("when a follow-up is requested", func() {
			It("auto-creates a pending follow-up on the lead", func() {
				at := time.Now().Add(48 * time.Hour)
				dto := activity.CreateActivityDTO{
					LeadID:           ref(7),
					Type:             activity.TypeMeeting,
					Subject:          "Demo call",
					ActivityAt:       time.Now(),
					FollowUpRequired: true,
					FollowUpAt:       &at,
				}

				_, err := service.CreateActivity(context.Background(), principal, scope, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(creator.calls).To(HaveLen(1))
				Expect(creator.calls[0].leadID).To(Equal(int64(7)))
				Expect(creator.calls[0].notes).To(Equal(`Auto-created from activity "Demo call"`))
			})

			It("resolves the lead through the contact's origin", func() {
				resolver.sourceLeads[3] = ref(7)
				at := time.Now().Add(48 * time.Hour)
				dto := activity.CreateActivityDTO{
					ContactID:        ref(3),
					Type:             activity.TypeCall,
					Subject:          "Check-in",
					ActivityAt:       time.Now(),
					FollowUpRequired: true,
					FollowUpAt:       &at,
				}

				_, err := service.CreateActivity(context.Background(), principal, scope, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(creator.calls).To(HaveLen(1))
				Expect(creator.calls[0].leadID).To(Equal(int64(7)))
			})

			It("skips the follow-up for directly-entered contacts", func() {
				resolver.sourceLeads[3] = nil
				at := time.Now().Add(48 * time.Hour)
				dto := activity.CreateActivityDTO{
					ContactID:        ref(3),
					Type:             activity.TypeCall,
					Subject:          "Check-in",
					ActivityAt:       time.Now(),
					FollowUpRequired: true,
					FollowUpAt:       &at,
				}

				_, err := service.CreateActivity(context.Background(), principal, scope, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(creator.calls).To(BeEmpty())
			})

			It("still creates the activity when the follow-up write fails", func() {
				creator.createError = errors.New("follow-up insert failed")
				at := time.Now().Add(48 * time.Hour)
				dto := activity.CreateActivityDTO{
					LeadID:           ref(7),
					Type:             activity.TypeCall,
					Subject:          "Demo call",
					ActivityAt:       time.Now(),
					FollowUpRequired: true,
					FollowUpAt:       &at,
				}

				a, err := service.CreateActivity(context.Background(), principal, scope, dto)

				Expect(err).ToNot(HaveOccurred())
				Expect(repo.activities).To(HaveKey(a.ID))
			})

			It("rejects a follow-up request without a date", func() {
				dto := activity.CreateActivityDTO{
					LeadID:           ref(7),
					Type:             activity.TypeCall,
					Subject:          "Demo call",
					ActivityAt:       time.Now(),
					FollowUpRequired: true,
				}

				_, err := service.CreateActivity(context.Background(), principal, scope, dto)

				Expect(err).To(HaveOccurred())
			})
		})
	})

	Describe("ListActivities", func() {
		It("narrows to owned records for standard users", func() {
			standard := &internal.Principal{UserID: 42, OrganizationID: orgRef(1), Access: internal.AccessStandard}

			_, _, err := service.ListActivities(standard, scope, activity.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).ToNot(BeNil())
			Expect(*repo.lastQuery.OwnedBy).To(Equal(int64(42)))
		})

		It("does not narrow for org admins", func() {
			_, _, err := service.ListActivities(principal, scope, activity.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).To(BeNil())
		})
	})
})
