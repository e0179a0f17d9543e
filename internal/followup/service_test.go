package followup_test

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
	"github.com/crmkit/lead-management/internal/followup"
	"github.com/crmkit/lead-management/internal/tenant"
)

func TestFollowUpService(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "FollowUp Service Suite")
}

type mockFollowUpRepository struct {
	followUps   map[int64]*followup.FollowUp
	nextID      int64
	createError error
	lastQuery   followup.ListQuery
}

func newMockFollowUpRepository() *mockFollowUpRepository {
	return &mockFollowUpRepository{followUps: make(map[int64]*followup.FollowUp), nextID: 1}
}

func (m *mockFollowUpRepository) Create(f *followup.FollowUp) error {
	if m.createError != nil {
		return m.createError
	}
	f.ID = m.nextID
	m.nextID++
	m.followUps[f.ID] = f
	return nil
}

func (m *mockFollowUpRepository) GetByID(scope tenant.Filter, id int64) (*followup.FollowUp, error) {
	f, ok := m.followUps[id]
	if !ok || f.IsDeleted || !scope.Matches(f.OrganizationID) {
		return nil, errors.New("follow-up not found")
	}
	return f, nil
}

func (m *mockFollowUpRepository) List(scope tenant.Filter, query followup.ListQuery) ([]*followup.FollowUp, int64, error) {
	m.lastQuery = query
	var out []*followup.FollowUp
	for _, f := range m.followUps {
		if !f.IsDeleted && scope.Matches(f.OrganizationID) {
			out = append(out, f)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockFollowUpRepository) Update(f *followup.FollowUp) error {
	m.followUps[f.ID] = f
	return nil
}

type syncCall struct {
	leadID int64
	status string
	reason string
}

type mockLeadSyncer struct {
	knownLeads    map[int64]bool
	syncCalls     []syncCall
	registered    []int64
	syncError     error
	registerError error
}

func newMockLeadSyncer() *mockLeadSyncer {
	return &mockLeadSyncer{knownLeads: make(map[int64]bool)}
}

func (m *mockLeadSyncer) SyncStatus(ctx context.Context, scope tenant.Filter, leadID int64, status, reason string) error {
	if m.syncError != nil {
		return m.syncError
	}
	m.syncCalls = append(m.syncCalls, syncCall{leadID: leadID, status: status, reason: reason})
	return nil
}

func (m *mockLeadSyncer) LeadExists(scope tenant.Filter, leadID int64) error {
	if !m.knownLeads[leadID] {
		return internal.ErrRecordNotFound
	}
	return nil
}

func (m *mockLeadSyncer) RegisterFollowUp(scope tenant.Filter, leadID int64, scheduledAt time.Time) error {
	if m.registerError != nil {
		return m.registerError
	}
	m.registered = append(m.registered, leadID)
	return nil
}

type mockRecorder struct {
	events []audit.Event
}

func (m *mockRecorder) Record(ctx context.Context, event audit.Event) {
	m.events = append(m.events, event)
}

var _ = Describe("FollowUpService", func() {
	var (
		service   *followup.Service
		repo      *mockFollowUpRepository
		syncer    *mockLeadSyncer
		recorder  *mockRecorder
		principal *internal.Principal
		scope     tenant.Filter
	)

	orgRef := func(id int64) *int64 { return &id }

	BeforeEach(func() {
		repo = newMockFollowUpRepository()
		syncer = newMockLeadSyncer()
		syncer.knownLeads[7] = true
		recorder = &mockRecorder{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = followup.NewService(repo, syncer, recorder, logger)

		principal = &internal.Principal{UserID: 10, OrganizationID: orgRef(1), Access: internal.AccessOrgAdmin}
		scope = tenant.Filter{OrganizationID: orgRef(1)}
	})

	Describe("CreateFollowUp", func() {
		It("registers on the lead and mirrors Pending as Follow Up", func() {
			dto := followup.CreateFollowUpDTO{
				LeadID:      7,
				ScheduledAt: time.Now().Add(24 * time.Hour),
			}

			f, err := service.CreateFollowUp(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(f.Status).To(Equal(followup.StatusPending))
			Expect(syncer.registered).To(Equal([]int64{7}))
			Expect(syncer.syncCalls).To(HaveLen(1))
			Expect(syncer.syncCalls[0].status).To(Equal("Follow Up"))
		})

		It("fails when the lead does not exist", func() {
			dto := followup.CreateFollowUpDTO{
				LeadID:      999,
				ScheduledAt: time.Now().Add(24 * time.Hour),
			}

			_, err := service.CreateFollowUp(context.Background(), principal, scope, dto)

			Expect(err).To(MatchError(internal.ErrRecordNotFound))
			Expect(repo.followUps).To(BeEmpty())
		})

		It("stamps CompletedAt on terminal statuses", func() {
			status := followup.StatusConverted
			dto := followup.CreateFollowUpDTO{
				LeadID:      7,
				ScheduledAt: time.Now().Add(24 * time.Hour),
				Status:      status,
			}

			f, err := service.CreateFollowUp(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(f.CompletedAt).ToNot(BeNil())
			Expect(syncer.syncCalls[0].status).To(Equal("Converted"))
		})

		It("does not touch the lead counter when the insert fails", func() {
			repo.createError = errors.New("insert failed")
			dto := followup.CreateFollowUpDTO{
				LeadID:      7,
				ScheduledAt: time.Now().Add(24 * time.Hour),
			}

			_, err := service.CreateFollowUp(context.Background(), principal, scope, dto)

			Expect(err).To(HaveOccurred())
			Expect(syncer.registered).To(BeEmpty())
		})

		It("still creates the follow-up when the counter bump fails", func() {
			syncer.registerError = errors.New("lead update failed")
			dto := followup.CreateFollowUpDTO{
				LeadID:      7,
				ScheduledAt: time.Now().Add(24 * time.Hour),
			}

			f, err := service.CreateFollowUp(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.followUps).To(HaveKey(f.ID))
		})

		It("still creates the follow-up when the status sync fails", func() {
			syncer.syncError = errors.New("lead update failed")
			dto := followup.CreateFollowUpDTO{
				LeadID:      7,
				ScheduledAt: time.Now().Add(24 * time.Hour),
			}

			f, err := service.CreateFollowUp(context.Background(), principal, scope, dto)

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.followUps).To(HaveKey(f.ID))
		})
	})

	Describe("UpdateFollowUp", func() {
		BeforeEach(func() {
			repo.followUps[1] = &followup.FollowUp{
				ID: 1, OrganizationID: 1, LeadID: 7,
				Status: followup.StatusPending, ScheduledAt: time.Now(),
			}
		})

		It("syncs the lead when the status changes", func() {
			status := followup.StatusLost
			reason := "no budget"
			_, err := service.UpdateFollowUp(context.Background(), scope, 1, followup.UpdateFollowUpDTO{
				Status: &status,
				Reason: &reason,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(syncer.syncCalls).To(HaveLen(1))
			Expect(syncer.syncCalls[0].status).To(Equal("Lost"))
			Expect(syncer.syncCalls[0].reason).To(Equal("no budget"))
		})

		It("skips the sync when the status is unchanged", func() {
			notes := "called, no answer"
			_, err := service.UpdateFollowUp(context.Background(), scope, 1, followup.UpdateFollowUpDTO{
				Notes: &notes,
			})

			Expect(err).ToNot(HaveOccurred())
			Expect(syncer.syncCalls).To(BeEmpty())
		})
	})

	Describe("CreatePending", func() {
		It("creates a pending follow-up on behalf of an activity", func() {
			scheduled := time.Now().Add(72 * time.Hour)

			f, err := service.CreatePending(context.Background(), scope, 1, 7, 10, scheduled, `Auto-created from activity "Demo call"`)

			Expect(err).ToNot(HaveOccurred())
			Expect(f.Status).To(Equal(followup.StatusPending))
			Expect(f.CreatedBy).To(Equal(int64(10)))
			Expect(syncer.registered).To(Equal([]int64{7}))
		})
	})

	Describe("ListFollowUps", func() {
		It("narrows to owned records for standard users", func() {
			standard := &internal.Principal{UserID: 42, OrganizationID: orgRef(1), Access: internal.AccessStandard}

			_, _, err := service.ListFollowUps(standard, scope, followup.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).ToNot(BeNil())
			Expect(*repo.lastQuery.OwnedBy).To(Equal(int64(42)))
		})

		It("does not narrow for org admins", func() {
			_, _, err := service.ListFollowUps(principal, scope, followup.ListQuery{})

			Expect(err).ToNot(HaveOccurred())
			Expect(repo.lastQuery.OwnedBy).To(BeNil())
		})
	})
})
