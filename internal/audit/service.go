package audit

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/tenant"
)

type RepositoryAPI interface {
	Create(log *Log) error
	List(scope tenant.Filter, query ListQuery) ([]*Log, int64, error)
}

// ListQuery filters the audit trail for the admin listing endpoint.
type ListQuery struct {
	EntityType string
	Action     string
	UserID     *int64
	From       *time.Time
	To         *time.Time
	Page       int
	PerPage    int
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends an audit event after a mutation. It never propagates failure:
// a business operation must not be rolled back or failed because its audit
// write was lost. Unauthenticated contexts are skipped silently.
func (s *Service) Record(ctx context.Context, event Event) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("audit recorder panicked", "panic", r, "action", event.Action)
		}
	}()

	principal, ok := internal.PrincipalFromContext(ctx)
	if !ok {
		return
	}

	entry := &Log{
		OrganizationID: principal.OrganizationID,
		UserID:         &principal.UserID,
		UserEmail:      principal.Email,
		Action:         event.Action,
		EntityType:     event.EntityType,
		EntityID:       event.EntityID,
		Detail:         event.Detail,
		CreatedAt:      time.Now(),
	}

	if scope, ok := tenant.FilterFromContext(ctx); ok && scope.OrganizationID != nil {
		entry.OrganizationID = scope.OrganizationID
	}

	if len(event.Metadata) > 0 {
		if raw, err := json.Marshal(event.Metadata); err == nil {
			entry.Metadata = string(raw)
		}
	}

	origin := OriginFromContext(ctx)
	entry.IPAddress = origin.IPAddress
	entry.UserAgent = origin.UserAgent

	if err := s.repo.Create(entry); err != nil {
		s.logger.Error("failed to write audit log",
			"error", err,
			"action", event.Action,
			"entity_type", event.EntityType,
			"entity_id", event.EntityID)
	}
}

func (s *Service) ListLogs(scope tenant.Filter, query ListQuery) ([]*Log, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.PerPage < 1 || query.PerPage > 100 {
		query.PerPage = 20
	}

	logs, total, err := s.repo.List(scope, query)
	if err != nil {
		s.logger.Error("failed to list audit logs", "error", err)
		return nil, 0, internal.NewInternalError("failed to list audit logs", err)
	}
	return logs, total, nil
}
