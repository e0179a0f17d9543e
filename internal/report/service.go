package report

import (
	"log/slog"

	"github.com/crmkit/lead-management/internal"
	"github.com/crmkit/lead-management/internal/tenant"
)

type RepositoryAPI interface {
	Dashboard(scope tenant.Filter) (*Dashboard, error)
	RevenueByMonth(scope tenant.Filter, year int) ([]MonthlyRevenue, error)
	RevenueByService(scope tenant.Filter, year int) ([]ServiceRevenue, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) Dashboard(scope tenant.Filter) (*Dashboard, error) {
	d, err := s.repo.Dashboard(scope)
	if err != nil {
		s.logger.Error("failed to build dashboard", "error", err)
		return nil, internal.NewInternalError("failed to build dashboard", err)
	}
	return d, nil
}

func (s *Service) RevenueByMonth(scope tenant.Filter, year int) ([]MonthlyRevenue, error) {
	rows, err := s.repo.RevenueByMonth(scope, year)
	if err != nil {
		s.logger.Error("failed to aggregate monthly revenue", "error", err, "year", year)
		return nil, internal.NewInternalError("failed to aggregate monthly revenue", err)
	}
	return rows, nil
}

func (s *Service) RevenueByService(scope tenant.Filter, year int) ([]ServiceRevenue, error) {
	rows, err := s.repo.RevenueByService(scope, year)
	if err != nil {
		s.logger.Error("failed to aggregate service revenue", "error", err, "year", year)
		return nil, internal.NewInternalError("failed to aggregate service revenue", err)
	}
	return rows, nil
}
