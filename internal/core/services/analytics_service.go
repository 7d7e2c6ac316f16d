package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
)

// analyticsServiceImpl implements the AnalyticsSvcFacade interface
type analyticsServiceImpl struct {
	BaseService
	analyticsRepo portsrepo.AnalyticsRepository
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repo portsrepo.AnalyticsRepository) portssvc.AnalyticsSvcFacade {
	return &analyticsServiceImpl{analyticsRepo: repo}
}

// Ensure analyticsServiceImpl implements the AnalyticsSvcFacade interface
var _ portssvc.AnalyticsSvcFacade = (*analyticsServiceImpl)(nil)

// GetTransactionAnalytics computes the rollup over a user's transactions in
// [from, to) and attaches the daily volume series.
func (s *analyticsServiceImpl) GetTransactionAnalytics(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionAnalytics, error) {
	from = from.UTC()
	to = to.UTC()

	analytics, err := s.analyticsRepo.GetTransactionAggregates(ctx, userID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute transaction aggregates", slog.String("user_id", userID))
		return nil, err
	}

	series, err := s.analyticsRepo.GetDailyVolumes(ctx, userID, from, to)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute daily volumes", slog.String("user_id", userID))
		return nil, err
	}
	analytics.DailySeries = series

	return analytics, nil
}

// ResolveWindow converts a named period into a concrete [from, to) window
// ending now. Explicit bounds win when both are present.
func (s *analyticsServiceImpl) ResolveWindow(period domain.AnalyticsPeriod, from, to *time.Time, now time.Time) (time.Time, time.Time) {
	if from != nil && to != nil {
		return from.UTC(), to.UTC()
	}

	end := now.UTC()
	var start time.Time
	switch period {
	case domain.PeriodDay:
		start = end.AddDate(0, 0, -1)
	case domain.PeriodWeek:
		start = end.AddDate(0, 0, -7)
	case domain.PeriodYear:
		start = end.AddDate(-1, 0, 0)
	default: // month
		start = end.AddDate(0, -1, 0)
	}
	return start, end
}
