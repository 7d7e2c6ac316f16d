package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/finflow/finflow_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"

	"github.com/stretchr/testify/mock"
)

// --- Mock AnalyticsRepository ---
type MockAnalyticsRepository struct {
	mock.Mock
}

var _ portsrepo.AnalyticsRepository = (*MockAnalyticsRepository)(nil)

func (m *MockAnalyticsRepository) GetTransactionAggregates(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionAnalytics, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TransactionAnalytics), args.Error(1)
}

func (m *MockAnalyticsRepository) GetDailyVolumes(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyVolume, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DailyVolume), args.Error(1)
}

type AnalyticsServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAnalyticsRepository
	service  portssvc.AnalyticsSvcFacade

	userID string
}

func (s *AnalyticsServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockAnalyticsRepository)
	s.service = services.NewAnalyticsService(s.mockRepo)
	s.userID = uuid.NewString()
}

func (s *AnalyticsServiceTestSuite) TestGetTransactionAnalyticsAttachesDailySeries() {
	ctx := context.Background()
	from := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	aggregates := &domain.TransactionAnalytics{
		From:          from,
		To:            to,
		TotalCount:    3,
		TotalVolume:   decimal.NewFromInt(300),
		AverageAmount: decimal.NewFromInt(100),
		CountsByType: map[domain.TransactionType]int{
			domain.Deposit:  2,
			domain.Transfer: 1,
		},
		CountsByStatus: map[domain.TransactionStatus]int{
			domain.StatusCompleted: 3,
		},
	}
	series := []domain.DailyVolume{
		{Day: time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC), Volume: decimal.NewFromInt(200), Count: 2},
		{Day: time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC), Volume: decimal.NewFromInt(100), Count: 1},
	}
	s.mockRepo.On("GetTransactionAggregates", ctx, s.userID, from, to).Return(aggregates, nil).Once()
	s.mockRepo.On("GetDailyVolumes", ctx, s.userID, from, to).Return(series, nil).Once()

	got, err := s.service.GetTransactionAnalytics(ctx, s.userID, from, to)

	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(3, got.TotalCount)
	s.Require().Len(got.DailySeries, 2)
	s.True(got.DailySeries[0].Volume.Equal(decimal.NewFromInt(200)))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *AnalyticsServiceTestSuite) TestGetTransactionAnalyticsNormalizesToUTC() {
	ctx := context.Background()
	loc := time.FixedZone("UTC+5", 5*3600)
	from := time.Date(2025, 5, 1, 5, 0, 0, 0, loc)
	to := time.Date(2025, 6, 1, 5, 0, 0, 0, loc)

	s.mockRepo.On("GetTransactionAggregates", ctx, s.userID, from.UTC(), to.UTC()).
		Return(&domain.TransactionAnalytics{}, nil).Once()
	s.mockRepo.On("GetDailyVolumes", ctx, s.userID, from.UTC(), to.UTC()).
		Return([]domain.DailyVolume{}, nil).Once()

	_, err := s.service.GetTransactionAnalytics(ctx, s.userID, from, to)

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *AnalyticsServiceTestSuite) TestResolveWindowDefaultsToTrailingMonth() {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	from, to := s.service.ResolveWindow("", nil, nil, now)

	s.Equal(now, to)
	s.Equal(now.AddDate(0, -1, 0), from)
}

func (s *AnalyticsServiceTestSuite) TestResolveWindowNamedPeriods() {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	from, to := s.service.ResolveWindow(domain.PeriodDay, nil, nil, now)
	s.Equal(now.AddDate(0, 0, -1), from)
	s.Equal(now, to)

	from, _ = s.service.ResolveWindow(domain.PeriodWeek, nil, nil, now)
	s.Equal(now.AddDate(0, 0, -7), from)

	from, _ = s.service.ResolveWindow(domain.PeriodYear, nil, nil, now)
	s.Equal(now.AddDate(-1, 0, 0), from)
}

func (s *AnalyticsServiceTestSuite) TestResolveWindowExplicitBoundsWin() {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	gotFrom, gotTo := s.service.ResolveWindow(domain.PeriodMonth, &from, &to, now)

	s.Equal(from, gotFrom)
	s.Equal(to, gotTo)
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}
