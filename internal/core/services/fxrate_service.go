package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/finflow/finflow_backend/internal/apperrors"
	"github.com/finflow/finflow_backend/internal/core/domain"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// conversionRateScale is the precision kept on the effective cross rate.
const conversionRateScale = 8

// fxRateServiceImpl implements the FxRateSvcFacade interface. It keeps one
// in-memory rate snapshot guarded by a RWMutex; refreshes collapse through a
// singleflight group so a cold or expired cache triggers exactly one upstream
// call no matter how many requests arrive at once.
type fxRateServiceImpl struct {
	BaseService
	provider portssvc.RateProvider
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	snapshot *domain.RateSnapshot

	group singleflight.Group
}

// FxRateServiceOption is a functional option for configuring the FX rate service
type FxRateServiceOption func(*fxRateServiceImpl)

// WithFxClock overrides the time source, used in tests to age the cache.
func WithFxClock(now func() time.Time) FxRateServiceOption {
	return func(s *fxRateServiceImpl) {
		s.now = now
	}
}

// NewFxRateService creates a new FX rate service with the provided options
func NewFxRateService(provider portssvc.RateProvider, ttl time.Duration, options ...FxRateServiceOption) portssvc.FxRateSvcFacade {
	svc := &fxRateServiceImpl{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure fxRateServiceImpl implements the FxRateSvcFacade interface
var _ portssvc.FxRateSvcFacade = (*fxRateServiceImpl)(nil)

func (s *fxRateServiceImpl) cached() *domain.RateSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

func (s *fxRateServiceImpl) fresh(snap *domain.RateSnapshot) bool {
	return snap != nil && s.now().Sub(snap.FetchedAt) < s.ttl
}

// GetRates returns the current USD-based rate table, refreshing it from the
// provider when the cached snapshot has expired. An expired snapshot is never
// served: if the refresh fails the error surfaces so callers can retry rather
// than convert at outdated rates.
func (s *fxRateServiceImpl) GetRates(ctx context.Context) (domain.RateTable, time.Time, error) {
	if snap := s.cached(); s.fresh(snap) {
		return snap.Rates, snap.FetchedAt, nil
	}

	v, err, _ := s.group.Do("rates", func() (any, error) {
		// Another caller may have refreshed while we waited on the group.
		if snap := s.cached(); s.fresh(snap) {
			return snap, nil
		}
		fetched, err := s.provider.FetchRates(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.snapshot = fetched
		s.mu.Unlock()
		s.LogInfo(ctx, "Exchange rates refreshed", slog.Int("currencies", len(fetched.Rates)))
		return fetched, nil
	})
	if err != nil {
		s.LogError(ctx, err, "Rate source unavailable")
		return nil, time.Time{}, err
	}

	snap := v.(*domain.RateSnapshot)
	return snap.Rates, snap.FetchedAt, nil
}

// Convert converts an amount between two currencies via their USD rates.
// The result is rounded to 2 decimal places.
func (s *fxRateServiceImpl) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error) {
	if from == to {
		return amount, decimal.NewFromInt(1), nil
	}

	rates, _, err := s.GetRates(ctx)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	fromRate, ok := rates[from]
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, from)
	}
	toRate, ok := rates[to]
	if !ok {
		return decimal.Zero, decimal.Zero, fmt.Errorf("%w: %s", apperrors.ErrUnknownCurrency, to)
	}

	rate := decimal.NewFromFloat(toRate).DivRound(decimal.NewFromFloat(fromRate), conversionRateScale)
	converted := amount.Mul(rate).Round(2)
	return converted, rate, nil
}
