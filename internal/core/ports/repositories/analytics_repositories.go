package repositories

import (
	"context"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
)

// AnalyticsRepository defines read-only aggregation queries over transaction data.
// All aggregation happens in SQL; day boundaries are computed in UTC.
type AnalyticsRepository interface {
	// GetTransactionAggregates computes totals, averages and per-type/per-status
	// counts over a user's transactions in [from, to).
	GetTransactionAggregates(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionAnalytics, error)

	// GetDailyVolumes returns the completed transaction volume per UTC day in [from, to).
	GetDailyVolumes(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyVolume, error)
}
