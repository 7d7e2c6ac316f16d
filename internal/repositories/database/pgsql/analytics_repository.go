package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	portsrepo "github.com/finflow/finflow_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// analyticsRepository implements the AnalyticsRepository interface.
// All aggregation runs in SQL so amounts never lose precision in transit;
// NUMERIC columns scan straight into decimal.Decimal.
type analyticsRepository struct {
	BaseRepository
}

// newAnalyticsRepository creates a new analytics repository
func newAnalyticsRepository(db *pgxpool.Pool) portsrepo.AnalyticsRepository {
	return &analyticsRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// GetTransactionAggregates computes totals, averages and per-type/per-status
// counts over a user's transactions in [from, to). Volume and average cover
// completed transactions only.
func (r *analyticsRepository) GetTransactionAggregates(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionAnalytics, error) {
	query := `
		SELECT
			type,
			status,
			COUNT(*),
			COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1
			AND created_at >= $2
			AND created_at < $3
		GROUP BY type, status
	`

	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying transaction aggregates: %w", err)
	}
	defer rows.Close()

	result := domain.TransactionAnalytics{
		From:           from,
		To:             to,
		TotalVolume:    decimal.Zero,
		AverageAmount:  decimal.Zero,
		CountsByType:   make(map[domain.TransactionType]int),
		CountsByStatus: make(map[domain.TransactionStatus]int),
	}
	completedCount := 0

	for rows.Next() {
		var txnType, status string
		var count int
		var volume decimal.Decimal

		if err := rows.Scan(&txnType, &status, &count, &volume); err != nil {
			return nil, fmt.Errorf("error scanning transaction aggregate row: %w", err)
		}

		result.TotalCount += count
		result.CountsByType[domain.TransactionType(txnType)] += count
		result.CountsByStatus[domain.TransactionStatus(status)] += count

		if domain.TransactionStatus(status) == domain.StatusCompleted {
			result.TotalVolume = result.TotalVolume.Add(volume)
			completedCount += count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction aggregate rows: %w", err)
	}

	if completedCount > 0 {
		result.AverageAmount = result.TotalVolume.DivRound(decimal.NewFromInt(int64(completedCount)), 2)
	}

	return &result, nil
}

// GetDailyVolumes returns the completed transaction volume per UTC day in [from, to).
// Days with no transactions are absent from the series.
func (r *analyticsRepository) GetDailyVolumes(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyVolume, error) {
	query := `
		SELECT
			date_trunc('day', created_at AT TIME ZONE 'UTC') AS day,
			COALESCE(SUM(amount), 0),
			COUNT(*)
		FROM transactions
		WHERE user_id = $1
			AND status = 'COMPLETED'
			AND created_at >= $2
			AND created_at < $3
		GROUP BY day
		ORDER BY day
	`

	rows, err := r.Pool.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("error querying daily volumes: %w", err)
	}
	defer rows.Close()

	series := []domain.DailyVolume{}
	for rows.Next() {
		var dv domain.DailyVolume
		if err := rows.Scan(&dv.Day, &dv.Volume, &dv.Count); err != nil {
			return nil, fmt.Errorf("error scanning daily volume row: %w", err)
		}
		dv.Day = dv.Day.UTC()
		series = append(series, dv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily volume rows: %w", err)
	}

	return series, nil
}
