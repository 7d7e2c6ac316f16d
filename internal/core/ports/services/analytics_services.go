package services

import (
	"context"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
)

// AnalyticsSvcFacade defines operations for transaction analytics.
type AnalyticsSvcFacade interface {
	// GetTransactionAnalytics computes totals, averages, per-type and per-status
	// counts and a daily volume series over [from, to). Day boundaries are UTC.
	GetTransactionAnalytics(ctx context.Context, userID string, from, to time.Time) (*domain.TransactionAnalytics, error)

	// ResolveWindow converts a named period into a concrete [from, to) window
	// ending now, unless explicit bounds are given.
	ResolveWindow(period domain.AnalyticsPeriod, from, to *time.Time, now time.Time) (time.Time, time.Time)
}
