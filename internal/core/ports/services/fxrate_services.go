package services

import (
	"context"
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateProvider fetches the latest exchange rate table from an external source.
// Implemented by the HTTP adapter in internal/adapters/fxprovider.
type RateProvider interface {
	// FetchRates returns USD-based rates for all supported currencies.
	FetchRates(ctx context.Context) (*domain.RateSnapshot, error)
}

// FxRateSvcFacade defines exchange rate lookup and conversion operations.
// Implementations cache the rate table and refresh it after a TTL; concurrent
// refreshes collapse into a single provider call.
type FxRateSvcFacade interface {
	// GetRates returns the current USD-based rate table and the time it was fetched.
	GetRates(ctx context.Context) (domain.RateTable, time.Time, error)

	// Convert converts an amount between two currencies via their USD rates,
	// rounded to 2 decimal places. It returns the converted amount and the
	// effective rate. Converting a currency to itself returns the amount
	// unchanged with a rate of 1.
	Convert(ctx context.Context, amount decimal.Decimal, from, to string) (decimal.Decimal, decimal.Decimal, error)
}
