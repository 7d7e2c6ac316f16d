package domain

import "time"

// RateTable maps a currency code to its rate relative to USD.
// rate[USD] is always 1.
type RateTable map[string]float64

// RateSnapshot is a cached rate table with its fetch time. It is a cache
// value, not a persisted entity.
type RateSnapshot struct {
	Rates     RateTable
	FetchedAt time.Time
}
