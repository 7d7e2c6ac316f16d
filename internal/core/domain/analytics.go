package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AnalyticsPeriod selects a trailing window for analytics queries.
type AnalyticsPeriod string

const (
	PeriodDay   AnalyticsPeriod = "day"
	PeriodWeek  AnalyticsPeriod = "week"
	PeriodMonth AnalyticsPeriod = "month"
	PeriodYear  AnalyticsPeriod = "year"
)

// DailyVolume is one point of the per-day series. Day is truncated to a
// calendar day in UTC.
type DailyVolume struct {
	Day    time.Time       `json:"day"`
	Volume decimal.Decimal `json:"volume"`
	Count  int             `json:"count"`
}

// TransactionAnalytics is the rollup over a user's transactions in a window.
// Volume sums use exact decimals throughout; no binary floating point.
type TransactionAnalytics struct {
	From           time.Time                 `json:"from"`
	To             time.Time                 `json:"to"`
	TotalCount     int                       `json:"totalCount"`
	TotalVolume    decimal.Decimal           `json:"totalVolume"`
	AverageAmount  decimal.Decimal           `json:"averageAmount"`
	CountsByType   map[TransactionType]int   `json:"countsByType"`
	CountsByStatus map[TransactionStatus]int `json:"countsByStatus"`
	DailySeries    []DailyVolume             `json:"dailySeries"`
}
