package dto

import (
	"time"

	"github.com/finflow/finflow_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AnalyticsRequest defines query parameters for the transaction analytics endpoint.
// Period selects a rolling window ending now; From/To override it when both are set.
type AnalyticsRequest struct {
	Period domain.AnalyticsPeriod `form:"period,default=month" binding:"omitempty,oneof=day week month year"`
	From   *time.Time             `form:"from" time_format:"2006-01-02"`
	To     *time.Time             `form:"to" time_format:"2006-01-02"`
}

// DailyVolumeResponse is one point of the daily volume series.
type DailyVolumeResponse struct {
	Day    string          `json:"day"`
	Volume decimal.Decimal `json:"volume"`
	Count  int             `json:"count"`
}

// AnalyticsResponse defines the API representation of transaction analytics.
type AnalyticsResponse struct {
	From           time.Time                        `json:"from"`
	To             time.Time                        `json:"to"`
	TotalCount     int                              `json:"totalCount"`
	TotalVolume    decimal.Decimal                  `json:"totalVolume"`
	AverageAmount  decimal.Decimal                  `json:"averageAmount"`
	CountsByType   map[domain.TransactionType]int   `json:"countsByType"`
	CountsByStatus map[domain.TransactionStatus]int `json:"countsByStatus"`
	DailySeries    []DailyVolumeResponse            `json:"dailySeries"`
}

// ToAnalyticsResponse maps domain analytics to the API representation.
// Days are rendered as ISO dates in UTC.
func ToAnalyticsResponse(a domain.TransactionAnalytics) AnalyticsResponse {
	resp := AnalyticsResponse{
		From:           a.From,
		To:             a.To,
		TotalCount:     a.TotalCount,
		TotalVolume:    a.TotalVolume,
		AverageAmount:  a.AverageAmount,
		CountsByType:   a.CountsByType,
		CountsByStatus: a.CountsByStatus,
		DailySeries:    make([]DailyVolumeResponse, len(a.DailySeries)),
	}
	for i, d := range a.DailySeries {
		resp.DailySeries[i] = DailyVolumeResponse{
			Day:    d.Day.UTC().Format("2006-01-02"),
			Volume: d.Volume,
			Count:  d.Count,
		}
	}
	return resp
}
