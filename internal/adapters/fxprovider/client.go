package fxprovider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/finflow/finflow_backend/internal/apperrors"
	"github.com/finflow/finflow_backend/internal/core/domain"
	portssvc "github.com/finflow/finflow_backend/internal/core/ports/services"
)

// Client fetches USD-based exchange rates from an external HTTP API.
// Any transport failure, non-200 response or malformed payload surfaces as
// apperrors.ErrRateSourceUnavailable so callers can fail or retry cleanly.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a rate provider client with a bounded request timeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Ensure Client implements portssvc.RateProvider
var _ portssvc.RateProvider = (*Client)(nil)

// ratesPayload is the wire format of the rate API response.
type ratesPayload struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

// FetchRates returns the latest USD-based rate table.
func (c *Client) FetchRates(ctx context.Context) (*domain.RateSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to build rate request: %v", apperrors.ErrRateSourceUnavailable, err)
	}
	if c.apiKey != "" {
		q := req.URL.Query()
		q.Set("apikey", c.apiKey)
		req.URL.RawQuery = q.Encode()
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: rate request failed: %v", apperrors.ErrRateSourceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: rate source returned status %d", apperrors.ErrRateSourceUnavailable, resp.StatusCode)
	}

	var payload ratesPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: failed to decode rate payload: %v", apperrors.ErrRateSourceUnavailable, err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("%w: rate payload contains no rates", apperrors.ErrRateSourceUnavailable)
	}

	rates := make(domain.RateTable, len(payload.Rates)+1)
	for code, rate := range payload.Rates {
		if rate <= 0 {
			return nil, fmt.Errorf("%w: non-positive rate for %s", apperrors.ErrRateSourceUnavailable, code)
		}
		rates[code] = rate
	}
	// The base currency itself is not always present in the payload.
	rates["USD"] = 1.0

	return &domain.RateSnapshot{
		Rates:     rates,
		FetchedAt: time.Now().UTC(),
	}, nil
}
