// Package ratesapi is the HTTP adapter for the external exchange-rate
// provider.
package ratesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// Client fetches the latest rate table for a base currency. Any non-2xx
// status or a body without a usable rates map is an error; the caller
// decides the fallback policy.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

type latestResponse struct {
	Base  string             `json:"base"`
	Rates map[string]float64 `json:"rates"`
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) FetchRates(ctx context.Context, base models.Currency) (map[models.Currency]decimal.Decimal, error) {
	url := fmt.Sprintf("%s/v4/latest/%s", c.baseURL, base)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("rates API returned non-OK status: %d", resp.StatusCode)
	}

	var apiResp latestResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(apiResp.Rates) == 0 {
		return nil, fmt.Errorf("rates API response has no rates field")
	}

	// Keep only the currencies the funnel supports; the provider returns the
	// full ISO table.
	rates := make(map[models.Currency]decimal.Decimal, len(models.SupportedCurrencies))
	rates[base] = decimal.NewFromInt(1)
	for _, cur := range models.SupportedCurrencies {
		if cur == base {
			continue
		}
		raw, ok := apiResp.Rates[string(cur)]
		if !ok {
			return nil, fmt.Errorf("rate not found for currency: %s", cur)
		}
		rates[cur] = decimal.NewFromFloat(raw)
	}

	return rates, nil
}
