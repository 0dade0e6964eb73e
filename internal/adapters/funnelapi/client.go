// Package funnelapi is the HTTP client for the external funnel backend's
// serverless functions. The backend owns persistence, email and WhatsApp
// dispatch, payment-order creation, and its own retries; this client only
// delivers the payload and relays the envelope.
package funnelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	"github.com/hammametrides/transfer_booking_app/internal/models"
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) SubmitBooking(ctx context.Context, booking models.Booking) (*models.SubmissionEnvelope, error) {
	return c.post(ctx, "/functions/v1/submit-booking", booking)
}

func (c *Client) SubmitDriverApplication(ctx context.Context, application models.DriverApplication) (*models.SubmissionEnvelope, error) {
	return c.post(ctx, "/functions/v1/submit-driver-application", application)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*models.SubmissionEnvelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: funnel backend returned status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var env models.SubmissionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("%w: failed to decode envelope: %v", apperrors.ErrUpstream, err)
	}
	return &env, nil
}
