// Package repositories defines the outbound ports the services depend on.
// Adapters under internal/adapters provide the concrete implementations.
package repositories

import (
	"context"

	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// RateSource fetches the current exchange-rate table for a base currency
// from the external provider. Implementations must treat a non-2xx status or
// a body without rates as an error; fallback policy lives in the service.
type RateSource interface {
	FetchRates(ctx context.Context, base models.Currency) (map[models.Currency]decimal.Decimal, error)
}

// SnapshotStore is the durable cache for rate snapshots and the user-facing
// display-currency preference. Loads return apperrors.ErrNotFound when the
// key has never been written.
type SnapshotStore interface {
	LoadSnapshot(ctx context.Context, base models.Currency) (*models.RateSnapshot, error)
	SaveSnapshot(ctx context.Context, snapshot *models.RateSnapshot) error
	LoadDisplayCurrency(ctx context.Context) (models.Currency, error)
	SaveDisplayCurrency(ctx context.Context, currency models.Currency) error
}

// SessionStore holds the booking reference for the lifetime of one browser
// session. Entries expire; a fresh session generates a fresh reference.
type SessionStore interface {
	GetReference(sessionID string) (string, bool)
	PutReference(sessionID, reference string)
}

// FunnelClient hands booking and driver-application payloads to the external
// funnel backend's serverless functions and returns its envelope verbatim.
type FunnelClient interface {
	SubmitBooking(ctx context.Context, booking models.Booking) (*models.SubmissionEnvelope, error)
	SubmitDriverApplication(ctx context.Context, application models.DriverApplication) (*models.SubmissionEnvelope, error)
}
