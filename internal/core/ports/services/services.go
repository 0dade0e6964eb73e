// Package services defines the inbound service facades the handlers consume.
package services

import (
	"context"

	"github.com/hammametrides/transfer_booking_app/internal/dto"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// ServiceContainer holds instances of all the application services. It is
// the single wiring point handed to route registration.
type ServiceContainer struct {
	Rates   RateSvcFacade
	Pricing PricingSvcFacade
	Booking BookingSvcFacade
}

// RateSvcFacade owns the current rate snapshot and every currency-specific
// conversion, rounding and display rule, so those rules live in one place
// instead of being duplicated per call site.
type RateSvcFacade interface {
	// Snapshot returns the current snapshot, refreshing or falling back as
	// needed. It never fails; degradation is visible via Snapshot.Source.
	Snapshot(ctx context.Context, forceRefresh bool) *models.RateSnapshot

	// Convert converts a base-currency amount to the target currency. On a
	// missing rate or invalid result it fails safe to the base-labelled
	// original amount; it never returns a currency-mismatched value.
	Convert(ctx context.Context, m models.Money, target models.Currency) models.Money

	// Format rounds the amount half-up to the nearest step and renders it
	// with the currency symbol and the given fractional digits.
	Format(m models.Money, decimals int32, step decimal.Decimal) string

	// SplitDeposit splits a total into the online deposit and the balance
	// due at pickup. deposit + balance always reconstructs the total.
	SplitDeposit(total models.Money) (deposit, balance models.Money)

	DepositFraction() decimal.Decimal

	DisplayCurrency(ctx context.Context) models.Currency
	SetDisplayCurrency(ctx context.Context, currency models.Currency) error
}

// PricingSvcFacade resolves fixed route prices in the reference currency.
type PricingSvcFacade interface {
	// LookupPrice returns the table entry for a normalized pair, or
	// apperrors.ErrNoFixedPrice when the route needs a custom quote.
	LookupPrice(pickup, dropoff string) (*models.RoutePrice, error)

	// Quote returns the fare for the pair and trip type in the reference
	// currency.
	Quote(pickup, dropoff string, trip models.TripType) (models.Money, error)

	Routes() []models.RoutePrice
}

// BookingSvcFacade owns the session-scoped booking reference and the
// hand-offs to the funnel backend, payment providers and messaging links.
type BookingSvcFacade interface {
	// Reference returns the session's booking reference, generating it
	// lazily on first access.
	Reference(ctx context.Context, sessionID string) (string, error)

	SubmitBooking(ctx context.Context, sessionID string, req dto.CreateBookingRequest) (*models.SubmissionEnvelope, models.Booking, error)
	SubmitDriverApplication(ctx context.Context, req dto.CreateDriverApplicationRequest) (*models.SubmissionEnvelope, error)

	WhatsAppLink(b models.Booking) string
	MailtoLink(b models.Booking) string
	PaymentLinks(ctx context.Context, total models.Money, reference string) models.PaymentLinks
}
