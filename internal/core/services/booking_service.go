package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	ports "github.com/hammametrides/transfer_booking_app/internal/core/ports/repositories"
	"github.com/hammametrides/transfer_booking_app/internal/dto"
	"github.com/hammametrides/transfer_booking_app/internal/metrics"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/hammametrides/transfer_booking_app/internal/utils"
	"github.com/shopspring/decimal"
)

// BookingLinksConfig carries the hand-off targets for messaging and payment
// deep links.
type BookingLinksConfig struct {
	RefPrefix      string
	WhatsAppNumber string
	ContactEmail   string
	KonnectBaseURL string
	PaymeeBaseURL  string
}

// BookingService owns the session-scoped booking reference and the hand-offs
// to the funnel backend, payment providers and messaging links. It holds no
// authoritative booking state; persistence and notification dispatch belong
// to the external backend.
type BookingService struct {
	sessions ports.SessionStore
	funnel   ports.FunnelClient
	rates    *RateService
	links    BookingLinksConfig
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// NewBookingService creates a BookingService. metrics may be nil (tests).
func NewBookingService(sessions ports.SessionStore, funnel ports.FunnelClient, rates *RateService, links BookingLinksConfig, logger *slog.Logger, m *metrics.Metrics) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	if links.RefPrefix == "" {
		links.RefPrefix = "TTB"
	}
	return &BookingService{
		sessions: sessions,
		funnel:   funnel,
		rates:    rates,
		links:    links,
		logger:   logger,
		metrics:  m,
	}
}

// Reference returns the session's booking reference, generating it lazily on
// first access. The token is a display convenience, unique only within a
// session; the authoritative identifier is assigned by the funnel backend.
func (s *BookingService) Reference(ctx context.Context, sessionID string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", fmt.Errorf("%w: session id is required", apperrors.ErrValidation)
	}
	if ref, ok := s.sessions.GetReference(sessionID); ok {
		return ref, nil
	}

	seq, err := utils.RandomIntInRange(1, 99)
	if err != nil {
		return "", fmt.Errorf("failed to generate booking reference: %w", err)
	}
	ref := fmt.Sprintf("%s-%s-%02d", s.links.RefPrefix, time.Now().UTC().Format("20060102"), seq)
	s.sessions.PutReference(sessionID, ref)
	return ref, nil
}

// SubmitBooking forwards the lead to the funnel backend and returns its
// envelope together with the payload that was sent (for link building).
func (s *BookingService) SubmitBooking(ctx context.Context, sessionID string, req dto.CreateBookingRequest) (*models.SubmissionEnvelope, models.Booking, error) {
	ref, err := s.Reference(ctx, sessionID)
	if err != nil {
		return nil, models.Booking{}, err
	}

	booking := models.Booking{
		Reference:      ref,
		IdempotencyKey: uuid.NewString(),
		FullName:       req.FullName,
		Email:          req.Email,
		Phone:          req.Phone,
		Pickup:         req.Pickup,
		Dropoff:        req.Dropoff,
		TripType:       models.TripType(req.TripType),
		PickupDate:     req.PickupDate,
		PickupTime:     req.PickupTime,
		Passengers:     req.Passengers,
		FlightNumber:   req.FlightNumber,
		Notes:          req.Notes,
		SubmittedAt:    time.Now().UTC(),
	}

	env, err := s.funnel.SubmitBooking(ctx, booking)
	if err != nil {
		s.countSubmission("booking", "error")
		return nil, booking, fmt.Errorf("failed to submit booking in service: %w", err)
	}
	if env.Success {
		s.countSubmission("booking", "success")
	} else {
		s.countSubmission("booking", "rejected")
	}
	return env, booking, nil
}

// SubmitDriverApplication forwards a driver lead to the funnel backend.
func (s *BookingService) SubmitDriverApplication(ctx context.Context, req dto.CreateDriverApplicationRequest) (*models.SubmissionEnvelope, error) {
	application := models.DriverApplication{
		IdempotencyKey: uuid.NewString(),
		FullName:       req.FullName,
		Phone:          req.Phone,
		Email:          req.Email,
		City:           req.City,
		VehicleModel:   req.VehicleModel,
		VehicleYear:    req.VehicleYear,
		LicenseYears:   req.LicenseYears,
		SubmittedAt:    time.Now().UTC(),
	}

	env, err := s.funnel.SubmitDriverApplication(ctx, application)
	if err != nil {
		s.countSubmission("driver", "error")
		return nil, fmt.Errorf("failed to submit driver application in service: %w", err)
	}
	if env.Success {
		s.countSubmission("driver", "success")
	} else {
		s.countSubmission("driver", "rejected")
	}
	return env, nil
}

func (s *BookingService) countSubmission(kind, outcome string) {
	if s.metrics != nil {
		s.metrics.SubmissionsTotal.WithLabelValues(kind, outcome).Inc()
	}
}

// WhatsAppLink builds the wa.me deep link with the booking summary. No
// acknowledgment ever returns from it.
func (s *BookingService) WhatsAppLink(b models.Booking) string {
	text := fmt.Sprintf("Hello, I would like to confirm my transfer.\nReference: %s\nRoute: %s to %s (%s)\nDate: %s %s\nPassengers: %d\nName: %s",
		b.Reference, b.Pickup, b.Dropoff, b.TripType, b.PickupDate, b.PickupTime, b.Passengers, b.FullName)
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.links.WhatsAppNumber, url.QueryEscape(text))
}

// MailtoLink builds the mailto fallback with the same summary.
func (s *BookingService) MailtoLink(b models.Booking) string {
	subject := fmt.Sprintf("Transfer booking %s", b.Reference)
	body := fmt.Sprintf("Reference: %s\nRoute: %s to %s (%s)\nDate: %s %s\nPassengers: %d\nName: %s\nPhone: %s",
		b.Reference, b.Pickup, b.Dropoff, b.TripType, b.PickupDate, b.PickupTime, b.Passengers, b.FullName, b.Phone)
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", s.links.ContactEmail, mailtoEscape(subject), mailtoEscape(body))
}

// mailtoEscape percent-encodes for the mailto scheme, where '+' is not a
// space.
func mailtoEscape(v string) string {
	return strings.ReplaceAll(url.QueryEscape(v), "+", "%20")
}

// PaymentLinks builds both providers' checkout URLs for the deposit amount.
// The total arrives in the reference currency; both providers charge in TND,
// Konnect in integer millimes and Paymee with two decimals.
func (s *BookingService) PaymentLinks(ctx context.Context, total models.Money, reference string) models.PaymentLinks {
	tnd := s.rates.Convert(ctx, total, models.TND)
	if tnd.Currency != models.TND {
		// Conversion failed safe to the reference currency; a provider link
		// must never carry a mislabeled amount, so price it off the fixed
		// fallback rate instead.
		if r, ok := models.FallbackRate(models.TND); ok {
			tnd = models.NewMoney(total.Amount.Mul(r), models.TND)
		}
	}

	millimes := utils.RoundToStep(tnd.Amount.Mul(decimal.NewFromInt(1000)), decimal.NewFromInt(1)).IntPart()
	konnect := fmt.Sprintf("%s/pay?amount=%d&currency=TND&reference=%s",
		s.links.KonnectBaseURL, millimes, url.QueryEscape(reference))

	dinars := utils.RoundToStep(tnd.Amount, decimal.New(1, -2))
	paymee := fmt.Sprintf("%s/checkout?amount=%s&currency=TND&note=%s",
		s.links.PaymeeBaseURL, dinars.StringFixed(2), url.QueryEscape(reference))

	return models.PaymentLinks{Konnect: konnect, Paymee: paymee}
}
