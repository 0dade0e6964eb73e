package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	portssvc "github.com/hammametrides/transfer_booking_app/internal/core/ports/services"
	"github.com/hammametrides/transfer_booking_app/internal/dto"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func init() {
	gin.SetMode(gin.TestMode)
	registerCustomValidators()
}

// --- Mock RateSvcFacade ---
type MockRateSvc struct {
	mock.Mock
}

func (svc *MockRateSvc) Snapshot(ctx context.Context, forceRefresh bool) *models.RateSnapshot {
	args := svc.Called(ctx, forceRefresh)
	return args.Get(0).(*models.RateSnapshot)
}

func (svc *MockRateSvc) Convert(ctx context.Context, m models.Money, target models.Currency) models.Money {
	args := svc.Called(ctx, m, target)
	return args.Get(0).(models.Money)
}

func (svc *MockRateSvc) Format(m models.Money, decimals int32, step decimal.Decimal) string {
	args := svc.Called(m, decimals, step)
	return args.String(0)
}

func (svc *MockRateSvc) SplitDeposit(total models.Money) (models.Money, models.Money) {
	args := svc.Called(total)
	return args.Get(0).(models.Money), args.Get(1).(models.Money)
}

func (svc *MockRateSvc) DepositFraction() decimal.Decimal {
	args := svc.Called()
	return args.Get(0).(decimal.Decimal)
}

func (svc *MockRateSvc) DisplayCurrency(ctx context.Context) models.Currency {
	args := svc.Called(ctx)
	return args.Get(0).(models.Currency)
}

func (svc *MockRateSvc) SetDisplayCurrency(ctx context.Context, currency models.Currency) error {
	args := svc.Called(ctx, currency)
	return args.Error(0)
}

var _ portssvc.RateSvcFacade = (*MockRateSvc)(nil)

// --- Mock PricingSvcFacade ---
type MockPricingSvc struct {
	mock.Mock
}

func (svc *MockPricingSvc) LookupPrice(pickup, dropoff string) (*models.RoutePrice, error) {
	args := svc.Called(pickup, dropoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RoutePrice), args.Error(1)
}

func (svc *MockPricingSvc) Quote(pickup, dropoff string, trip models.TripType) (models.Money, error) {
	args := svc.Called(pickup, dropoff, trip)
	return args.Get(0).(models.Money), args.Error(1)
}

func (svc *MockPricingSvc) Routes() []models.RoutePrice {
	args := svc.Called()
	return args.Get(0).([]models.RoutePrice)
}

var _ portssvc.PricingSvcFacade = (*MockPricingSvc)(nil)

// --- Mock BookingSvcFacade ---
type MockBookingSvc struct {
	mock.Mock
}

func (svc *MockBookingSvc) Reference(ctx context.Context, sessionID string) (string, error) {
	args := svc.Called(ctx, sessionID)
	return args.String(0), args.Error(1)
}

func (svc *MockBookingSvc) SubmitBooking(ctx context.Context, sessionID string, req dto.CreateBookingRequest) (*models.SubmissionEnvelope, models.Booking, error) {
	args := svc.Called(ctx, sessionID, req)
	var env *models.SubmissionEnvelope
	if args.Get(0) != nil {
		env = args.Get(0).(*models.SubmissionEnvelope)
	}
	return env, args.Get(1).(models.Booking), args.Error(2)
}

func (svc *MockBookingSvc) SubmitDriverApplication(ctx context.Context, req dto.CreateDriverApplicationRequest) (*models.SubmissionEnvelope, error) {
	args := svc.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubmissionEnvelope), args.Error(1)
}

func (svc *MockBookingSvc) WhatsAppLink(b models.Booking) string {
	args := svc.Called(b)
	return args.String(0)
}

func (svc *MockBookingSvc) MailtoLink(b models.Booking) string {
	args := svc.Called(b)
	return args.String(0)
}

func (svc *MockBookingSvc) PaymentLinks(ctx context.Context, total models.Money, reference string) models.PaymentLinks {
	args := svc.Called(ctx, total, reference)
	return args.Get(0).(models.PaymentLinks)
}

var _ portssvc.BookingSvcFacade = (*MockBookingSvc)(nil)
