package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	portssvc "github.com/hammametrides/transfer_booking_app/internal/core/ports/services"
	"github.com/hammametrides/transfer_booking_app/internal/dto"
	"github.com/hammametrides/transfer_booking_app/internal/metrics"
	"github.com/hammametrides/transfer_booking_app/internal/middleware"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// centStep keeps the deposit/balance displays at cent precision so their sum
// visibly reconstructs the total.
var centStep = decimal.New(1, -2)

// quoteHandler composes price lookup, conversion and the deposit split into
// the price card the funnel renders.
type quoteHandler struct {
	pricingService portssvc.PricingSvcFacade
	ratesService   portssvc.RateSvcFacade
	metrics        *metrics.Metrics
}

func newQuoteHandler(ps portssvc.PricingSvcFacade, rs portssvc.RateSvcFacade, m *metrics.Metrics) *quoteHandler {
	return &quoteHandler{pricingService: ps, ratesService: rs, metrics: m}
}

func registerQuoteRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer, m *metrics.Metrics) {
	h := newQuoteHandler(services.Pricing, services.Rates, m)

	rg.GET("/quotes", h.getQuote)
	rg.GET("/routes", h.listRoutes)
}

// getQuote resolves a route price and returns it converted, formatted and
// split into deposit and balance. A route with no fixed price is a defined
// outcome (fixedPrice=false), not an error status.
func (h *quoteHandler) getQuote(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	if h.metrics != nil {
		h.metrics.QuoteRequestsTotal.Inc()
	}

	pickup := c.Query("pickup")
	dropoff := c.Query("dropoff")
	tripType := models.TripType(c.DefaultQuery("tripType", string(models.TripOneWay)))

	currencyParam := strings.ToUpper(c.Query("currency"))
	var currency models.Currency
	if currencyParam == "" {
		currency = h.ratesService.DisplayCurrency(c.Request.Context())
	} else {
		currency = models.Currency(currencyParam)
		if !currency.IsSupported() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported currency: " + currencyParam})
			return
		}
	}

	total, err := h.pricingService.Quote(pickup, dropoff, tripType)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoFixedPrice) {
			logger.Info("No fixed price for route",
				slog.String("pickup", pickup), slog.String("dropoff", dropoff))
			c.JSON(http.StatusOK, dto.QuoteResponse{
				Pickup:            pickup,
				Dropoff:           dropoff,
				TripType:          string(tripType),
				Currency:          string(currency),
				FixedPrice:        false,
				Message:           "This route has no fixed price. Contact us for a custom quote.",
				DepositFraction:   h.ratesService.DepositFraction(),
				RateSource:        string(h.ratesService.Snapshot(c.Request.Context(), false).Source),
				ReferenceCurrency: string(models.ReferenceCurrency),
			})
			return
		}
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to quote route", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to quote route"})
		return
	}

	converted := h.ratesService.Convert(c.Request.Context(), total, currency)
	deposit, balance := h.ratesService.SplitDeposit(converted)
	snap := h.ratesService.Snapshot(c.Request.Context(), false)

	decimals := converted.Currency.DisplayDecimals()
	step := converted.Currency.DisplayStep()

	c.JSON(http.StatusOK, dto.QuoteResponse{
		Pickup:            pickup,
		Dropoff:           dropoff,
		TripType:          string(tripType),
		Currency:          string(converted.Currency),
		FixedPrice:        true,
		Total:             &converted.Amount,
		Deposit:           &deposit.Amount,
		Balance:           &balance.Amount,
		TotalDisplay:      h.ratesService.Format(converted, decimals, step),
		DepositDisplay:    h.ratesService.Format(deposit, 2, centStep),
		BalanceDisplay:    h.ratesService.Format(balance, 2, centStep),
		DepositFraction:   h.ratesService.DepositFraction(),
		RateSource:        string(snap.Source),
		ReferenceCurrency: string(models.ReferenceCurrency),
	})
}

// listRoutes returns the full fixed price table.
func (h *quoteHandler) listRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToRouteResponses(h.pricingService.Routes()))
}
