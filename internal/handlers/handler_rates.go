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
	"github.com/hammametrides/transfer_booking_app/internal/middleware"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/hammametrides/transfer_booking_app/internal/platform/config"
)

// ratesHandler handles HTTP requests related to the rate snapshot and the
// display-currency preference.
type ratesHandler struct {
	ratesService portssvc.RateSvcFacade
}

func newRatesHandler(rs portssvc.RateSvcFacade) *ratesHandler {
	return &ratesHandler{ratesService: rs}
}

// registerRatesRoutes registers routes related to exchange rates.
func registerRatesRoutes(rg *gin.RouterGroup, cfg *config.Config, ratesService portssvc.RateSvcFacade) {
	h := newRatesHandler(ratesService)

	rates := rg.Group("/rates")
	{
		rates.GET("", h.getRates)
		// Manual refresh is the only way out of a fallback snapshot before
		// the freshness window expires.
		rates.POST("/refresh", middleware.AdminTokenAuth(cfg.AdminAPIToken), h.refreshRates)
	}

	prefs := rg.Group("/preferences")
	{
		prefs.GET("/currency", h.getDisplayCurrency)
		prefs.PUT("/currency", h.setDisplayCurrency)
	}
}

// getRates returns the current snapshot, including its source so the UI can
// show the passive fallback indicator.
func (h *ratesHandler) getRates(c *gin.Context) {
	snap := h.ratesService.Snapshot(c.Request.Context(), false)
	c.JSON(http.StatusOK, dto.ToRatesResponse(snap))
}

// refreshRates forces a live fetch, replacing the cached snapshot.
func (h *ratesHandler) refreshRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Received request to force-refresh rates")

	snap := h.ratesService.Snapshot(c.Request.Context(), true)

	logger.Info("Rates refreshed", slog.String("source", string(snap.Source)))
	c.JSON(http.StatusOK, dto.ToRatesResponse(snap))
}

func (h *ratesHandler) getDisplayCurrency(c *gin.Context) {
	currency := h.ratesService.DisplayCurrency(c.Request.Context())
	c.JSON(http.StatusOK, dto.DisplayCurrencyResponse{Currency: string(currency)})
}

func (h *ratesHandler) setDisplayCurrency(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetDisplayCurrencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for SetDisplayCurrency", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	currency := models.Currency(strings.ToUpper(req.Currency))
	if err := h.ratesService.SetDisplayCurrency(c.Request.Context(), currency); err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to save display currency", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save preference"})
		return
	}

	c.JSON(http.StatusOK, dto.DisplayCurrencyResponse{Currency: string(currency)})
}
