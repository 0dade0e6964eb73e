package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	portssvc "github.com/hammametrides/transfer_booking_app/internal/core/ports/services"
	"github.com/hammametrides/transfer_booking_app/internal/dto"
	"github.com/hammametrides/transfer_booking_app/internal/middleware"
	"github.com/hammametrides/transfer_booking_app/internal/models"
)

const sessionHeader = "X-Session-ID"

// degradedMessage is shown when the funnel backend could not be reached; the
// WhatsApp link still works, so the lead is never lost.
const degradedMessage = "We could not confirm your booking right now. Please reach us on WhatsApp and mention your reference."

// bookingHandler handles booking and driver-application hand-offs.
type bookingHandler struct {
	bookingService portssvc.BookingSvcFacade
	pricingService portssvc.PricingSvcFacade
	ratesService   portssvc.RateSvcFacade
}

func newBookingHandler(bs portssvc.BookingSvcFacade, ps portssvc.PricingSvcFacade, rs portssvc.RateSvcFacade) *bookingHandler {
	return &bookingHandler{bookingService: bs, pricingService: ps, ratesService: rs}
}

func registerBookingRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	h := newBookingHandler(services.Booking, services.Pricing, services.Rates)

	bookings := rg.Group("/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("/reference", h.getReference)
	}

	rg.POST("/drivers/applications", h.createDriverApplication)
}

// getReference returns the session's booking reference, generating it on
// first access.
func (h *bookingHandler) getReference(c *gin.Context) {
	sessionID := c.GetHeader(sessionHeader)

	ref, err := h.bookingService.Reference(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": sessionHeader + " header is required"})
			return
		}
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to generate booking reference", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate booking reference"})
		return
	}

	c.JSON(http.StatusOK, dto.ReferenceResponse{Reference: ref})
}

// createBooking validates the lead, hands it to the funnel backend and
// reports the outcome strictly from the envelope's success flag.
func (h *bookingHandler) createBooking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	sessionID := c.GetHeader(sessionHeader)
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": sessionHeader + " header is required"})
		return
	}

	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBooking", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received booking request",
		slog.String("pickup", req.Pickup), slog.String("dropoff", req.Dropoff))

	env, booking, err := h.bookingService.SubmitBooking(c.Request.Context(), sessionID, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		// The hand-off failed; degrade gracefully with the messaging links
		// so the user can still complete the booking manually.
		logger.Error("Booking hand-off failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, dto.BookingResponse{
			Success:      false,
			Reference:    booking.Reference,
			Message:      degradedMessage,
			WhatsAppLink: h.bookingService.WhatsAppLink(booking),
			MailtoLink:   h.bookingService.MailtoLink(booking),
		})
		return
	}

	resp := dto.BookingResponse{
		Success:      env.Success,
		BookingID:    env.BookingID,
		Reference:    booking.Reference,
		Message:      env.Message,
		WhatsAppLink: h.bookingService.WhatsAppLink(booking),
		MailtoLink:   h.bookingService.MailtoLink(booking),
	}

	if env.Success {
		h.attachPaymentLinks(c, &resp, booking)
		logger.Info("Booking handed off", slog.String("booking_id", env.BookingID))
		c.JSON(http.StatusCreated, resp)
		return
	}

	if resp.Message == "" {
		resp.Message = degradedMessage
	}
	logger.Warn("Funnel backend rejected booking", slog.String("message", env.Message))
	c.JSON(http.StatusOK, resp)
}

// attachPaymentLinks adds checkout URLs for the deposit when the route has a
// fixed price; custom-quote routes are settled offline.
func (h *bookingHandler) attachPaymentLinks(c *gin.Context, resp *dto.BookingResponse, booking models.Booking) {
	total, err := h.pricingService.Quote(booking.Pickup, booking.Dropoff, booking.TripType)
	if err != nil {
		return
	}
	deposit, _ := h.ratesService.SplitDeposit(total)
	links := h.bookingService.PaymentLinks(c.Request.Context(), deposit, booking.Reference)
	resp.PaymentLinks = &links
}

// createDriverApplication hands a driver lead to the funnel backend.
func (h *bookingHandler) createDriverApplication(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateDriverApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateDriverApplication", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	env, err := h.bookingService.SubmitDriverApplication(c.Request.Context(), req)
	if err != nil {
		logger.Error("Driver application hand-off failed", slog.String("error", err.Error()))
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": "We could not submit your application right now. Please try again later.",
		})
		return
	}

	status := http.StatusCreated
	if !env.Success {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"success": env.Success, "message": env.Message})
}
