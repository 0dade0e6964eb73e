package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	portssvc "github.com/hammametrides/transfer_booking_app/internal/core/ports/services"
	"github.com/hammametrides/transfer_booking_app/internal/metrics"
	"github.com/hammametrides/transfer_booking_app/internal/middleware"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/hammametrides/transfer_booking_app/internal/platform/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// using interfaces.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	m *metrics.Metrics,
	limiterInstance *limiter.Limiter,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Public funnel endpoints are rate limited per client IP
	v1 := r.Group("/api/v1", middleware.RateLimit(limiterInstance))

	registerRatesRoutes(v1, cfg, services.Rates)
	registerQuoteRoutes(v1, services, m)
	registerBookingRoutes(v1, services)
}

// registerCustomValidators adds the currencycode rule used by the DTO
// binding tags.
func registerCustomValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("currencycode", func(fl validator.FieldLevel) bool {
			return models.Currency(strings.ToUpper(fl.Field().String())).IsSupported()
		})
	}
}
