package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	memorystore "github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/hammametrides/transfer_booking_app/internal/adapters/funnelapi"
	"github.com/hammametrides/transfer_booking_app/internal/adapters/ratesapi"
	"github.com/hammametrides/transfer_booking_app/internal/adapters/sessioncache"
	"github.com/hammametrides/transfer_booking_app/internal/adapters/sqlitecache"
	"github.com/hammametrides/transfer_booking_app/internal/core/services"
	"github.com/hammametrides/transfer_booking_app/internal/handlers"
	"github.com/hammametrides/transfer_booking_app/internal/metrics"
	"github.com/hammametrides/transfer_booking_app/internal/middleware"
	"github.com/hammametrides/transfer_booking_app/internal/platform/config"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Durable store for rate snapshots and the display-currency preference
	store, err := sqlitecache.Open(cfg.SnapshotDBPath)
	if err != nil {
		logger.Error("Failed to open snapshot store", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			logger.Error("Error closing snapshot store", slog.String("error", cerr.Error()))
		}
	}()
	logger.Info("Snapshot store opened", slog.String("path", cfg.SnapshotDBPath))

	m := metrics.NewMetrics()

	rateSource := ratesapi.NewClient(cfg.RatesAPIBaseURL, cfg.RatesAPITimeout)
	funnelClient := funnelapi.NewClient(cfg.FunnelAPIBaseURL, cfg.FunnelAPIKey, cfg.FunnelAPITimeout)
	sessions := sessioncache.NewStore(cfg.SessionTTL)

	rateService := services.NewRateService(rateSource, store, cfg.RateFreshness, cfg.DepositFraction, logger, m)
	pricingService := services.NewPricingService(nil, logger)
	bookingService := services.NewBookingService(sessions, funnelClient, rateService, services.BookingLinksConfig{
		RefPrefix:      cfg.BookingRefPrefix,
		WhatsAppNumber: cfg.WhatsAppNumber,
		ContactEmail:   cfg.ContactEmail,
		KonnectBaseURL: cfg.KonnectBaseURL,
		PaymeeBaseURL:  cfg.PaymeeBaseURL,
	}, logger, m)

	container := services.NewServiceContainer(rateService, pricingService, bookingService)

	// Prefetch the first snapshot so the first quote does not pay the
	// provider round trip; failures degrade to the fallback table.
	warmCtx, cancel := context.WithTimeout(context.Background(), cfg.RatesAPITimeout+time.Second)
	snap := rateService.Snapshot(warmCtx, false)
	cancel()
	logger.Info("Rate snapshot warmed", slog.String("source", string(snap.Source)))

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	limiterInstance := limiter.New(memorystore.NewStore(), rate)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, cors, metrics)
	r.Use(
		middleware.StructuredLoggingMiddleware(logger),
		gin.Recovery(),
		cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "X-Session-ID", "X-API-Token"},
			ExposeHeaders:    []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
		middleware.PrometheusMiddleware(m),
	)

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container, m, limiterInstance)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
