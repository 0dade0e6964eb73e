package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Port         string
	IsProduction bool

	// Exchange-rate provider
	RatesAPIBaseURL   string
	RatesAPITimeout   time.Duration
	RateFreshness     time.Duration // snapshot freshness window
	SnapshotDBPath    string        // embedded store for snapshots + preferences

	// Pricing settings (owned by the external pricing-settings collaborator;
	// surfaced here as configuration, never hard-coded in services)
	DepositFraction decimal.Decimal

	// Funnel backend (serverless functions)
	FunnelAPIBaseURL string
	FunnelAPIKey     string
	FunnelAPITimeout time.Duration

	// Hand-off targets
	BookingRefPrefix string
	WhatsAppNumber   string
	ContactEmail     string
	KonnectBaseURL   string
	PaymeeBaseURL    string

	// HTTP surface
	AdminAPIToken  string
	AllowedOrigins []string
	RateLimit      string // ulule/limiter formatted rate, e.g. "60-M"
	SessionTTL     time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("RATES_API_BASE_URL", "https://api.exchangerate-api.com")
	viper.SetDefault("RATES_API_TIMEOUT", "10s")
	viper.SetDefault("RATE_FRESHNESS_WINDOW", "24h")
	viper.SetDefault("SNAPSHOT_DB_PATH", "data/rates.db")
	viper.SetDefault("DEPOSIT_FRACTION", "0.25")
	viper.SetDefault("FUNNEL_API_BASE_URL", "")
	viper.SetDefault("FUNNEL_API_KEY", "")
	viper.SetDefault("FUNNEL_API_TIMEOUT", "15s")
	viper.SetDefault("BOOKING_REF_PREFIX", "TTB")
	viper.SetDefault("WHATSAPP_NUMBER", "21620000000")
	viper.SetDefault("CONTACT_EMAIL", "bookings@example.com")
	viper.SetDefault("KONNECT_BASE_URL", "https://knct.me")
	viper.SetDefault("PAYMEE_BASE_URL", "https://app.paymee.tn")
	viper.SetDefault("ADMIN_API_TOKEN", "")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "60-M")
	viper.SetDefault("SESSION_TTL", "24h")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.RatesAPIBaseURL = viper.GetString("RATES_API_BASE_URL")
	cfg.RatesAPITimeout = parseDuration("RATES_API_TIMEOUT", 10*time.Second)
	cfg.RateFreshness = parseDuration("RATE_FRESHNESS_WINDOW", 24*time.Hour)
	cfg.SnapshotDBPath = viper.GetString("SNAPSHOT_DB_PATH")

	fractionStr := viper.GetString("DEPOSIT_FRACTION")
	fraction, err := decimal.NewFromString(fractionStr)
	if err != nil || fraction.Sign() <= 0 || fraction.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		log.Printf("Warning: Invalid value for DEPOSIT_FRACTION ('%s'). Defaulting to 0.25.\n", fractionStr)
		fraction = decimal.NewFromFloat(0.25)
	}
	cfg.DepositFraction = fraction

	cfg.FunnelAPIBaseURL = viper.GetString("FUNNEL_API_BASE_URL")
	if cfg.FunnelAPIBaseURL == "" {
		log.Println("Warning: FUNNEL_API_BASE_URL environment variable not set. Booking hand-off will fail.")
	}
	cfg.FunnelAPIKey = viper.GetString("FUNNEL_API_KEY")
	cfg.FunnelAPITimeout = parseDuration("FUNNEL_API_TIMEOUT", 15*time.Second)

	cfg.BookingRefPrefix = viper.GetString("BOOKING_REF_PREFIX")
	cfg.WhatsAppNumber = viper.GetString("WHATSAPP_NUMBER")
	cfg.ContactEmail = viper.GetString("CONTACT_EMAIL")
	cfg.KonnectBaseURL = viper.GetString("KONNECT_BASE_URL")
	cfg.PaymeeBaseURL = viper.GetString("PAYMEE_BASE_URL")

	cfg.AdminAPIToken = viper.GetString("ADMIN_API_TOKEN")
	if cfg.AdminAPIToken == "" {
		log.Println("Warning: ADMIN_API_TOKEN environment variable not set. Admin routes are disabled.")
	}
	cfg.AllowedOrigins = viper.GetStringSlice("ALLOWED_ORIGINS")
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.SessionTTL = parseDuration("SESSION_TTL", 24*time.Hour)

	return cfg, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
