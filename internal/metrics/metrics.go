package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RateFetchTotal          prometheus.Counter
	RateFallbackTotal       prometheus.Counter
	ConversionFailSafeTotal prometheus.Counter
	QuoteRequestsTotal      prometheus.Counter
	SubmissionsTotal        *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		RateFetchTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_fetch_total",
				Help: "Total number of live exchange-rate fetch attempts",
			},
		),

		RateFallbackTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "rate_fallback_total",
				Help: "Total number of refreshes that fell back to the fixed rate table",
			},
		),

		ConversionFailSafeTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "conversion_failsafe_total",
				Help: "Total number of conversions that failed safe to the reference currency",
			},
		),

		QuoteRequestsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quote_requests_total",
				Help: "Total number of route quote requests",
			},
		),

		SubmissionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "funnel_submissions_total",
				Help: "Total number of booking/driver hand-offs by outcome",
			},
			[]string{"kind", "outcome"},
		),
	}
}
