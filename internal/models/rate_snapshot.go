package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SnapshotSource tells whether a snapshot came from the live provider or the
// hard-coded fallback table. A snapshot is entirely one or the other, never a
// per-currency mix.
type SnapshotSource string

const (
	SnapshotLive     SnapshotSource = "live"
	SnapshotFallback SnapshotSource = "fallback"
)

// RateSnapshot is one fetched-or-fallback set of exchange rates against the
// base currency. Snapshots are immutable; a refresh produces a new one.
type RateSnapshot struct {
	BaseCurrency Currency                    `json:"baseCurrency"`
	Rates        map[Currency]decimal.Decimal `json:"rates"`
	FetchedAt    time.Time                   `json:"fetchedAt"`
	Source       SnapshotSource              `json:"source"`
}

func (s *RateSnapshot) IsFallback() bool {
	return s.Source == SnapshotFallback
}

// FreshAt reports whether the snapshot is still within the freshness window
// at the given instant.
func (s *RateSnapshot) FreshAt(now time.Time, window time.Duration) bool {
	return now.Sub(s.FetchedAt) < window
}

// fallbackRates is the hard-coded table used when the live provider is
// unreachable or returns an invalid body. Values are deliberately
// conservative; they only need to be close enough for display.
var fallbackRates = map[Currency]decimal.Decimal{
	EUR: decimal.NewFromInt(1),
	TND: decimal.NewFromFloat(3.4),
	USD: decimal.NewFromFloat(1.09),
	GBP: decimal.NewFromFloat(0.86),
}

// FallbackSnapshot builds a fallback snapshot stamped with the given time.
func FallbackSnapshot(now time.Time) *RateSnapshot {
	rates := make(map[Currency]decimal.Decimal, len(fallbackRates))
	for c, r := range fallbackRates {
		rates[c] = r
	}
	return &RateSnapshot{
		BaseCurrency: ReferenceCurrency,
		Rates:        rates,
		FetchedAt:    now,
		Source:       SnapshotFallback,
	}
}

// FallbackRate returns the hard-coded rate for a currency, for callers that
// need to compare against the table (tests, diagnostics).
func FallbackRate(c Currency) (decimal.Decimal, bool) {
	r, ok := fallbackRates[c]
	return r, ok
}
