package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hammametrides/transfer_booking_app/internal/apperrors"
	ports "github.com/hammametrides/transfer_booking_app/internal/core/ports/repositories"
	"github.com/hammametrides/transfer_booking_app/internal/metrics"
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/hammametrides/transfer_booking_app/internal/utils"
	"github.com/shopspring/decimal"
)

// RateService owns the single current rate snapshot and serves conversions,
// formatting and the deposit/balance split from it. Fetch failures are
// downgraded to the fallback snapshot and never surface to callers; there is
// no automatic retry within the freshness window — a forced refresh is the
// only way out of a fallback.
type RateService struct {
	source          ports.RateSource
	store           ports.SnapshotStore
	base            models.Currency
	freshFor        time.Duration
	depositFraction decimal.Decimal
	logger          *slog.Logger
	metrics         *metrics.Metrics

	mu          sync.RWMutex
	snapshot    *models.RateSnapshot
	storeLoaded bool
	// Monotonic fetch sequence: a refresh started later always wins, so a
	// stale in-flight fetch cannot overwrite a newer snapshot.
	fetchSeq   uint64
	appliedSeq uint64
}

// NewRateService creates a RateService. metrics may be nil (tests).
func NewRateService(source ports.RateSource, store ports.SnapshotStore, freshFor time.Duration, depositFraction decimal.Decimal, logger *slog.Logger, m *metrics.Metrics) *RateService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RateService{
		source:          source,
		store:           store,
		base:            models.ReferenceCurrency,
		freshFor:        freshFor,
		depositFraction: depositFraction,
		logger:          logger,
		metrics:         m,
	}
}

// Snapshot returns the cached snapshot while it is younger than the
// freshness window and forceRefresh is false; otherwise it attempts a live
// fetch, falling back to the fixed table on any failure. It never fails.
func (s *RateService) Snapshot(ctx context.Context, forceRefresh bool) *models.RateSnapshot {
	snap := s.current(ctx)
	if !forceRefresh && snap != nil && snap.FreshAt(time.Now().UTC(), s.freshFor) {
		return snap
	}
	return s.refresh(ctx)
}

// current returns the in-memory snapshot, warming it from the durable store
// on first use per process.
func (s *RateService) current(ctx context.Context) *models.RateSnapshot {
	s.mu.RLock()
	snap, loaded := s.snapshot, s.storeLoaded
	s.mu.RUnlock()
	if snap != nil || loaded {
		return snap
	}

	stored, err := s.store.LoadSnapshot(ctx, s.base)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.logger.Warn("Failed to load stored rate snapshot", slog.String("error", err.Error()))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeLoaded = true
	if s.snapshot == nil && stored != nil {
		s.snapshot = stored
	}
	return s.snapshot
}

func (s *RateService) refresh(ctx context.Context) *models.RateSnapshot {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.RateFetchTotal.Inc()
	}

	now := time.Now().UTC()
	var next *models.RateSnapshot
	rates, err := s.source.FetchRates(ctx, s.base)
	if err == nil {
		err = validateRates(rates, s.base)
	}
	if err != nil {
		s.logger.Warn("Rate fetch failed, using fallback table",
			slog.String("base", string(s.base)),
			slog.String("error", err.Error()))
		if s.metrics != nil {
			s.metrics.RateFallbackTotal.Inc()
		}
		next = models.FallbackSnapshot(now)
	} else {
		next = &models.RateSnapshot{
			BaseCurrency: s.base,
			Rates:        rates,
			FetchedAt:    now,
			Source:       models.SnapshotLive,
		}
		if serr := s.store.SaveSnapshot(ctx, next); serr != nil {
			s.logger.Warn("Failed to persist rate snapshot", slog.String("error", serr.Error()))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.appliedSeq {
		// A refresh that started after this one already completed; keep its
		// snapshot and discard ours.
		return s.snapshot
	}
	s.appliedSeq = seq
	s.snapshot = next
	return next
}

// validateRates rejects a fetched table that is unusable as a whole: the
// snapshot is entirely live or entirely fallback, never a per-currency mix.
func validateRates(rates map[models.Currency]decimal.Decimal, base models.Currency) error {
	if len(rates) == 0 {
		return fmt.Errorf("empty rates table")
	}
	for _, c := range models.SupportedCurrencies {
		if c == base {
			continue
		}
		r, ok := rates[c]
		if !ok {
			return fmt.Errorf("missing rate for %s", c)
		}
		if r.Sign() <= 0 {
			return fmt.Errorf("non-positive rate %s for %s", r, c)
		}
	}
	return nil
}

// Convert converts a reference-currency amount to the target currency. On a
// missing rate or an invalid result it logs and returns the amount
// re-labeled with the reference currency, never a mismatched or invalid
// value.
func (s *RateService) Convert(ctx context.Context, m models.Money, target models.Currency) models.Money {
	if target == m.Currency {
		return m
	}
	failSafe := models.NewMoney(m.Amount, s.base)
	if m.Currency != s.base {
		s.logger.Warn("Convert called with a non-reference amount",
			slog.String("currency", string(m.Currency)))
		s.failSafeInc()
		return failSafe
	}
	if m.IsNegative() {
		s.logger.Warn("Convert called with a negative amount",
			slog.String("amount", m.Amount.String()))
		s.failSafeInc()
		return failSafe
	}

	snap := s.Snapshot(ctx, false)
	rate, ok := snap.Rates[target]
	if !ok || rate.Sign() <= 0 {
		s.logger.Warn("No usable rate for target currency",
			slog.String("target", string(target)),
			slog.String("source", string(snap.Source)))
		s.failSafeInc()
		return failSafe
	}

	converted := m.Amount.Mul(rate)
	if converted.Sign() < 0 {
		s.failSafeInc()
		return failSafe
	}
	return models.NewMoney(converted, target)
}

func (s *RateService) failSafeInc() {
	if s.metrics != nil {
		s.metrics.ConversionFailSafeTotal.Inc()
	}
}

// Format rounds the amount half-up to the nearest step and renders it with
// the currency symbol and the given fractional digits.
func (s *RateService) Format(m models.Money, decimals int32, step decimal.Decimal) string {
	return utils.FormatMoney(m, decimals, step)
}

// SplitDeposit splits a total into the online deposit and the balance due at
// pickup. Only the deposit is rounded; the balance is derived by
// subtraction, so deposit + balance always reconstructs the total to the
// cent.
func (s *RateService) SplitDeposit(total models.Money) (models.Money, models.Money) {
	deposit := total.Amount.Mul(s.depositFraction).Round(2)
	balance := total.Amount.Sub(deposit)
	return models.NewMoney(deposit, total.Currency), models.NewMoney(balance, total.Currency)
}

func (s *RateService) DepositFraction() decimal.Decimal {
	return s.depositFraction
}

// DisplayCurrency returns the persisted display-currency preference, or the
// reference currency when none was ever selected.
func (s *RateService) DisplayCurrency(ctx context.Context) models.Currency {
	c, err := s.store.LoadDisplayCurrency(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("Failed to load display currency preference", slog.String("error", err.Error()))
		}
		return s.base
	}
	if !c.IsSupported() {
		return s.base
	}
	return c
}

func (s *RateService) SetDisplayCurrency(ctx context.Context, currency models.Currency) error {
	if !currency.IsSupported() {
		return fmt.Errorf("%w: unsupported currency '%s'", apperrors.ErrValidation, currency)
	}
	if err := s.store.SaveDisplayCurrency(ctx, currency); err != nil {
		return fmt.Errorf("failed to save display currency in service: %w", err)
	}
	return nil
}
