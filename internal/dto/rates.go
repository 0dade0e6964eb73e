package dto

import (
	"time"

	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// RatesResponse exposes the current snapshot so the UI can render prices and
// the passive "using fallback rates, updated at …" indicator.
type RatesResponse struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
	FetchedAt    time.Time                  `json:"fetchedAt"`
	Source       string                     `json:"source"`
	IsFallback   bool                       `json:"isFallback"`
}

// ToRatesResponse converts a models.RateSnapshot to its response DTO.
func ToRatesResponse(snap *models.RateSnapshot) RatesResponse {
	rates := make(map[string]decimal.Decimal, len(snap.Rates))
	for c, r := range snap.Rates {
		rates[string(c)] = r
	}
	return RatesResponse{
		BaseCurrency: string(snap.BaseCurrency),
		Rates:        rates,
		FetchedAt:    snap.FetchedAt,
		Source:       string(snap.Source),
		IsFallback:   snap.IsFallback(),
	}
}

// SetDisplayCurrencyRequest updates the persisted display-currency
// preference.
type SetDisplayCurrencyRequest struct {
	Currency string `json:"currency" binding:"required,currencycode"`
}

// DisplayCurrencyResponse returns the stored preference.
type DisplayCurrencyResponse struct {
	Currency string `json:"currency"`
}
