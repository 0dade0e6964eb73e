package utils

import (
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// RoundToStep rounds an amount to the nearest multiple of step using
// round-half-up on the scaled value (not banker's rounding). A non-positive
// step is treated as 1.
// Example: amount 338 with step 5 returns 340.
func RoundToStep(amount, step decimal.Decimal) decimal.Decimal {
	if step.Sign() <= 0 {
		step = decimal.NewFromInt(1)
	}
	// Round on decimal.Decimal is half away from zero, which equals
	// round-half-up for the non-negative amounts of this domain.
	return amount.Div(step).Round(0).Mul(step)
}

// FormatMoney renders an amount with its currency symbol, rounded to the
// nearest step and shown with the given fractional digits.
// Example: 340 TND with step 1 and 0 decimals returns "DT340".
func FormatMoney(m models.Money, decimals int32, step decimal.Decimal) string {
	rounded := RoundToStep(m.Amount, step)
	return m.Currency.Symbol() + rounded.StringFixed(decimals)
}

// FormatMoneyDefault renders an amount with the currency's default display
// precision and rounding step.
func FormatMoneyDefault(m models.Money) string {
	return FormatMoney(m, m.Currency.DisplayDecimals(), m.Currency.DisplayStep())
}
