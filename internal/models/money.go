package models

import "github.com/shopspring/decimal"

// Money is an amount together with its currency. Amounts in this domain are
// always non-negative; a negative conversion result is treated as a failure.
type Money struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency Currency        `json:"currency"`
}

func NewMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{Amount: amount, Currency: currency}
}

func MoneyFromFloat(amount float64, currency Currency) Money {
	return Money{Amount: decimal.NewFromFloat(amount), Currency: currency}
}

func (m Money) IsNegative() bool {
	return m.Amount.Sign() < 0
}
