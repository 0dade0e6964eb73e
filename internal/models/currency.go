package models

import (
	"github.com/shopspring/decimal"
)

// Currency is a supported ISO 4217 currency code.
type Currency string

const (
	EUR Currency = "EUR"
	TND Currency = "TND"
	USD Currency = "USD"
	GBP Currency = "GBP"
)

// ReferenceCurrency is the currency all stored route prices and snapshot
// rates are expressed against.
const ReferenceCurrency = EUR

// SupportedCurrencies lists every currency the funnel can display.
var SupportedCurrencies = []Currency{EUR, TND, USD, GBP}

func (c Currency) IsSupported() bool {
	for _, s := range SupportedCurrencies {
		if c == s {
			return true
		}
	}
	return false
}

// Symbol returns the display symbol for the currency.
func (c Currency) Symbol() string {
	switch c {
	case EUR:
		return "€"
	case TND:
		return "DT"
	case USD:
		return "$"
	case GBP:
		return "£"
	default:
		return string(c)
	}
}

// DisplayDecimals is the number of fractional digits shown for the currency.
// Dinar prices are displayed as whole amounts on the site.
func (c Currency) DisplayDecimals() int32 {
	if c == TND {
		return 0
	}
	return 2
}

// DisplayStep is the rounding step quoted prices are snapped to before
// display: whole units for TND, cents for the others.
func (c Currency) DisplayStep() decimal.Decimal {
	if c == TND {
		return decimal.NewFromInt(1)
	}
	return decimal.New(1, -2)
}
