package dto

import (
	"github.com/hammametrides/transfer_booking_app/internal/models"
	"github.com/shopspring/decimal"
)

// QuoteResponse is the full price card for a route: converted fare, deposit
// and balance split, and their display strings. FixedPrice is false when the
// route has no table entry; the amounts are then omitted and the UI shows the
// custom-quote call-to-action instead of a price.
type QuoteResponse struct {
	Pickup     string `json:"pickup"`
	Dropoff    string `json:"dropoff"`
	TripType   string `json:"tripType"`
	Currency   string `json:"currency"`
	FixedPrice bool   `json:"fixedPrice"`
	Message    string `json:"message,omitempty"`

	Total             *decimal.Decimal `json:"total,omitempty"`
	Deposit           *decimal.Decimal `json:"deposit,omitempty"`
	Balance           *decimal.Decimal `json:"balance,omitempty"`
	TotalDisplay      string           `json:"totalDisplay,omitempty"`
	DepositDisplay    string           `json:"depositDisplay,omitempty"`
	BalanceDisplay    string           `json:"balanceDisplay,omitempty"`
	DepositFraction   decimal.Decimal  `json:"depositFraction"`
	RateSource        string           `json:"rateSource"`
	ReferenceCurrency string           `json:"referenceCurrency"`
}

// RouteResponse is one entry of the fixed price table.
type RouteResponse struct {
	Pickup   string          `json:"pickup"`
	Dropoff  string          `json:"dropoff"`
	BaseFare decimal.Decimal `json:"baseFare"`
	Currency string          `json:"currency"`
}

// ToRouteResponses converts route table entries for listing.
func ToRouteResponses(routes []models.RoutePrice) []RouteResponse {
	res := make([]RouteResponse, len(routes))
	for i, r := range routes {
		res[i] = RouteResponse{
			Pickup:   r.Pickup,
			Dropoff:  r.Dropoff,
			BaseFare: r.BaseFare,
			Currency: string(models.ReferenceCurrency),
		}
	}
	return res
}
