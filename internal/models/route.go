package models

import "github.com/shopspring/decimal"

// TripType selects one-way or return pricing.
type TripType string

const (
	TripOneWay TripType = "oneway"
	TripReturn TripType = "return"
)

func (t TripType) IsValid() bool {
	return t == TripOneWay || t == TripReturn
}

// RoutePrice is a fixed (pickup, dropoff) pair with its one-way base fare in
// the reference currency. Lookups are direction-agnostic: one entry serves
// both A→B and B→A.
type RoutePrice struct {
	Pickup   string          `json:"pickup"`
	Dropoff  string          `json:"dropoff"`
	BaseFare decimal.Decimal `json:"baseFare"`
}
