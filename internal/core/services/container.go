package services

import (
	portssvc "github.com/hammametrides/transfer_booking_app/internal/core/ports/services"
)

// NewServiceContainer bundles the concrete services behind their facades for
// route registration.
func NewServiceContainer(rates *RateService, pricing *PricingService, booking *BookingService) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Rates:   rates,
		Pricing: pricing,
		Booking: booking,
	}
}
