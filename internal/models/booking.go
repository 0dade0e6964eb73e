package models

import "time"

// Booking is the payload handed off to the external funnel backend. The
// authoritative booking identifier is assigned there at persistence time; the
// Reference here is only the session-scoped display token.
type Booking struct {
	Reference      string    `json:"reference"`
	IdempotencyKey string    `json:"idempotencyKey"`
	FullName       string    `json:"fullName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	Pickup         string    `json:"pickup"`
	Dropoff        string    `json:"dropoff"`
	TripType       TripType  `json:"tripType"`
	PickupDate     string    `json:"pickupDate"`
	PickupTime     string    `json:"pickupTime,omitempty"`
	Passengers     int       `json:"passengers"`
	FlightNumber   string    `json:"flightNumber,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// DriverApplication is the lead payload for drivers wanting to join the
// fleet; it follows the same hand-off contract as bookings.
type DriverApplication struct {
	IdempotencyKey string    `json:"idempotencyKey"`
	FullName       string    `json:"fullName"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email,omitempty"`
	City           string    `json:"city"`
	VehicleModel   string    `json:"vehicleModel"`
	VehicleYear    int       `json:"vehicleYear"`
	LicenseYears   int       `json:"licenseYears"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// SubmissionEnvelope is the success/failure envelope returned by the funnel
// backend's serverless functions. The backend performs its own retries and
// partial-failure handling; our only obligation is to not claim success to
// the user unless Success is true.
type SubmissionEnvelope struct {
	Success   bool   `json:"success"`
	BookingID string `json:"bookingId,omitempty"`
	Message   string `json:"message,omitempty"`
}

// PaymentLinks carries the pre-built checkout URLs for both providers. The
// embedded amounts are already rounded to each provider's expected precision.
type PaymentLinks struct {
	Konnect string `json:"konnect"`
	Paymee  string `json:"paymee"`
}
