package dto

import "github.com/hammametrides/transfer_booking_app/internal/models"

// CreateBookingRequest is the lead form payload submitted by the site.
type CreateBookingRequest struct {
	FullName     string `json:"fullName" binding:"required,min=2,max=120"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone" binding:"required,min=6,max=20"`
	Pickup       string `json:"pickup" binding:"required"`
	Dropoff      string `json:"dropoff" binding:"required"`
	TripType     string `json:"tripType" binding:"required,oneof=oneway return"`
	PickupDate   string `json:"pickupDate" binding:"required,datetime=2006-01-02"`
	PickupTime   string `json:"pickupTime" binding:"omitempty,datetime=15:04"`
	Passengers   int    `json:"passengers" binding:"required,gte=1,lte=8"`
	FlightNumber string `json:"flightNumber" binding:"omitempty,max=10"`
	Notes        string `json:"notes" binding:"omitempty,max=500"`
}

// CreateDriverApplicationRequest is the driver lead form payload.
type CreateDriverApplicationRequest struct {
	FullName     string `json:"fullName" binding:"required,min=2,max=120"`
	Phone        string `json:"phone" binding:"required,min=6,max=20"`
	Email        string `json:"email" binding:"omitempty,email"`
	City         string `json:"city" binding:"required"`
	VehicleModel string `json:"vehicleModel" binding:"required"`
	VehicleYear  int    `json:"vehicleYear" binding:"required,gte=2005"`
	LicenseYears int    `json:"licenseYears" binding:"required,gte=1"`
}

// BookingResponse reports the hand-off outcome. Success mirrors the funnel
// backend's envelope flag; it is never claimed on the backend's behalf.
type BookingResponse struct {
	Success      bool                `json:"success"`
	BookingID    string              `json:"bookingId,omitempty"`
	Reference    string              `json:"reference"`
	Message      string              `json:"message,omitempty"`
	WhatsAppLink string              `json:"whatsAppLink,omitempty"`
	MailtoLink   string              `json:"mailtoLink,omitempty"`
	PaymentLinks *models.PaymentLinks `json:"paymentLinks,omitempty"`
}

// ReferenceResponse returns the session-scoped booking reference.
type ReferenceResponse struct {
	Reference string `json:"reference"`
}
