package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatusConfirmed is the status of a booking accepted by the service.
const BookingStatusConfirmed = "confirmed"

// TourDateLayout is the wire format of tour dates.
const TourDateLayout = "2006-01-02"

// Booking represents a customer's reservation on a tour date.
type Booking struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	TourID         int64           `json:"tourId" db:"tour_id"`
	CustomerName   string          `json:"customerName" db:"customer_name"`
	CustomerEmail  string          `json:"customerEmail" db:"customer_email"`
	TourDate       time.Time       `json:"tourDate" db:"tour_date"`
	Participants   int             `json:"participants" db:"participants"`
	Subtotal       decimal.Decimal `json:"subtotal" db:"subtotal"`
	PromoCode      *string         `json:"promoCode,omitempty" db:"promo_code"`
	DiscountAmount decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	TotalPrice     decimal.Decimal `json:"totalPrice" db:"total_price"`
	Status         string          `json:"status" db:"status"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

// BookingRequest represents the request payload for creating a booking.
type BookingRequest struct {
	TourID        int64   `json:"tourId"`
	TourDate      string  `json:"tourDate"`
	Participants  int     `json:"participants"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	PromoCode     *string `json:"promoCode,omitempty"`
}

// BookingResponse represents the response payload for a booking.
type BookingResponse struct {
	Booking
	Tour *Tour `json:"tour,omitempty"`
}
