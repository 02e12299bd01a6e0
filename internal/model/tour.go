package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tour represents a bookable tour in the catalogue.
type Tour struct {
	ID              int64           `json:"id" db:"id"`
	Name            string          `json:"name" db:"name"`
	Location        string          `json:"location" db:"location"`
	Description     string          `json:"description" db:"description"`
	Price           decimal.Decimal `json:"price" db:"price"`
	DurationHours   int             `json:"durationHours" db:"duration_hours"`
	MaxParticipants int             `json:"maxParticipants" db:"max_participants"`
	IsActive        bool            `json:"isActive" db:"is_active"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

// TourFilter narrows a tour listing.
type TourFilter struct {
	Query    string
	Location string
	Limit    int
	Offset   int
}

// Availability reports remaining capacity of a tour on a given date.
type Availability struct {
	TourID          int64  `json:"tourId"`
	Date            string `json:"date"`
	MaxParticipants int    `json:"maxParticipants"`
	Booked          int    `json:"booked"`
	Remaining       int    `json:"remaining"`
}
