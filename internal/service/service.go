package service

import (
	"context"

	"tour-booking/internal/model"

	"github.com/google/uuid"
)

// TourService defines operations for browsing tours.
type TourService interface {
	// Search retrieves active tours with pagination and optional text filters.
	Search(ctx context.Context, filter model.TourFilter) ([]model.Tour, error)

	// GetByID retrieves a single active tour by ID.
	GetByID(ctx context.Context, id int64) (*model.Tour, error)

	// Availability reports the remaining places of a tour on a date.
	Availability(ctx context.Context, id int64, date string) (*model.Availability, error)
}

// BookingService defines operations for booking management.
type BookingService interface {
	// CreateBooking books a tour date, applying a promo code when one is given.
	CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingResponse, error)

	// GetByID retrieves a booking with its tour details.
	GetByID(ctx context.Context, id uuid.UUID) (*model.BookingResponse, error)
}
