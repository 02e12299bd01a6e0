package repository

import (
	"context"
	"time"

	"tour-booking/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TourRepository defines the interface for tour data access operations.
type TourRepository interface {
	// Search retrieves active tours matching the filter, ordered by name.
	Search(ctx context.Context, filter model.TourFilter) ([]model.Tour, error)

	// GetByID retrieves a single tour by its ID. Returns nil, nil when missing.
	GetByID(ctx context.Context, id int64) (*model.Tour, error)

	// BookedParticipants sums confirmed participants of a tour on a date.
	BookedParticipants(ctx context.Context, tourID int64, date time.Time) (int, error)
}

// PromoRepository defines the interface for promo code data access operations.
type PromoRepository interface {
	// GetByCode retrieves a promo code by its normalised code.
	// Returns nil, nil when missing.
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)

	// Upsert inserts or replaces a promo code definition, keeping times_used.
	Upsert(ctx context.Context, code *model.PromoCode) error

	// IncrementUsage bumps times_used within tx unless the usage limit is
	// already reached. It reports whether a row was updated.
	IncrementUsage(ctx context.Context, tx pgx.Tx, code string) (bool, error)
}

// BookingRepository defines the interface for booking data access operations.
type BookingRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// LockBookedParticipants locks the tour row for the rest of tx and
	// returns the participants already booked on date.
	LockBookedParticipants(ctx context.Context, tx pgx.Tx, tourID int64, date time.Time) (int, error)

	// CreateBooking inserts a new booking within the provided transaction.
	CreateBooking(ctx context.Context, tx pgx.Tx, booking *model.Booking) error

	// GetByID retrieves a booking by its ID. Returns nil, nil when missing.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
}

// nullableDecimal encodes an optional amount as text so PostgreSQL parses
// it into NUMERIC without float rounding.
func nullableDecimal(d decimal.NullDecimal) *string {
	if !d.Valid {
		return nil
	}
	s := d.Decimal.String()
	return &s
}
