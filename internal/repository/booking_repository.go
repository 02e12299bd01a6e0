package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tour-booking/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// bookingRepository implements the BookingRepository interface using PostgreSQL.
type bookingRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewBookingRepository creates a new PostgreSQL-backed booking repository.
func NewBookingRepository(pool *pgxpool.Pool, logger zerolog.Logger) BookingRepository {
	return &bookingRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "booking").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *bookingRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// LockBookedParticipants serialises bookings of one tour by locking its row.
func (r *bookingRepository) LockBookedParticipants(ctx context.Context, tx pgx.Tx, tourID int64, date time.Time) (int, error) {
	if _, err := tx.Exec(ctx, `SELECT id FROM tours WHERE id = $1 FOR UPDATE`, tourID); err != nil {
		r.logger.Error().Err(err).Int64("tour_id", tourID).Msg("failed to lock tour")
		return 0, fmt.Errorf("failed to lock tour: %w", err)
	}

	query := `
		SELECT COALESCE(SUM(participants), 0)
		FROM bookings
		WHERE tour_id = $1 AND tour_date = $2 AND status = $3
	`

	var booked int
	if err := tx.QueryRow(ctx, query, tourID, date, model.BookingStatusConfirmed).Scan(&booked); err != nil {
		r.logger.Error().Err(err).Int64("tour_id", tourID).Msg("failed to sum booked participants")
		return 0, fmt.Errorf("failed to sum booked participants: %w", err)
	}

	return booked, nil
}

// CreateBooking inserts a new booking within the provided transaction.
func (r *bookingRepository) CreateBooking(ctx context.Context, tx pgx.Tx, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, tour_id, customer_name, customer_email, tour_date, participants,
			subtotal, promo_code, discount_amount, total_price, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := tx.Exec(ctx, query,
		booking.ID,
		booking.TourID,
		booking.CustomerName,
		booking.CustomerEmail,
		booking.TourDate,
		booking.Participants,
		booking.Subtotal.String(),
		booking.PromoCode,
		booking.DiscountAmount.String(),
		booking.TotalPrice.String(),
		booking.Status,
		booking.CreatedAt,
	)
	if err != nil {
		r.logger.Error().
			Err(err).
			Str("booking_id", booking.ID.String()).
			Msg("failed to create booking")
		return fmt.Errorf("failed to create booking: %w", err)
	}

	r.logger.Debug().
		Str("booking_id", booking.ID.String()).
		Msg("booking created successfully")

	return nil
}

// GetByID retrieves a booking by its ID.
func (r *bookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, tour_id, customer_name, customer_email, tour_date, participants,
		       subtotal, promo_code, discount_amount, total_price, status, created_at
		FROM bookings
		WHERE id = $1
	`

	var b model.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.TourID,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.TourDate,
		&b.Participants,
		&b.Subtotal,
		&b.PromoCode,
		&b.DiscountAmount,
		&b.TotalPrice,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("booking_id", id.String()).Msg("booking not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to query booking")
		return nil, fmt.Errorf("failed to query booking: %w", err)
	}

	return &b, nil
}
