package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tour-booking/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const tourColumns = `id, name, location, description, price, duration_hours, max_participants, is_active, created_at`

// likeEscaper makes user input match literally inside ILIKE patterns.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// tourRepository implements the TourRepository interface using PostgreSQL.
type tourRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewTourRepository creates a new PostgreSQL-backed tour repository.
func NewTourRepository(pool *pgxpool.Pool, logger zerolog.Logger) TourRepository {
	return &tourRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "tour").Logger(),
	}
}

func scanTour(row pgx.Row, t *model.Tour) error {
	return row.Scan(
		&t.ID,
		&t.Name,
		&t.Location,
		&t.Description,
		&t.Price,
		&t.DurationHours,
		&t.MaxParticipants,
		&t.IsActive,
		&t.CreatedAt,
	)
}

// Search retrieves active tours matching the filter, ordered by name.
func (r *tourRepository) Search(ctx context.Context, filter model.TourFilter) ([]model.Tour, error) {
	query := `
		SELECT ` + tourColumns + `
		FROM tours
		WHERE is_active
		  AND ($1 = '' OR name ILIKE '%' || $1 || '%' OR location ILIKE '%' || $1 || '%')
		  AND ($2 = '' OR location ILIKE $2)
		ORDER BY name, id
		LIMIT $3 OFFSET $4
	`

	rows, err := r.pool.Query(ctx, query,
		likeEscaper.Replace(filter.Query),
		likeEscaper.Replace(filter.Location),
		filter.Limit,
		filter.Offset,
	)
	if err != nil {
		r.logger.Error().Err(err).
			Str("query", filter.Query).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to query tours")
		return nil, fmt.Errorf("failed to query tours: %w", err)
	}
	defer rows.Close()

	tours := []model.Tour{}
	for rows.Next() {
		var t model.Tour
		if err := scanTour(rows, &t); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan tour row")
			return nil, fmt.Errorf("failed to scan tour: %w", err)
		}
		tours = append(tours, t)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating tour rows")
		return nil, fmt.Errorf("error iterating tours: %w", err)
	}

	return tours, nil
}

// GetByID retrieves a single tour by its ID.
func (r *tourRepository) GetByID(ctx context.Context, id int64) (*model.Tour, error) {
	query := `SELECT ` + tourColumns + ` FROM tours WHERE id = $1`

	var t model.Tour
	err := scanTour(r.pool.QueryRow(ctx, query, id), &t)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Int64("tour_id", id).Msg("tour not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Int64("tour_id", id).Msg("failed to query tour")
		return nil, fmt.Errorf("failed to query tour: %w", err)
	}

	return &t, nil
}

// BookedParticipants sums confirmed participants of a tour on a date.
func (r *tourRepository) BookedParticipants(ctx context.Context, tourID int64, date time.Time) (int, error) {
	query := `
		SELECT COALESCE(SUM(participants), 0)
		FROM bookings
		WHERE tour_id = $1 AND tour_date = $2 AND status = $3
	`

	var booked int
	err := r.pool.QueryRow(ctx, query, tourID, date, model.BookingStatusConfirmed).Scan(&booked)
	if err != nil {
		r.logger.Error().Err(err).Int64("tour_id", tourID).Msg("failed to sum booked participants")
		return 0, fmt.Errorf("failed to sum booked participants: %w", err)
	}

	return booked, nil
}
