package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// Schema creates the tables used by the service. Every statement is
// idempotent so it can run on each start.
const Schema = `
	CREATE TABLE IF NOT EXISTS tours (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		location VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		price NUMERIC(12, 2) NOT NULL CHECK (price >= 0),
		duration_hours INTEGER NOT NULL DEFAULT 1 CHECK (duration_hours > 0),
		max_participants INTEGER NOT NULL CHECK (max_participants > 0),
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS promo_codes (
		id BIGSERIAL PRIMARY KEY,
		code VARCHAR(64) NOT NULL UNIQUE CHECK (code = UPPER(code)),
		discount_type VARCHAR(16) NOT NULL CHECK (discount_type IN ('percentage', 'fixed')),
		discount_value NUMERIC(12, 2) NOT NULL CHECK (discount_value >= 0),
		min_purchase NUMERIC(12, 2),
		max_discount NUMERIC(12, 2),
		valid_from TIMESTAMPTZ,
		valid_until TIMESTAMPTZ,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		usage_limit INTEGER CHECK (usage_limit >= 0),
		times_used INTEGER NOT NULL DEFAULT 0 CHECK (times_used >= 0),
		applicable_tours BIGINT[],
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS bookings (
		id UUID PRIMARY KEY,
		tour_id BIGINT NOT NULL REFERENCES tours(id),
		customer_name VARCHAR(255) NOT NULL,
		customer_email VARCHAR(255) NOT NULL,
		tour_date DATE NOT NULL,
		participants INTEGER NOT NULL CHECK (participants > 0),
		subtotal NUMERIC(12, 2) NOT NULL,
		promo_code VARCHAR(64),
		discount_amount NUMERIC(12, 2) NOT NULL DEFAULT 0,
		total_price NUMERIC(12, 2) NOT NULL,
		status VARCHAR(32) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_tours_name ON tours(name);
	CREATE INDEX IF NOT EXISTS idx_bookings_tour_date ON bookings(tour_id, tour_date);
`

// Migrate applies Schema to the database.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) error {
	logger.Info().Msg("applying database schema")

	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	logger.Info().Msg("database schema applied")
	return nil
}
