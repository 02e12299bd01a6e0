package repository

import (
	"context"
	"errors"
	"fmt"

	"tour-booking/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// promoRepository implements the PromoRepository interface using PostgreSQL.
type promoRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewPromoRepository creates a new PostgreSQL-backed promo code repository.
func NewPromoRepository(pool *pgxpool.Pool, logger zerolog.Logger) PromoRepository {
	return &promoRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "promo").Logger(),
	}
}

// GetByCode retrieves a promo code by its normalised code.
func (r *promoRepository) GetByCode(ctx context.Context, code string) (*model.PromoCode, error) {
	query := `
		SELECT id, code, discount_type, discount_value, min_purchase, max_discount,
		       valid_from, valid_until, is_active, usage_limit, times_used,
		       applicable_tours, created_at, updated_at
		FROM promo_codes
		WHERE code = $1
	`

	var pc model.PromoCode
	err := r.pool.QueryRow(ctx, query, code).Scan(
		&pc.ID,
		&pc.Code,
		&pc.DiscountType,
		&pc.DiscountValue,
		&pc.MinPurchase,
		&pc.MaxDiscount,
		&pc.ValidFrom,
		&pc.ValidUntil,
		&pc.IsActive,
		&pc.UsageLimit,
		&pc.TimesUsed,
		&pc.ApplicableTours,
		&pc.CreatedAt,
		&pc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("promo_code", code).Msg("promo code not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("promo_code", code).Msg("failed to query promo code")
		return nil, fmt.Errorf("failed to query promo code: %w", err)
	}

	return &pc, nil
}

// Upsert inserts or replaces a promo code definition. times_used is never
// overwritten; ID, TimesUsed and timestamps are read back into code.
func (r *promoRepository) Upsert(ctx context.Context, code *model.PromoCode) error {
	query := `
		INSERT INTO promo_codes (
			code, discount_type, discount_value, min_purchase, max_discount,
			valid_from, valid_until, is_active, usage_limit, applicable_tours
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (code) DO UPDATE SET
			discount_type = EXCLUDED.discount_type,
			discount_value = EXCLUDED.discount_value,
			min_purchase = EXCLUDED.min_purchase,
			max_discount = EXCLUDED.max_discount,
			valid_from = EXCLUDED.valid_from,
			valid_until = EXCLUDED.valid_until,
			is_active = EXCLUDED.is_active,
			usage_limit = EXCLUDED.usage_limit,
			applicable_tours = EXCLUDED.applicable_tours,
			updated_at = NOW()
		RETURNING id, times_used, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		code.Code,
		string(code.DiscountType),
		code.DiscountValue.String(),
		nullableDecimal(code.MinPurchase),
		nullableDecimal(code.MaxDiscount),
		code.ValidFrom,
		code.ValidUntil,
		code.IsActive,
		code.UsageLimit,
		code.ApplicableTours,
	).Scan(&code.ID, &code.TimesUsed, &code.CreatedAt, &code.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("promo_code", code.Code).Msg("failed to upsert promo code")
		return fmt.Errorf("failed to upsert promo code: %w", err)
	}

	r.logger.Debug().
		Str("promo_code", code.Code).
		Int64("promo_id", code.ID).
		Msg("promo code upserted")

	return nil
}

// IncrementUsage bumps times_used within tx unless the limit is reached.
func (r *promoRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, code string) (bool, error) {
	query := `
		UPDATE promo_codes
		SET times_used = times_used + 1, updated_at = NOW()
		WHERE code = $1 AND (usage_limit IS NULL OR times_used < usage_limit)
	`

	tag, err := tx.Exec(ctx, query, code)
	if err != nil {
		r.logger.Error().Err(err).Str("promo_code", code).Msg("failed to increment promo usage")
		return false, fmt.Errorf("failed to increment promo usage: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}
