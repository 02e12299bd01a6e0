package promo

import (
	"context"
	"time"

	"tour-booking/internal/clock"
	"tour-booking/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// evaluator implements Evaluator over a Store.
type evaluator struct {
	store  Store
	clock  clock.Clock
	logger zerolog.Logger
}

// NewEvaluator creates a new promo code evaluator.
func NewEvaluator(store Store, clk clock.Clock, logger zerolog.Logger) Evaluator {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &evaluator{
		store:  store,
		clock:  clk,
		logger: logger.With().Str("component", "promo-evaluator").Logger(),
	}
}

// Evaluate checks the code against ec and computes the discount.
func (e *evaluator) Evaluate(ctx context.Context, code string, ec EvaluationContext) (*model.Discount, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, model.ErrPromoMissingCode
	}

	if ec.Subtotal.IsNegative() || !WithinAmountRange(ec.Subtotal) {
		ec.Subtotal = decimal.Zero
	}

	pc, err := e.store.GetByCode(ctx, code)
	if err != nil {
		e.logger.Error().Err(err).Str("promo_code", code).Msg("promo code lookup failed")
		return nil, &model.StorageError{Op: "lookup", Err: err}
	}
	if pc == nil {
		e.logger.Debug().Str("promo_code", code).Msg("promo code not found")
		return nil, model.ErrPromoNotFound
	}

	if err := Check(pc, ec, e.clock.Now()); err != nil {
		e.logger.Debug().
			Str("promo_code", code).
			Str("subtotal", ec.Subtotal.String()).
			Err(err).
			Msg("promo code rejected")
		return nil, err
	}

	discount := Apply(pc, ec.Subtotal)

	e.logger.Debug().
		Str("promo_code", code).
		Str("discount_amount", discount.DiscountAmount.String()).
		Str("final_price", discount.FinalPrice.String()).
		Msg("promo code accepted")

	return discount, nil
}

// Check runs the eligibility rules of pc in order and returns the first
// rejection, or nil when the code may be applied at now.
func Check(pc *model.PromoCode, ec EvaluationContext, now time.Time) error {
	if !pc.IsActive {
		return model.ErrPromoInactive
	}
	if pc.ValidFrom != nil && now.Before(*pc.ValidFrom) {
		return model.ErrPromoNotYetValid
	}
	// valid_until is exclusive.
	if pc.ValidUntil != nil && !now.Before(*pc.ValidUntil) {
		return model.ErrPromoExpired
	}
	if pc.Exhausted() {
		return model.ErrPromoExhausted
	}
	if pc.MinPurchase.Valid && ec.Subtotal.LessThan(pc.MinPurchase.Decimal) {
		return model.NewBelowMinimumError(pc.MinPurchase.Decimal)
	}
	if ec.TourID != nil && !pc.AppliesToTour(*ec.TourID) {
		return model.ErrPromoNotApplicable
	}
	return nil
}

// Apply computes the discount pc grants on subtotal. It does not check
// eligibility. The final price never drops below zero.
func Apply(pc *model.PromoCode, subtotal decimal.Decimal) *model.Discount {
	var amount decimal.Decimal
	switch pc.DiscountType {
	case model.DiscountPercentage:
		amount = subtotal.Mul(pc.DiscountValue).Div(hundred)
		if pc.MaxDiscount.Valid && amount.GreaterThan(pc.MaxDiscount.Decimal) {
			amount = pc.MaxDiscount.Decimal
		}
	case model.DiscountFixed:
		amount = pc.DiscountValue
	default:
		amount = decimal.Zero
	}

	final := subtotal.Sub(amount)
	if final.IsNegative() {
		final = decimal.Zero
	}

	return &model.Discount{
		Code:           pc.Code,
		DiscountType:   pc.DiscountType,
		DiscountValue:  pc.DiscountValue,
		DiscountAmount: amount,
		FinalPrice:     final,
	}
}
