package handler

import (
	"errors"
	"net/http"
	"strconv"

	"tour-booking/internal/model"
	"tour-booking/internal/promo"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PromoHandler handles promo code HTTP requests.
type PromoHandler struct {
	evaluator promo.Evaluator
	logger    zerolog.Logger
}

// NewPromoHandler creates a new promo code handler.
func NewPromoHandler(evaluator promo.Evaluator, logger zerolog.Logger) *PromoHandler {
	return &PromoHandler{
		evaluator: evaluator,
		logger:    logger.With().Str("handler", "promo").Logger(),
	}
}

// Validate handles GET /api/promo-codes/validate?code=&tourId=&subtotal= requests.
func (h *PromoHandler) Validate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	ec := promo.EvaluationContext{
		TourID:   parseTourID(query.Get("tourId")),
		Subtotal: parseSubtotal(query.Get("subtotal")),
	}

	discount, err := h.evaluator.Evaluate(r.Context(), query.Get("code"), ec)
	if err != nil {
		var de *model.DomainError
		if errors.As(err, &de) {
			h.logger.Debug().Str("error_code", de.Code).Msg("promo code rejected")
			writeJSON(w, statusForCode(de.Code), model.PromoRejectionResponse{
				Valid:       false,
				Error:       de.Code,
				Message:     de.Message,
				MinPurchase: de.MinPurchase,
			})
			return
		}

		h.logger.Error().Err(err).Msg("failed to evaluate promo code")
		writeError(w, http.StatusInternalServerError, model.ErrCodePromoStorage, "failed to validate promo code", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, model.PromoValidationResponse{Valid: true, Discount: discount})
}

// parseTourID returns nil when the tour ID is absent or not a number.
func parseTourID(s string) *int64 {
	if s == "" {
		return nil
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}

// parseSubtotal returns zero when the subtotal is absent, malformed, negative
// or larger than any storable amount.
func parseSubtotal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() || !promo.WithinAmountRange(d) {
		return decimal.Zero
	}
	return d
}
