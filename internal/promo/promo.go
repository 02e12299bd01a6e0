// Package promo decides whether a promo code can be applied to a purchase
// and computes the resulting discount. It also loads promo code catalogues
// from gzipped JSON-lines files for import into the store.
package promo

import (
	"context"
	"strings"

	"tour-booking/internal/model"

	"github.com/shopspring/decimal"
)

// EvaluationContext is the trial purchase a code is evaluated against.
type EvaluationContext struct {
	// TourID restricts the check against the code's applicable tours.
	// Nil skips that check.
	TourID *int64

	// Subtotal is the pre-discount amount. Negative values and values above
	// MaxAmount are treated as zero.
	Subtotal decimal.Decimal
}

// Evaluator defines the interface for promo code evaluation.
type Evaluator interface {
	// Evaluate looks up code and, if every eligibility rule passes, returns
	// the discount it grants on ec.Subtotal. Rejections are *model.DomainError
	// values; lookup failures are *model.StorageError.
	Evaluate(ctx context.Context, code string, ec EvaluationContext) (*model.Discount, error)
}

// Store is a read-only point lookup of promo codes by normalised code.
// GetByCode returns nil, nil when no record matches.
type Store interface {
	GetByCode(ctx context.Context, code string) (*model.PromoCode, error)
}

// Writer persists promo code definitions.
// Upsert must keep the stored usage count of an existing code.
type Writer interface {
	Upsert(ctx context.Context, code *model.PromoCode) error
}

// Loader defines the interface for loading promo code catalogue files.
type Loader interface {
	// Load reads a gzipped JSON-lines catalogue and returns its promo codes.
	Load(ctx context.Context, path string) ([]model.PromoCode, error)
}

// NormalizeCode trims and upper-cases a user-supplied code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
