package promo

import "github.com/shopspring/decimal"

const (
	// Money columns are NUMERIC(12,2): ten integer digits, two decimals.
	amountIntegerDigits = 10
	amountScale         = 2

	// Finer fractions than this are not a price; they also keep rescaling cheap.
	maxAmountFractionDigits = 32
)

// MaxAmount is the largest amount a money column can hold.
var MaxAmount = decimal.RequireFromString("9999999999.99")

// WithinAmountRange reports whether |d| <= MaxAmount. It looks at the
// exponent before doing any arithmetic, so inputs like 1e2147483640 are
// rejected without being expanded.
func WithinAmountRange(d decimal.Decimal) bool {
	exp := int64(d.Exponent())
	if exp < -maxAmountFractionDigits {
		return false
	}
	if int64(d.NumDigits())+exp > amountIntegerDigits {
		return false
	}
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// StorableAmount reports whether d fits a money column unchanged: within
// MaxAmount and with at most two decimals.
func StorableAmount(d decimal.Decimal) bool {
	return WithinAmountRange(d) && d.Equal(d.Round(amountScale))
}

// RoundAmount rounds d to cents, half away from zero like NUMERIC(12,2).
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(amountScale)
}
