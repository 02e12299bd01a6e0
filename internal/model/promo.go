package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType is the kind of reduction a promo code grants.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// PromoCode is a discount-granting code with its eligibility rules.
// Codes are stored uppercase.
type PromoCode struct {
	ID              int64               `json:"id" db:"id"`
	Code            string              `json:"code" db:"code"`
	DiscountType    DiscountType        `json:"discountType" db:"discount_type"`
	DiscountValue   decimal.Decimal     `json:"discountValue" db:"discount_value"`
	MinPurchase     decimal.NullDecimal `json:"minPurchase" db:"min_purchase"`
	MaxDiscount     decimal.NullDecimal `json:"maxDiscount" db:"max_discount"`
	ValidFrom       *time.Time          `json:"validFrom,omitempty" db:"valid_from"`
	ValidUntil      *time.Time          `json:"validUntil,omitempty" db:"valid_until"`
	IsActive        bool                `json:"isActive" db:"is_active"`
	UsageLimit      *int                `json:"usageLimit,omitempty" db:"usage_limit"`
	TimesUsed       int                 `json:"timesUsed" db:"times_used"`
	ApplicableTours []int64             `json:"applicableTours,omitempty" db:"applicable_tours"`
	CreatedAt       time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time           `json:"updatedAt" db:"updated_at"`
}

// AppliesToTour reports whether the code may be used for the given tour.
// An empty tour list means the code applies to every tour.
func (p *PromoCode) AppliesToTour(tourID int64) bool {
	if len(p.ApplicableTours) == 0 {
		return true
	}
	for _, id := range p.ApplicableTours {
		if id == tourID {
			return true
		}
	}
	return false
}

// Exhausted reports whether the usage limit has been reached.
func (p *PromoCode) Exhausted() bool {
	return p.UsageLimit != nil && p.TimesUsed >= *p.UsageLimit
}

// Discount is the outcome of applying a promo code to a subtotal.
type Discount struct {
	Code           string          `json:"code"`
	DiscountType   DiscountType    `json:"discountType"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	FinalPrice     decimal.Decimal `json:"finalPrice"`
}

// PromoValidationResponse is the payload of the promo validation endpoint.
type PromoValidationResponse struct {
	Valid bool `json:"valid"`
	*Discount
}

// PromoRejectionResponse is returned when a promo code cannot be applied.
type PromoRejectionResponse struct {
	Valid       bool             `json:"valid"`
	Error       string           `json:"error"`
	Message     string           `json:"message"`
	MinPurchase *decimal.Decimal `json:"minPurchase,omitempty"`
}
