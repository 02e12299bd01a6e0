package promo

import (
	"context"
	"errors"
	"testing"
	"time"

	"tour-booking/internal/clock"
	"tour-booking/internal/model"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 7, 15, 10, 0, 0, 0, time.UTC)

var cmpOpts = []cmp.Option{
	cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) }),
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func intPtr(i int) *int       { return &i }
func int64Ptr(i int64) *int64 { return &i }
func timePtr(t time.Time) *time.Time {
	return &t
}

// failingStore always fails lookups.
type failingStore struct {
	err error
}

func (s failingStore) GetByCode(context.Context, string) (*model.PromoCode, error) {
	return nil, s.err
}

func newTestEvaluator(codes ...model.PromoCode) Evaluator {
	return NewEvaluator(NewMemoryStore(codes...), clock.NewMockClock(testNow), zerolog.Nop())
}

func TestEvaluator_Evaluate_Rejections(t *testing.T) {
	base := model.PromoCode{
		Code:          "SUMMER10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: dec("10"),
		IsActive:      true,
	}

	with := func(mutate func(pc *model.PromoCode)) model.PromoCode {
		pc := base
		mutate(&pc)
		return pc
	}

	tests := []struct {
		name     string
		stored   model.PromoCode
		code     string
		ec       EvaluationContext
		expected error
	}{
		{
			name:     "Missing code",
			stored:   base,
			code:     "   ",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoMissingCode,
		},
		{
			name:     "Unknown code",
			stored:   base,
			code:     "WINTER20",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoNotFound,
		},
		{
			name:     "Inactive code",
			stored:   with(func(pc *model.PromoCode) { pc.IsActive = false }),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoInactive,
		},
		{
			name:     "Not yet valid",
			stored:   with(func(pc *model.PromoCode) { pc.ValidFrom = timePtr(testNow.Add(time.Hour)) }),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoNotYetValid,
		},
		{
			name:     "Expired while active",
			stored:   with(func(pc *model.PromoCode) { pc.ValidUntil = timePtr(testNow.Add(-time.Hour)) }),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoExpired,
		},
		{
			name:     "Expired exactly at valid_until",
			stored:   with(func(pc *model.PromoCode) { pc.ValidUntil = timePtr(testNow) }),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoExpired,
		},
		{
			name: "Usage limit reached",
			stored: with(func(pc *model.PromoCode) {
				pc.UsageLimit = intPtr(5)
				pc.TimesUsed = 5
			}),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoExhausted,
		},
		{
			name:     "Below minimum purchase",
			stored:   with(func(pc *model.PromoCode) { pc.MinPurchase = nullDec("150") }),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoBelowMinimum,
		},
		{
			name:     "Tour not in applicable set",
			stored:   with(func(pc *model.PromoCode) { pc.ApplicableTours = []int64{1, 2} }),
			code:     "SUMMER10",
			ec:       EvaluationContext{TourID: int64Ptr(3), Subtotal: dec("100")},
			expected: model.ErrPromoNotApplicable,
		},
		{
			name: "Inactive wins over expired",
			stored: with(func(pc *model.PromoCode) {
				pc.IsActive = false
				pc.ValidUntil = timePtr(testNow.Add(-time.Hour))
			}),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoInactive,
		},
		{
			name: "Exhausted wins over below minimum",
			stored: with(func(pc *model.PromoCode) {
				pc.UsageLimit = intPtr(1)
				pc.TimesUsed = 1
				pc.MinPurchase = nullDec("500")
			}),
			code:     "SUMMER10",
			ec:       EvaluationContext{Subtotal: dec("100")},
			expected: model.ErrPromoExhausted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := newTestEvaluator(tt.stored)

			discount, err := evaluator.Evaluate(context.Background(), tt.code, tt.ec)

			require.Error(t, err)
			assert.Nil(t, discount)
			assert.ErrorIs(t, err, tt.expected)
			assert.True(t, model.IsPromoRejection(err))
		})
	}
}

func TestEvaluator_Evaluate_BelowMinimumCarriesAmount(t *testing.T) {
	evaluator := newTestEvaluator(model.PromoCode{
		Code:          "BIGSPEND",
		DiscountType:  model.DiscountFixed,
		DiscountValue: dec("25"),
		MinPurchase:   nullDec("300"),
		IsActive:      true,
	})

	_, err := evaluator.Evaluate(context.Background(), "bigspend", EvaluationContext{Subtotal: dec("299.99")})

	var de *model.DomainError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, model.ErrCodePromoBelowMinimum, de.Code)
	require.NotNil(t, de.MinPurchase)
	assert.True(t, dec("300").Equal(*de.MinPurchase))
	assert.Contains(t, de.Message, "300.00")
}

func TestEvaluator_Evaluate_Discounts(t *testing.T) {
	tests := []struct {
		name           string
		stored         model.PromoCode
		code           string
		ec             EvaluationContext
		expectedAmount string
		expectedFinal  string
	}{
		{
			name: "Percentage without cap",
			stored: model.PromoCode{
				Code: "SUMMER10", DiscountType: model.DiscountPercentage,
				DiscountValue: dec("10"), IsActive: true,
			},
			code:           "SUMMER10",
			ec:             EvaluationContext{Subtotal: dec("200")},
			expectedAmount: "20",
			expectedFinal:  "180",
		},
		{
			name: "Lowercase input is normalised",
			stored: model.PromoCode{
				Code: "SUMMER10", DiscountType: model.DiscountPercentage,
				DiscountValue: dec("10"), IsActive: true,
			},
			code:           "  summer10 ",
			ec:             EvaluationContext{Subtotal: dec("200")},
			expectedAmount: "20",
			expectedFinal:  "180",
		},
		{
			name: "Percentage clamped to max discount",
			stored: model.PromoCode{
				Code: "HALFOFF", DiscountType: model.DiscountPercentage,
				DiscountValue: dec("50"), MaxDiscount: nullDec("20"), IsActive: true,
			},
			code:           "HALFOFF",
			ec:             EvaluationContext{Subtotal: dec("1000")},
			expectedAmount: "20",
			expectedFinal:  "980",
		},
		{
			name: "Percentage under cap is not clamped",
			stored: model.PromoCode{
				Code: "HALFOFF", DiscountType: model.DiscountPercentage,
				DiscountValue: dec("50"), MaxDiscount: nullDec("20"), IsActive: true,
			},
			code:           "HALFOFF",
			ec:             EvaluationContext{Subtotal: dec("30")},
			expectedAmount: "15",
			expectedFinal:  "15",
		},
		{
			name: "Fixed ignores max discount",
			stored: model.PromoCode{
				Code: "FLAT50", DiscountType: model.DiscountFixed,
				DiscountValue: dec("50"), MaxDiscount: nullDec("10"), IsActive: true,
			},
			code:           "FLAT50",
			ec:             EvaluationContext{Subtotal: dec("200")},
			expectedAmount: "50",
			expectedFinal:  "150",
		},
		{
			name: "Fixed larger than subtotal clamps final price to zero",
			stored: model.PromoCode{
				Code: "FLAT50", DiscountType: model.DiscountFixed,
				DiscountValue: dec("50"), IsActive: true,
			},
			code:           "FLAT50",
			ec:             EvaluationContext{Subtotal: dec("20")},
			expectedAmount: "50",
			expectedFinal:  "0",
		},
		{
			name: "Omitted tour bypasses tour restriction",
			stored: model.PromoCode{
				Code: "TOURS12", DiscountType: model.DiscountFixed,
				DiscountValue: dec("5"), ApplicableTours: []int64{1, 2}, IsActive: true,
			},
			code:           "TOURS12",
			ec:             EvaluationContext{Subtotal: dec("100")},
			expectedAmount: "5",
			expectedFinal:  "95",
		},
		{
			name: "Tour in applicable set",
			stored: model.PromoCode{
				Code: "TOURS12", DiscountType: model.DiscountFixed,
				DiscountValue: dec("5"), ApplicableTours: []int64{1, 2}, IsActive: true,
			},
			code:           "TOURS12",
			ec:             EvaluationContext{TourID: int64Ptr(2), Subtotal: dec("100")},
			expectedAmount: "5",
			expectedFinal:  "95",
		},
		{
			name: "Minimum purchase met exactly",
			stored: model.PromoCode{
				Code: "MIN100", DiscountType: model.DiscountPercentage,
				DiscountValue: dec("15"), MinPurchase: nullDec("100"), IsActive: true,
			},
			code:           "MIN100",
			ec:             EvaluationContext{Subtotal: dec("100")},
			expectedAmount: "15",
			expectedFinal:  "85",
		},
		{
			name: "Usage below limit",
			stored: model.PromoCode{
				Code: "LIMITED", DiscountType: model.DiscountFixed, DiscountValue: dec("10"),
				UsageLimit: intPtr(3), TimesUsed: 2, IsActive: true,
			},
			code:           "LIMITED",
			ec:             EvaluationContext{Subtotal: dec("40")},
			expectedAmount: "10",
			expectedFinal:  "30",
		},
		{
			name: "Inside validity window",
			stored: model.PromoCode{
				Code: "WINDOW", DiscountType: model.DiscountFixed, DiscountValue: dec("10"),
				ValidFrom: timePtr(testNow), ValidUntil: timePtr(testNow.Add(time.Second)), IsActive: true,
			},
			code:           "WINDOW",
			ec:             EvaluationContext{Subtotal: dec("40")},
			expectedAmount: "10",
			expectedFinal:  "30",
		},
		{
			name: "Negative subtotal treated as zero",
			stored: model.PromoCode{
				Code: "SUMMER10", DiscountType: model.DiscountPercentage,
				DiscountValue: dec("10"), IsActive: true,
			},
			code:           "SUMMER10",
			ec:             EvaluationContext{Subtotal: dec("-50")},
			expectedAmount: "0",
			expectedFinal:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := newTestEvaluator(tt.stored)

			discount, err := evaluator.Evaluate(context.Background(), tt.code, tt.ec)

			require.NoError(t, err)
			require.NotNil(t, discount)

			expected := &model.Discount{
				Code:           tt.stored.Code,
				DiscountType:   tt.stored.DiscountType,
				DiscountValue:  tt.stored.DiscountValue,
				DiscountAmount: dec(tt.expectedAmount),
				FinalPrice:     dec(tt.expectedFinal),
			}
			if diff := cmp.Diff(expected, discount, cmpOpts...); diff != "" {
				t.Errorf("Discount mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestApply_PercentageIsExact(t *testing.T) {
	pc := &model.PromoCode{Code: "P", DiscountType: model.DiscountPercentage, DiscountValue: dec("12.5")}

	for _, subtotal := range []string{"0", "0.01", "1", "19.99", "200", "1234.56", "99999.99"} {
		s := dec(subtotal)
		d := Apply(pc, s)

		expected := s.Mul(dec("12.5")).Div(dec("100"))
		assert.True(t, expected.Equal(d.DiscountAmount), "subtotal %s", subtotal)
		assert.False(t, d.FinalPrice.IsNegative(), "subtotal %s", subtotal)
	}
}

func TestApply_FinalPriceNeverNegative(t *testing.T) {
	for _, value := range []string{"0", "1", "50", "1000000"} {
		pc := &model.PromoCode{Code: "F", DiscountType: model.DiscountFixed, DiscountValue: dec(value)}
		for _, subtotal := range []string{"0", "0.5", "49.99", "50", "1000"} {
			d := Apply(pc, dec(subtotal))
			assert.False(t, d.FinalPrice.IsNegative(), "value %s subtotal %s", value, subtotal)
		}
	}
}

func TestEvaluator_Evaluate_StorageError(t *testing.T) {
	cause := errors.New("connection refused")
	evaluator := NewEvaluator(failingStore{err: cause}, clock.NewMockClock(testNow), zerolog.Nop())

	discount, err := evaluator.Evaluate(context.Background(), "SUMMER10", EvaluationContext{Subtotal: dec("100")})

	require.Error(t, err)
	assert.Nil(t, discount)

	var storageErr *model.StorageError
	require.ErrorAs(t, err, &storageErr)
	assert.ErrorIs(t, err, cause)
	assert.False(t, model.IsPromoRejection(err))
}

func TestEvaluator_Evaluate_DoesNotMutateUsage(t *testing.T) {
	store := NewMemoryStore(
		model.PromoCode{
			Code: "LIMITED", DiscountType: model.DiscountFixed, DiscountValue: dec("10"),
			UsageLimit: intPtr(1), TimesUsed: 0, IsActive: true,
		},
	)
	evaluator := NewEvaluator(store, clock.NewMockClock(testNow), zerolog.Nop())

	for i := 0; i < 3; i++ {
		_, err := evaluator.Evaluate(context.Background(), "LIMITED", EvaluationContext{Subtotal: dec("40")})
		require.NoError(t, err)
	}

	pc, err := store.GetByCode(context.Background(), "LIMITED")
	require.NoError(t, err)
	assert.Equal(t, 0, pc.TimesUsed)
}

func TestEvaluator_Evaluate_OutOfRangeSubtotalIsTreatedAsZero(t *testing.T) {
	huge := decimal.New(1, 2147483640)

	evaluator := newTestEvaluator(
		model.PromoCode{
			Code: "SUMMER10", DiscountType: model.DiscountPercentage,
			DiscountValue: dec("10"), IsActive: true,
		},
		model.PromoCode{
			Code: "MIN100", DiscountType: model.DiscountPercentage,
			DiscountValue: dec("15"), MinPurchase: nullDec("100"), IsActive: true,
		},
	)

	discount, err := evaluator.Evaluate(context.Background(), "SUMMER10", EvaluationContext{Subtotal: huge})
	require.NoError(t, err)
	assert.True(t, discount.DiscountAmount.IsZero())
	assert.True(t, discount.FinalPrice.IsZero())

	_, err = evaluator.Evaluate(context.Background(), "MIN100", EvaluationContext{Subtotal: huge})
	assert.ErrorIs(t, err, model.ErrPromoBelowMinimum)
}
