package promo

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"tour-booking/internal/model"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// catalogueEntry is one line of a promo catalogue file.
type catalogueEntry struct {
	Code            string              `json:"code"`
	DiscountType    model.DiscountType  `json:"discount_type"`
	DiscountValue   decimal.Decimal     `json:"discount_value"`
	MinPurchase     decimal.NullDecimal `json:"min_purchase"`
	MaxDiscount     decimal.NullDecimal `json:"max_discount"`
	ValidFrom       *time.Time          `json:"valid_from"`
	ValidUntil      *time.Time          `json:"valid_until"`
	IsActive        *bool               `json:"is_active"`
	UsageLimit      *int                `json:"usage_limit"`
	ApplicableTours []int64             `json:"applicable_tours"`
}

// toPromoCode validates the entry and converts it. Codes default to active.
func (e catalogueEntry) toPromoCode() (model.PromoCode, error) {
	code := NormalizeCode(e.Code)
	if code == "" {
		return model.PromoCode{}, fmt.Errorf("code is required")
	}
	if !e.DiscountType.Valid() {
		return model.PromoCode{}, fmt.Errorf("code %s: unknown discount type %q", code, e.DiscountType)
	}
	if e.DiscountValue.IsNegative() {
		return model.PromoCode{}, fmt.Errorf("code %s: discount value cannot be negative", code)
	}
	if err := checkStorable(code, "discount_value", e.DiscountValue); err != nil {
		return model.PromoCode{}, err
	}
	if e.MinPurchase.Valid {
		if err := checkStorable(code, "min_purchase", e.MinPurchase.Decimal); err != nil {
			return model.PromoCode{}, err
		}
	}
	if e.MaxDiscount.Valid {
		if err := checkStorable(code, "max_discount", e.MaxDiscount.Decimal); err != nil {
			return model.PromoCode{}, err
		}
	}
	if e.DiscountType == model.DiscountPercentage && e.DiscountValue.GreaterThan(hundred) {
		return model.PromoCode{}, fmt.Errorf("code %s: percentage discount cannot exceed 100", code)
	}
	if e.UsageLimit != nil && *e.UsageLimit < 0 {
		return model.PromoCode{}, fmt.Errorf("code %s: usage limit cannot be negative", code)
	}
	if e.ValidFrom != nil && e.ValidUntil != nil && !e.ValidFrom.Before(*e.ValidUntil) {
		return model.PromoCode{}, fmt.Errorf("code %s: valid_from must precede valid_until", code)
	}

	active := true
	if e.IsActive != nil {
		active = *e.IsActive
	}

	maxDiscount := e.MaxDiscount
	if e.DiscountType == model.DiscountFixed {
		maxDiscount = decimal.NullDecimal{}
	}

	return model.PromoCode{
		Code:            code,
		DiscountType:    e.DiscountType,
		DiscountValue:   e.DiscountValue,
		MinPurchase:     e.MinPurchase,
		MaxDiscount:     maxDiscount,
		ValidFrom:       e.ValidFrom,
		ValidUntil:      e.ValidUntil,
		IsActive:        active,
		UsageLimit:      e.UsageLimit,
		ApplicableTours: e.ApplicableTours,
	}, nil
}

func checkStorable(code, field string, d decimal.Decimal) error {
	if !StorableAmount(d) {
		return fmt.Errorf("code %s: %s must have at most two decimals and not exceed %s",
			code, field, MaxAmount.StringFixed(2))
	}
	return nil
}

// readCatalogue decodes a gzipped JSON-lines stream. Blank lines are skipped.
func readCatalogue(ctx context.Context, r io.Reader, source string) ([]model.PromoCode, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", source, err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var codes []model.PromoCode
	lineNo := 0
	for scanner.Scan() {
		lineNo++

		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		var entry catalogueEntry
		if err := json.Unmarshal(line, &entry); err != nil {
			return nil, fmt.Errorf("%s line %d: invalid JSON: %w", source, lineNo, err)
		}

		pc, err := entry.toPromoCode()
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", source, lineNo, err)
		}
		codes = append(codes, pc)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading catalogue %s: %w", source, err)
	}

	return codes, nil
}

// fileLoader implements Loader for catalogue files on local disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based catalogue loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "promo-loader").Logger(),
	}
}

// Load reads a gzipped catalogue file from disk.
func (l *fileLoader) Load(ctx context.Context, path string) ([]model.PromoCode, error) {
	l.logger.Info().Str("file", path).Msg("loading promo catalogue")

	file, err := os.Open(path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to open promo catalogue")
		return nil, fmt.Errorf("failed to open promo catalogue %s: %w", path, err)
	}
	defer file.Close()

	codes, err := readCatalogue(ctx, file, path)
	if err != nil {
		l.logger.Error().Err(err).Str("file", path).Msg("failed to read promo catalogue")
		return nil, err
	}

	l.logger.Info().
		Str("file", path).
		Int("codes_loaded", len(codes)).
		Msg("promo catalogue loaded successfully")

	return codes, nil
}
