package model

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON     = "INVALID_JSON"
	ErrCodeMissingField    = "MISSING_FIELD"
	ErrCodeInvalidField    = "INVALID_FIELD"
	ErrCodeTourNotFound    = "TOUR_NOT_FOUND"
	ErrCodeTourFull        = "TOUR_FULL"
	ErrCodeBookingNotFound = "BOOKING_NOT_FOUND"
	ErrCodeUnauthorised    = "UNAUTHORIZED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternalError   = "INTERNAL_ERROR"

	ErrCodePromoMissingCode   = "PROMO_MISSING_CODE"
	ErrCodePromoNotFound      = "PROMO_NOT_FOUND"
	ErrCodePromoInactive      = "PROMO_INACTIVE"
	ErrCodePromoNotYetValid   = "PROMO_NOT_YET_VALID"
	ErrCodePromoExpired       = "PROMO_EXPIRED"
	ErrCodePromoExhausted     = "PROMO_EXHAUSTED"
	ErrCodePromoBelowMinimum  = "PROMO_BELOW_MINIMUM"
	ErrCodePromoNotApplicable = "PROMO_NOT_APPLICABLE_TO_TOUR"
	ErrCodePromoStorage       = "PROMO_STORAGE_ERROR"
)

// Domain errors for business logic
type DomainError struct {
	Code    string
	Message string

	// MinPurchase is set on below-minimum rejections.
	MinPurchase *decimal.Decimal
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError carrying the same code, so errors built with
// an interpolated message still compare equal to their sentinel.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrTourNotFound    = NewDomainError(ErrCodeTourNotFound, "Tour not found")
	ErrTourFull        = NewDomainError(ErrCodeTourFull, "Not enough places left on this tour date")
	ErrBookingNotFound = NewDomainError(ErrCodeBookingNotFound, "Booking not found")
)

// Promo code rejections, in evaluation order.
var (
	ErrPromoMissingCode   = NewDomainError(ErrCodePromoMissingCode, "Promo code is required")
	ErrPromoNotFound      = NewDomainError(ErrCodePromoNotFound, "Invalid promo code")
	ErrPromoInactive      = NewDomainError(ErrCodePromoInactive, "This promo code is no longer active")
	ErrPromoNotYetValid   = NewDomainError(ErrCodePromoNotYetValid, "This promo code is not yet valid")
	ErrPromoExpired       = NewDomainError(ErrCodePromoExpired, "This promo code has expired")
	ErrPromoExhausted     = NewDomainError(ErrCodePromoExhausted, "This promo code has reached its usage limit")
	ErrPromoBelowMinimum  = NewDomainError(ErrCodePromoBelowMinimum, "Minimum purchase not reached")
	ErrPromoNotApplicable = NewDomainError(ErrCodePromoNotApplicable, "This promo code is not valid for the selected tour")
)

// NewBelowMinimumError builds a below-minimum rejection that carries the
// required amount for display.
func NewBelowMinimumError(minPurchase decimal.Decimal) *DomainError {
	return &DomainError{
		Code:        ErrCodePromoBelowMinimum,
		Message:     fmt.Sprintf("Minimum purchase of %s required for this promo code", minPurchase.StringFixed(2)),
		MinPurchase: &minPurchase,
	}
}

// NewInvalidFieldError reports a malformed request field.
func NewInvalidFieldError(message string) *DomainError {
	return NewDomainError(ErrCodeInvalidField, message)
}

// NewMissingFieldError reports a required request field that was not sent.
func NewMissingFieldError(message string) *DomainError {
	return NewDomainError(ErrCodeMissingField, message)
}

// StorageError reports that the promo store could not be read.
// It is a fault, not a rejection.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("promo storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsPromoRejection reports whether err is one of the user-facing promo rejections.
func IsPromoRejection(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case ErrCodePromoMissingCode, ErrCodePromoNotFound, ErrCodePromoInactive,
		ErrCodePromoNotYetValid, ErrCodePromoExpired, ErrCodePromoExhausted,
		ErrCodePromoBelowMinimum, ErrCodePromoNotApplicable:
		return true
	}
	return false
}
