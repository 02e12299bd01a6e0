package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tour-booking/internal/clock"
	"tour-booking/internal/model"
	"tour-booking/internal/promo"
	"tour-booking/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// bookingService implements BookingService.
type bookingService struct {
	bookingRepo repository.BookingRepository
	tourRepo    repository.TourRepository
	promoRepo   repository.PromoRepository
	evaluator   promo.Evaluator
	clock       clock.Clock
	logger      zerolog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(
	bookingRepo repository.BookingRepository,
	tourRepo repository.TourRepository,
	promoRepo repository.PromoRepository,
	evaluator promo.Evaluator,
	clk clock.Clock,
	logger zerolog.Logger,
) BookingService {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &bookingService{
		bookingRepo: bookingRepo,
		tourRepo:    tourRepo,
		promoRepo:   promoRepo,
		evaluator:   evaluator,
		clock:       clk,
		logger:      logger.With().Str("service", "booking").Logger(),
	}
}

// CreateBooking books a tour date. The booking row and the promo usage
// increment commit together or not at all.
func (s *bookingService) CreateBooking(ctx context.Context, req *model.BookingRequest) (*model.BookingResponse, error) {
	tourDate, err := s.validateBookingRequest(req)
	if err != nil {
		return nil, err
	}

	tour, err := s.tourRepo.GetByID(ctx, req.TourID)
	if err != nil {
		s.logger.Error().Err(err).Int64("tour_id", req.TourID).Msg("failed to get tour")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if tour == nil || !tour.IsActive {
		s.logger.Warn().Int64("tour_id", req.TourID).Msg("booking requested for unknown tour")
		return nil, model.ErrTourNotFound
	}
	if req.Participants > tour.MaxParticipants {
		return nil, model.ErrTourFull
	}

	subtotal := tour.Price.Mul(decimal.NewFromInt(int64(req.Participants)))
	discountAmount := decimal.Zero
	total := subtotal

	var promoCode *string
	if req.PromoCode != nil && strings.TrimSpace(*req.PromoCode) != "" {
		discount, err := s.evaluator.Evaluate(ctx, *req.PromoCode, promo.EvaluationContext{
			TourID:   &tour.ID,
			Subtotal: subtotal,
		})
		if err != nil {
			s.logger.Warn().
				Str("promo_code", *req.PromoCode).
				Err(err).
				Msg("promo code rejected for booking")
			return nil, err
		}
		code := discount.Code
		promoCode = &code

		// Stored amounts are in cents; the response must match what is persisted.
		discountAmount = promo.RoundAmount(discount.DiscountAmount)
		total = subtotal.Sub(discountAmount)
		if total.IsNegative() {
			total = decimal.Zero
		}
	}

	tx, err := s.bookingRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	committed := false
	defer func() {
		if !committed {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	booked, err := s.bookingRepo.LockBookedParticipants(ctx, tx, tour.ID, tourDate)
	if err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	if booked+req.Participants > tour.MaxParticipants {
		s.logger.Info().
			Int64("tour_id", tour.ID).
			Str("tour_date", req.TourDate).
			Int("booked", booked).
			Int("requested", req.Participants).
			Msg("tour date is full")
		return nil, model.ErrTourFull
	}

	booking := &model.Booking{
		ID:             uuid.New(),
		TourID:         tour.ID,
		CustomerName:   strings.TrimSpace(req.CustomerName),
		CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
		TourDate:       tourDate,
		Participants:   req.Participants,
		Subtotal:       subtotal,
		PromoCode:      promoCode,
		DiscountAmount: discountAmount,
		TotalPrice:     total,
		Status:         model.BookingStatusConfirmed,
		CreatedAt:      s.clock.Now().UTC(),
	}

	if err := s.bookingRepo.CreateBooking(ctx, tx, booking); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to create booking")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if promoCode != nil {
		ok, err := s.promoRepo.IncrementUsage(ctx, tx, *promoCode)
		if err != nil {
			s.logger.Error().Err(err).Str("promo_code", *promoCode).Msg("failed to record promo usage")
			return nil, fmt.Errorf("failed to create booking: %w", err)
		}
		if !ok {
			// Another booking took the last use after evaluation.
			s.logger.Info().Str("promo_code", *promoCode).Msg("promo code exhausted during booking")
			return nil, model.ErrPromoExhausted
		}
	}

	if err := tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("booking_id", booking.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	committed = true

	s.logger.Info().
		Str("booking_id", booking.ID.String()).
		Int64("tour_id", tour.ID).
		Int("participants", booking.Participants).
		Str("total_price", booking.TotalPrice.StringFixed(2)).
		Msg("booking created successfully")

	return &model.BookingResponse{Booking: *booking, Tour: tour}, nil
}

// GetByID retrieves a booking with its tour details.
func (s *bookingService) GetByID(ctx context.Context, id uuid.UUID) (*model.BookingResponse, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to get booking")
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking == nil {
		s.logger.Debug().Str("booking_id", id.String()).Msg("booking not found")
		return nil, nil
	}

	tour, err := s.tourRepo.GetByID(ctx, booking.TourID)
	if err != nil {
		s.logger.Error().Err(err).Str("booking_id", id.String()).Msg("failed to retrieve tour details")
		return nil, fmt.Errorf("failed to retrieve tour details: %w", err)
	}

	return &model.BookingResponse{Booking: *booking, Tour: tour}, nil
}

// validateBookingRequest checks the request and returns the parsed tour date.
func (s *bookingService) validateBookingRequest(req *model.BookingRequest) (time.Time, error) {
	if req == nil {
		return time.Time{}, fmt.Errorf("booking request is nil")
	}

	if req.TourID <= 0 {
		return time.Time{}, model.NewMissingFieldError("tourId is required")
	}
	if strings.TrimSpace(req.CustomerName) == "" {
		return time.Time{}, model.NewMissingFieldError("customerName is required")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return time.Time{}, model.NewMissingFieldError("customerEmail is required")
	}
	if !strings.Contains(req.CustomerEmail, "@") {
		return time.Time{}, model.NewInvalidFieldError("customerEmail must be a valid email address")
	}
	if req.Participants <= 0 {
		s.logger.Warn().Int("participants", req.Participants).Msg("invalid participant count")
		return time.Time{}, model.NewInvalidFieldError("participants must be greater than 0")
	}
	if req.TourDate == "" {
		return time.Time{}, model.NewMissingFieldError("tourDate is required")
	}

	tourDate, err := time.Parse(model.TourDateLayout, req.TourDate)
	if err != nil {
		return time.Time{}, model.NewInvalidFieldError("tourDate must use the YYYY-MM-DD format")
	}

	now := s.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if tourDate.Before(today) {
		return time.Time{}, model.NewInvalidFieldError("tourDate cannot be in the past")
	}

	return tourDate, nil
}
