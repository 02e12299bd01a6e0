package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tour-booking/internal/model"
	"tour-booking/internal/repository"

	"github.com/rs/zerolog"
)

const (
	defaultTourLimit = 10
	maxTourLimit     = 100
)

// tourService implements TourService.
type tourService struct {
	tourRepo repository.TourRepository
	logger   zerolog.Logger
}

// NewTourService creates a new tour service.
func NewTourService(tourRepo repository.TourRepository, logger zerolog.Logger) TourService {
	return &tourService{
		tourRepo: tourRepo,
		logger:   logger.With().Str("service", "tour").Logger(),
	}
}

// Search retrieves active tours with pagination and optional text filters.
func (s *tourService) Search(ctx context.Context, filter model.TourFilter) ([]model.Tour, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultTourLimit
	}
	if filter.Limit > maxTourLimit {
		filter.Limit = maxTourLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	filter.Query = strings.TrimSpace(filter.Query)
	filter.Location = strings.TrimSpace(filter.Location)

	tours, err := s.tourRepo.Search(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).
			Str("query", filter.Query).
			Int("limit", filter.Limit).
			Int("offset", filter.Offset).
			Msg("failed to search tours")
		return nil, fmt.Errorf("failed to get tours: %w", err)
	}

	s.logger.Debug().
		Int("count", len(tours)).
		Int("limit", filter.Limit).
		Int("offset", filter.Offset).
		Msg("retrieved tours")

	return tours, nil
}

// GetByID retrieves a single active tour by ID.
func (s *tourService) GetByID(ctx context.Context, id int64) (*model.Tour, error) {
	if id <= 0 {
		s.logger.Warn().Int64("tour_id", id).Msg("tour ID is not positive")
		return nil, model.ErrTourNotFound
	}

	tour, err := s.tourRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("tour_id", id).Msg("failed to get tour by ID")
		return nil, fmt.Errorf("failed to get tour: %w", err)
	}

	if tour == nil || !tour.IsActive {
		s.logger.Debug().Int64("tour_id", id).Msg("tour not found")
		return nil, model.ErrTourNotFound
	}

	return tour, nil
}

// Availability reports the remaining places of a tour on a date.
func (s *tourService) Availability(ctx context.Context, id int64, date string) (*model.Availability, error) {
	if date == "" {
		return nil, model.NewMissingFieldError("date is required")
	}
	day, err := time.Parse(model.TourDateLayout, date)
	if err != nil {
		return nil, model.NewInvalidFieldError("date must use the YYYY-MM-DD format")
	}

	tour, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	booked, err := s.tourRepo.BookedParticipants(ctx, tour.ID, day)
	if err != nil {
		s.logger.Error().Err(err).Int64("tour_id", id).Str("date", date).Msg("failed to get booked participants")
		return nil, fmt.Errorf("failed to get availability: %w", err)
	}

	return &model.Availability{
		TourID:          tour.ID,
		Date:            date,
		MaxParticipants: tour.MaxParticipants,
		Booked:          booked,
		Remaining:       max(tour.MaxParticipants-booked, 0),
	}, nil
}
