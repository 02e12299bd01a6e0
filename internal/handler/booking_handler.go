package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tour-booking/internal/model"
	"tour-booking/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingHandler handles booking-related HTTP requests.
type BookingHandler struct {
	service service.BookingService
	logger  zerolog.Logger
}

// NewBookingHandler creates a new booking handler.
func NewBookingHandler(service service.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger.With().Str("handler", "booking").Logger(),
	}
}

// Create handles POST /api/bookings requests.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.BookingRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	booking, err := h.service.CreateBooking(r.Context(), &req)
	if err != nil {
		// An unknown promo code on a booking is a bad request, not a missing booking.
		var de *model.DomainError
		if model.IsPromoRejection(err) && errors.As(err, &de) {
			writeError(w, http.StatusBadRequest, de.Code, de.Message, h.logger)
			return
		}
		var se *model.StorageError
		if errors.As(err, &se) {
			h.logger.Error().Err(err).Msg("promo code lookup failed during booking")
			writeError(w, http.StatusInternalServerError, model.ErrCodePromoStorage, "failed to validate promo code", h.logger)
			return
		}
		writeServiceError(w, err, "failed to create booking", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, booking)
}

// GetByID handles GET /api/bookings/{id} requests.
func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	idStr := r.PathValue("id")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "booking ID is required", h.logger)
		return
	}

	bookingID, err := uuid.Parse(idStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidField, "invalid booking ID format", h.logger)
		return
	}

	booking, err := h.service.GetByID(r.Context(), bookingID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve booking", h.logger)
		return
	}

	if booking == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeBookingNotFound, model.ErrBookingNotFound.Message, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, booking)
}
