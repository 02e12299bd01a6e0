package handler

import (
	"net/http"
	"strconv"

	"tour-booking/internal/model"
	"tour-booking/internal/service"

	"github.com/rs/zerolog"
)

// TourHandler handles tour-related HTTP requests.
type TourHandler struct {
	service service.TourService
	logger  zerolog.Logger
}

// NewTourHandler creates a new tour handler.
func NewTourHandler(service service.TourService, logger zerolog.Logger) *TourHandler {
	return &TourHandler{
		service: service,
		logger:  logger.With().Str("handler", "tour").Logger(),
	}
}

// List handles GET /api/tours requests with search and pagination.
func (h *TourHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := model.TourFilter{
		Query:    query.Get("q"),
		Location: query.Get("location"),
	}

	if limitStr := query.Get("limit"); limitStr != "" {
		limit, err := strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidField, "invalid limit parameter", h.logger)
			return
		}
		filter.Limit = limit
	}

	if offsetStr := query.Get("offset"); offsetStr != "" {
		offset, err := strconv.Atoi(offsetStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeInvalidField, "invalid offset parameter", h.logger)
			return
		}
		filter.Offset = offset
	}

	tours, err := h.service.Search(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve tours", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, tours)
}

// GetByID handles GET /api/tours/{id} requests.
func (h *TourHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tourID(w, r)
	if !ok {
		return
	}

	tour, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve tour", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, tour)
}

// Availability handles GET /api/tours/{id}/availability?date=YYYY-MM-DD requests.
func (h *TourHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, ok := h.tourID(w, r)
	if !ok {
		return
	}

	availability, err := h.service.Availability(r.Context(), id, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err, "failed to retrieve availability", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, availability)
}

func (h *TourHandler) tourID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := r.PathValue("id")
	if idStr == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "tour ID is required", h.logger)
		return 0, false
	}

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidField, "invalid tour ID format", h.logger)
		return 0, false
	}

	return id, true
}
