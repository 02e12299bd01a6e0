package router

import (
	"context"
	"net/http"

	"tour-booking/internal/handler"
	"tour-booking/internal/middleware"

	"github.com/rs/zerolog"
)

// HealthCheck reports whether the service's dependencies are reachable.
type HealthCheck func(ctx context.Context) error

// New creates a new HTTP router with all routes and middleware configured.
// A nil health check always reports healthy.
func New(
	tourHandler *handler.TourHandler,
	promoHandler *handler.PromoHandler,
	bookingHandler *handler.BookingHandler,
	health HealthCheck,
	apiKey string,
	logger zerolog.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// No authentication on the health check.
	mux.HandleFunc("GET /health", healthHandler(health, logger))

	// Tours
	mux.HandleFunc("GET /api/tours", tourHandler.List)
	mux.HandleFunc("GET /api/tours/{id}", tourHandler.GetByID)
	mux.HandleFunc("GET /api/tours/{id}/availability", tourHandler.Availability)

	// Promo codes
	mux.HandleFunc("GET /api/promo-codes/validate", promoHandler.Validate)

	// Bookings
	mux.HandleFunc("POST /api/bookings", bookingHandler.Create)
	mux.HandleFunc("GET /api/bookings/{id}", bookingHandler.GetByID)

	// Apply middleware in order: Recovery -> Logging -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(apiKey, logger)(handler)
	handler = middleware.CORS(handler)
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}

func healthHandler(health HealthCheck, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if health != nil {
			if err := health(r.Context()); err != nil {
				logger.Error().Err(err).Msg("health check failed")
				w.WriteHeader(http.StatusServiceUnavailable)
				w.Write([]byte(`{"status": "unhealthy"}`))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy"}`))
	}
}
