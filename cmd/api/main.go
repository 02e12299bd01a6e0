// Command api serves the tour booking HTTP API: tour search and
// availability, promo code validation and bookings.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"tour-booking/internal/clock"
	"tour-booking/internal/config"
	"tour-booking/internal/database"
	"tour-booking/internal/handler"
	"tour-booking/internal/promo"
	"tour-booking/internal/repository"
	"tour-booking/internal/router"
	"tour-booking/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger, "tour-booking-api")
	logger.Info().Msg("starting tour booking API server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, pool, logger); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      newHandler(pool, cfg.Auth.APIKey, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("address", server.Addr).Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case <-ctx.Done():
		stop()
		logger.Info().
			Dur("timeout", cfg.Server.ShutdownTimeout).
			Msg("shutdown signal received, draining in-flight bookings")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("graceful shutdown timed out, closing connections")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}

// newHandler wires repositories, the promo evaluator, services and handlers
// into the routed API. Promo codes are evaluated against the live table so
// usage counts are current.
func newHandler(pool *pgxpool.Pool, apiKey string, logger zerolog.Logger) http.Handler {
	tourRepo := repository.NewTourRepository(pool, logger)
	promoRepo := repository.NewPromoRepository(pool, logger)
	bookingRepo := repository.NewBookingRepository(pool, logger)

	clk := clock.NewRealClock()
	evaluator := promo.NewEvaluator(promoRepo, clk, logger)

	tourService := service.NewTourService(tourRepo, logger)
	bookingService := service.NewBookingService(bookingRepo, tourRepo, promoRepo, evaluator, clk, logger)

	return router.New(
		handler.NewTourHandler(tourService, logger),
		handler.NewPromoHandler(evaluator, logger),
		handler.NewBookingHandler(bookingService, logger),
		database.HealthCheck(pool),
		apiKey,
		logger,
	)
}
