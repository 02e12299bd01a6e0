package repository

import (
	"context"
	"testing"
	"time"

	"tour-booking/internal/database"
	"tour-booking/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupTestDB creates a PostgreSQL testcontainer with the service schema
// applied and returns a connection pool.
func setupTestDB(t *testing.T) (*pgxpool.Pool, func()) {
	if testing.Short() {
		t.Skip("skipping container-backed repository test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)

	_, err = pool.Exec(ctx, database.Schema)
	require.NoError(t, err)

	cleanup := func() {
		pool.Close()
		_ = pgContainer.Terminate(ctx)
	}

	return pool, cleanup
}

// seedTours inserts test tours and fills in their generated IDs.
func seedTours(t *testing.T, pool *pgxpool.Pool, tours []*model.Tour) {
	ctx := context.Background()

	query := `
		INSERT INTO tours (name, location, description, price, duration_hours, max_participants, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at
	`

	for _, tour := range tours {
		err := pool.QueryRow(ctx, query,
			tour.Name,
			tour.Location,
			tour.Description,
			tour.Price.String(),
			tour.DurationHours,
			tour.MaxParticipants,
			tour.IsActive,
		).Scan(&tour.ID, &tour.CreatedAt)
		require.NoError(t, err)
	}
}

func newTestTour(name, location string, price string, maxParticipants int) *model.Tour {
	return &model.Tour{
		Name:            name,
		Location:        location,
		Description:     name + " description",
		Price:           decimal.RequireFromString(price),
		DurationHours:   3,
		MaxParticipants: maxParticipants,
		IsActive:        true,
	}
}
