package integration

import (
	"context"
	"testing"
	"time"

	"tour-booking/internal/config"
	"tour-booking/internal/database"
	"tour-booking/internal/model"
	"tour-booking/internal/repository"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestAPIKey is the key the integration router accepts.
const TestAPIKey = "test-api-key"

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool and
// applies the service schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	dbConfig := config.DatabaseConfig{
		MaxConnections:  20,
		MinConnections:  2,
		MaxConnLifetime: 300,
	}

	logger := zerolog.Nop()
	pool, err := database.NewPoolFromURL(ctx, connStr, dbConfig, logger)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := database.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedTours inserts test tours with fixed IDs 1 to 4. Tour 4 is inactive.
func SeedTours(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tours := []struct {
		id              int64
		name            string
		location        string
		price           string
		maxParticipants int
		active          bool
	}{
		{1, "Alfama Food Walk", "Lisbon", "30.00", 10, true},
		{2, "Sintra Palaces", "Sintra", "45.00", 12, true},
		{3, "Douro Wine Day", "Porto", "99.90", 5, true},
		{4, "Closed Cave Walk", "Lisbon", "10.00", 8, false},
	}

	for _, tour := range tours {
		_, err := pool.Exec(ctx,
			`INSERT INTO tours (id, name, location, description, price, duration_hours, max_participants, is_active)
			 VALUES ($1, $2, $3, $4, $5, 3, $6, $7)`,
			tour.id, tour.name, tour.location, tour.name+" description", tour.price, tour.maxParticipants, tour.active,
		)
		if err != nil {
			t.Fatalf("failed to seed tour %d: %v", tour.id, err)
		}
	}
}

// SeedPromoCodes upserts test promo codes through the repository.
func SeedPromoCodes(t *testing.T, pool *pgxpool.Pool, codes ...model.PromoCode) {
	t.Helper()

	repo := repository.NewPromoRepository(pool, zerolog.Nop())
	for i := range codes {
		if err := repo.Upsert(context.Background(), &codes[i]); err != nil {
			t.Fatalf("failed to seed promo code %s: %v", codes[i].Code, err)
		}
	}
}

// DefaultPromoCodes returns the promo codes used across the API tests.
func DefaultPromoCodes() []model.PromoCode {
	now := time.Now().UTC()
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)
	two := 2

	return []model.PromoCode{
		{
			Code:          "SUMMER20",
			DiscountType:  model.DiscountPercentage,
			DiscountValue: decimal.NewFromInt(20),
			MinPurchase:   decimal.NewNullDecimal(decimal.NewFromInt(50)),
			MaxDiscount:   decimal.NewNullDecimal(decimal.NewFromInt(30)),
			IsActive:      true,
		},
		{
			Code:            "LISBON5",
			DiscountType:    model.DiscountFixed,
			DiscountValue:   decimal.NewFromInt(5),
			IsActive:        true,
			ApplicableTours: []int64{1},
		},
		{
			Code:          "EXPIRED",
			DiscountType:  model.DiscountFixed,
			DiscountValue: decimal.NewFromInt(5),
			IsActive:      true,
			ValidUntil:    &past,
		},
		{
			Code:          "SOON",
			DiscountType:  model.DiscountFixed,
			DiscountValue: decimal.NewFromInt(5),
			IsActive:      true,
			ValidFrom:     &future,
		},
		{
			Code:          "PAUSED",
			DiscountType:  model.DiscountFixed,
			DiscountValue: decimal.NewFromInt(5),
			IsActive:      false,
		},
		{
			Code:          "TWICE",
			DiscountType:  model.DiscountFixed,
			DiscountValue: decimal.NewFromInt(10),
			IsActive:      true,
			UsageLimit:    &two,
		},
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	_, err := pool.Exec(context.Background(), "TRUNCATE bookings, promo_codes, tours RESTART IDENTITY CASCADE")
	if err != nil {
		t.Fatalf("failed to clean tables: %v", err)
	}
}

// FutureDate returns a tour date days from today in the wire format.
func FutureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format(model.TourDateLayout)
}
