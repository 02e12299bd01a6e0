package repository

import (
	"context"
	"testing"
	"time"

	"tour-booking/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_BeginTx(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookingRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)

	require.NoError(t, err)
	require.NotNil(t, tx)

	err = tx.Rollback(ctx)
	assert.NoError(t, err)
}

func TestBookingRepository_CreateAndGetByID(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookingRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tour := newTestTour("Sintra Palaces", "Sintra", "45.00", 12)
	seedTours(t, pool, []*model.Tour{tour})

	promo := "SUMMER20"
	date := time.Date(2030, 7, 14, 0, 0, 0, 0, time.UTC)
	booking := &model.Booking{
		ID:             uuid.New(),
		TourID:         tour.ID,
		CustomerName:   "Ana Silva",
		CustomerEmail:  "ana@example.com",
		TourDate:       date,
		Participants:   2,
		Subtotal:       decimal.RequireFromString("90.00"),
		PromoCode:      &promo,
		DiscountAmount: decimal.RequireFromString("18.00"),
		TotalPrice:     decimal.RequireFromString("72.00"),
		Status:         model.BookingStatusConfirmed,
		CreatedAt:      time.Now().UTC(),
	}

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBooking(ctx, tx, booking))
	require.NoError(t, tx.Commit(ctx))

	t.Run("Existing booking", func(t *testing.T) {
		got, err := repo.GetByID(ctx, booking.ID)

		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, booking.ID, got.ID)
		assert.Equal(t, tour.ID, got.TourID)
		assert.Equal(t, "Ana Silva", got.CustomerName)
		assert.Equal(t, "ana@example.com", got.CustomerEmail)
		assert.Equal(t, "2030-07-14", got.TourDate.Format(model.TourDateLayout))
		assert.Equal(t, 2, got.Participants)
		assert.True(t, booking.Subtotal.Equal(got.Subtotal))
		require.NotNil(t, got.PromoCode)
		assert.Equal(t, promo, *got.PromoCode)
		assert.True(t, booking.DiscountAmount.Equal(got.DiscountAmount))
		assert.True(t, booking.TotalPrice.Equal(got.TotalPrice))
		assert.Equal(t, model.BookingStatusConfirmed, got.Status)
	})

	t.Run("Missing booking", func(t *testing.T) {
		got, err := repo.GetByID(ctx, uuid.New())

		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestBookingRepository_CreateBooking_UnknownTour(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookingRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	err = repo.CreateBooking(ctx, tx, newTestBooking(999, time.Now(), 1))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create booking")
}

func TestBookingRepository_TransactionRollback(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookingRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tour := newTestTour("Alfama Food Walk", "Lisbon", "30.00", 10)
	seedTours(t, pool, []*model.Tour{tour})

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)

	booking := newTestBooking(tour.ID, time.Date(2030, 7, 14, 0, 0, 0, 0, time.UTC), 2)
	require.NoError(t, repo.CreateBooking(ctx, tx, booking))
	require.NoError(t, tx.Rollback(ctx))

	got, err := repo.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestBookingRepository_LockBookedParticipants(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookingRepository(pool, zerolog.Nop())
	ctx := context.Background()

	tour := newTestTour("Alfama Food Walk", "Lisbon", "30.00", 10)
	seedTours(t, pool, []*model.Tour{tour})

	date := time.Date(2030, 7, 14, 0, 0, 0, 0, time.UTC)

	tx, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	require.NoError(t, repo.CreateBooking(ctx, tx, newTestBooking(tour.ID, date, 4)))
	require.NoError(t, tx.Commit(ctx))

	first, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	booked, err := repo.LockBookedParticipants(ctx, first, tour.ID, date)
	require.NoError(t, err)
	assert.Equal(t, 4, booked)

	// A second transaction must wait until the first one releases the row.
	second, err := repo.BeginTx(ctx)
	require.NoError(t, err)
	defer func() { _ = second.Rollback(ctx) }()

	done := make(chan int, 1)
	go func() {
		n, err := repo.LockBookedParticipants(ctx, second, tour.ID, date)
		if err != nil {
			n = -1
		}
		done <- n
	}()

	select {
	case <-done:
		t.Fatal("second lock acquired while first transaction held it")
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, repo.CreateBooking(ctx, first, newTestBooking(tour.ID, date, 3)))
	require.NoError(t, first.Commit(ctx))

	select {
	case n := <-done:
		assert.Equal(t, 7, n)
	case <-time.After(10 * time.Second):
		t.Fatal("second lock was never acquired")
	}
}

func TestBookingRepository_ErrorPaths(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	repo := NewBookingRepository(pool, zerolog.Nop())
	ctx := context.Background()

	pool.Close()

	t.Run("BeginTx with closed pool", func(t *testing.T) {
		tx, err := repo.BeginTx(ctx)

		require.Error(t, err)
		assert.Nil(t, tx)
	})

	t.Run("GetByID with closed pool", func(t *testing.T) {
		booking, err := repo.GetByID(ctx, uuid.New())

		require.Error(t, err)
		assert.Nil(t, booking)
	})
}
