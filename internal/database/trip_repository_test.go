package database

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripGetByID(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Found", func(t *testing.T) {
		tripID := uuid.New()
		departure := time.Now().Add(24 * time.Hour)

		mock.ExpectQuery("SELECT (.+) FROM trips").
			WithArgs(tripID).
			WillReturnRows(sqlmock.NewRows([]string{
				"id", "departure_station_id", "arrival_station_id", "departure_at", "arrival_at",
				"base_price", "train_id", "seats_remaining", "created_at",
			}).AddRow(tripID, uuid.New(), uuid.New(), departure, departure.Add(2*time.Hour),
				69.0, uuid.New(), 120, time.Now()))

		trip, err := repo.GetByID(tripID)
		require.NoError(t, err)
		assert.Equal(t, tripID, trip.ID)
		assert.Equal(t, 69.0, trip.BasePrice)
		assert.False(t, trip.IsPastDeparture())

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		tripID := uuid.New()

		mock.ExpectQuery("SELECT (.+) FROM trips").
			WithArgs(tripID).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(tripID)
		assert.ErrorIs(t, err, models.ErrTripNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestSearchTrips(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	fromID := uuid.New()
	toID := uuid.New()
	windowStart := time.Date(2026, time.September, 1, 0, 0, 0, 0, time.UTC)
	windowEnd := windowStart.AddDate(0, 0, 1)

	mock.ExpectQuery("SELECT (.+) FROM trips t").
		WithArgs(fromID, toID, windowStart, windowEnd).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "departure_station_id", "arrival_station_id", "departure_at", "arrival_at",
			"base_price", "train_id", "seats_remaining", "created_at",
			"departure_station", "arrival_station",
		}).AddRow(uuid.New(), fromID, toID, windowStart.Add(7*time.Hour), windowStart.Add(9*time.Hour),
			69.0, uuid.New(), 80, time.Now(), "Paris Gare de Lyon", "Lyon Part-Dieu"))

	trips, err := repo.SearchTrips(fromID, toID, windowStart, windowEnd)
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "Paris Gare de Lyon", trips[0].DepartureStation)
	assert.Equal(t, "Lyon Part-Dieu", trips[0].ArrivalStation)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecomputeSeatsRemaining(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewTripRepository(db)

	t.Run("Updates the counter", func(t *testing.T) {
		tripID := uuid.New()

		mock.ExpectExec("UPDATE trips").
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.RecomputeSeatsRemaining(db, tripID)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown trip", func(t *testing.T) {
		tripID := uuid.New()

		mock.ExpectExec("UPDATE trips").
			WithArgs(tripID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.RecomputeSeatsRemaining(db, tripID)
		assert.ErrorIs(t, err, models.ErrTripNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
