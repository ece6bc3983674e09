package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/booking-backend/internal/models"
)

// TripRepository handles trip database operations, including the derived
// seats_remaining counter
type TripRepository struct {
	db *sqlx.DB
}

// NewTripRepository creates a new TripRepository
func NewTripRepository(db *sqlx.DB) *TripRepository {
	return &TripRepository{db: db}
}

// GetByID returns a trip by ID
func (r *TripRepository) GetByID(id uuid.UUID) (*models.Trip, error) {
	query := `
		SELECT id, departure_station_id, arrival_station_id, departure_at, arrival_at,
		       base_price, train_id, seats_remaining, created_at
		FROM trips
		WHERE id = $1
	`

	var trip models.Trip
	err := r.db.Get(&trip, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to fetch trip: %w", err)
	}

	return &trip, nil
}

// SearchTrips returns trips between two stations departing within [from, to),
// ordered by departure time
func (r *TripRepository) SearchTrips(fromStationID, toStationID uuid.UUID, from, to time.Time) ([]models.TripSearchResult, error) {
	query := `
		SELECT t.id, t.departure_station_id, t.arrival_station_id, t.departure_at, t.arrival_at,
		       t.base_price, t.train_id, t.seats_remaining, t.created_at,
		       ds.name AS departure_station, ars.name AS arrival_station
		FROM trips t
		JOIN stations ds ON t.departure_station_id = ds.id
		JOIN stations ars ON t.arrival_station_id = ars.id
		WHERE t.departure_station_id = $1
		  AND t.arrival_station_id = $2
		  AND t.departure_at >= $3
		  AND t.departure_at < $4
		ORDER BY t.departure_at
	`

	var trips []models.TripSearchResult
	if err := r.db.Select(&trips, query, fromStationID, toStationID, from, to); err != nil {
		return nil, fmt.Errorf("failed to search trips: %w", err)
	}

	return trips, nil
}

// RecomputeSeatsRemaining refreshes a trip's derived counter from source
// facts: total seats of the train minus the current reservation count. It is
// always a full recompute, never an in-place increment, so missed events
// cannot make the counter drift. The ext parameter lets the caller run it
// inside the same transaction as the reservation write it reacts to.
func (r *TripRepository) RecomputeSeatsRemaining(ext sqlx.Ext, tripID uuid.UUID) error {
	query := `
		UPDATE trips
		SET seats_remaining = (
			SELECT COUNT(*)
			FROM seats s
			JOIN cars c ON s.car_id = c.id
			WHERE c.train_id = trips.train_id
		) - (
			SELECT COUNT(*)
			FROM reservations res
			WHERE res.trip_id = trips.id
		)
		WHERE id = $1
	`

	result, err := ext.Exec(query, tripID)
	if err != nil {
		return fmt.Errorf("failed to recompute seats remaining: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return models.ErrTripNotFound
	}

	return nil
}
