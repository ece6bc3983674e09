package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Trip is a scheduled train journey between two stations at fixed times.
// SeatsRemaining is a derived counter, recomputed from the reservation count
// on every reservation create/delete; it is never authoritative.
type Trip struct {
	ID                 uuid.UUID `json:"id" db:"id"`
	DepartureStationID uuid.UUID `json:"departure_station_id" db:"departure_station_id"`
	ArrivalStationID   uuid.UUID `json:"arrival_station_id" db:"arrival_station_id"`
	DepartureAt        time.Time `json:"departure_at" db:"departure_at"`
	ArrivalAt          time.Time `json:"arrival_at" db:"arrival_at"`
	BasePrice          float64   `json:"base_price" db:"base_price"`
	TrainID            uuid.UUID `json:"train_id" db:"train_id"`
	SeatsRemaining     int       `json:"seats_remaining" db:"seats_remaining"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`
}

// IsPastDeparture reports whether the trip has already departed
func (t *Trip) IsPastDeparture() bool {
	return t.DepartureAt.Before(time.Now())
}

// SearchTripsRequest carries the parameters of a trip search
type SearchTripsRequest struct {
	From         string `form:"from" binding:"required"`
	To           string `form:"to" binding:"required"`
	Date         string `form:"date" binding:"required"` // YYYY-MM-DD
	EarliestTime string `form:"time"`                    // HH:MM, optional
	DiscountCard string `form:"discount_card"`           // card name for display prices
}

// Validate checks the search parameters
func (r *SearchTripsRequest) Validate() error {
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	if r.EarliestTime != "" {
		if _, err := time.Parse("15:04", r.EarliestTime); err != nil {
			return errors.New("time must be in HH:MM format")
		}
	}
	return nil
}

// TripAvailability summarizes how much of a trip's train is still bookable
type TripAvailability struct {
	TripID          uuid.UUID `json:"trip_id"`
	TotalSeats      int       `json:"total_seats"`
	SeatsRemaining  int       `json:"seats_remaining"`
	WindowAvailable int       `json:"window_available"`
	AisleAvailable  int       `json:"aisle_available"`
	SoldOut         bool      `json:"sold_out"`
}

// TripSearchResult is one row of a trip search response. DisplayPrice applies
// only the traveler's card percentage; the full cumulative discount is
// computed at booking time.
type TripSearchResult struct {
	Trip
	DepartureStation string  `json:"departure_station" db:"departure_station"`
	ArrivalStation   string  `json:"arrival_station" db:"arrival_station"`
	DisplayPrice     float64 `json:"display_price"`
	SoldOut          bool    `json:"sold_out"`
}
