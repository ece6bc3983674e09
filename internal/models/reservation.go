package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BirthDateFormat is the wire format for traveler birth dates
const BirthDateFormat = "02/01/2006"

// ParseBirthDate normalizes a dd/mm/yyyy birth date string into a time.Time.
// All external date input passes through here exactly once, before any fare
// or allocation logic runs.
func ParseBirthDate(s string) (time.Time, error) {
	born, err := time.Parse(BirthDateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidBirthDate, s)
	}
	return born, nil
}

// Reservation links a user, a trip and a seat. Price is computed by the fare
// engine and frozen at creation; it is never accepted from the client. The
// storage layer enforces at most one reservation per (trip, seat) pair.
type Reservation struct {
	ID                uuid.UUID `json:"id" db:"id"`
	Reference         string    `json:"reference" db:"reference"`
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	TripID            uuid.UUID `json:"trip_id" db:"trip_id"`
	SeatID            uuid.UUID `json:"seat_id" db:"seat_id"`
	DiscountCardID    uuid.UUID `json:"discount_card_id" db:"discount_card_id"`
	TravelerName      string    `json:"traveler_name" db:"traveler_name"`
	TravelerSurname   string    `json:"traveler_surname" db:"traveler_surname"`
	TravelerBirthDate time.Time `json:"traveler_birth_date" db:"traveler_birth_date"`
	Price             float64   `json:"price" db:"price"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// CreateReservationRequest is the booking payload received by the allocator
type CreateReservationRequest struct {
	TripID            string `json:"trip_id" binding:"required"`
	TravelerName      string `json:"traveler_name"`
	TravelerSurname   string `json:"traveler_surname"`
	TravelerBirthDate string `json:"traveler_birth_date"` // dd/mm/yyyy
	DiscountCardID    string `json:"discount_card_id" binding:"required"`
	SeatClass         string `json:"seat_class"` // "window", "aisle" or empty
}

// Validate fails fast on malformed booking input, in a fixed order so callers
// see a stable first error: names, then birth date, then seat class.
func (r *CreateReservationRequest) Validate() error {
	if strings.TrimSpace(r.TravelerName) == "" || strings.TrimSpace(r.TravelerSurname) == "" {
		return ErrInvalidTravelerName
	}
	if _, err := ParseBirthDate(r.TravelerBirthDate); err != nil {
		return err
	}
	if _, err := ParseSeatClass(r.SeatClass); err != nil {
		return err
	}
	return nil
}

// ReservationDetail joins a reservation with its trip, seat and station info
// for listing and ticket rendering.
type ReservationDetail struct {
	Reservation
	DepartureStation string    `json:"departure_station" db:"departure_station"`
	ArrivalStation   string    `json:"arrival_station" db:"arrival_station"`
	DepartureAt      time.Time `json:"departure_at" db:"departure_at"`
	ArrivalAt        time.Time `json:"arrival_at" db:"arrival_at"`
	CarNumber        int       `json:"car_number" db:"car_number"`
	SeatNumber       int       `json:"seat_number" db:"seat_number"`
	SeatClass        SeatClass `json:"seat_class" db:"seat_class"`
}

// ReservationListResponse splits a user's reservations around today
type ReservationListResponse struct {
	Upcoming []ReservationDetail `json:"upcoming"`
	Past     []ReservationDetail `json:"past"`
}

// Ticket is the document payload handed to the caller for rendering
type Ticket struct {
	Reference        string    `json:"reference"`
	TravelerName     string    `json:"traveler_name"`
	TravelerSurname  string    `json:"traveler_surname"`
	DepartureStation string    `json:"departure_station"`
	ArrivalStation   string    `json:"arrival_station"`
	DepartureAt      time.Time `json:"departure_at"`
	ArrivalAt        time.Time `json:"arrival_at"`
	CarNumber        int       `json:"car_number"`
	SeatNumber       int       `json:"seat_number"`
	SeatClass        SeatClass `json:"seat_class"`
	Price            float64   `json:"price"`
	IssuedAt         time.Time `json:"issued_at"`
}

// PricePreviewRequest asks the fare engine for a price without booking
type PricePreviewRequest struct {
	DiscountCardID    string `json:"discount_card_id" binding:"required"`
	TravelerBirthDate string `json:"traveler_birth_date" binding:"required"` // dd/mm/yyyy
}

// ReservationResponse is returned on successful booking
type ReservationResponse struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	Reference     string    `json:"reference"`
	Price         float64   `json:"price"`
	SeatID        uuid.UUID `json:"seat_id"`
	CarNumber     int       `json:"car_number"`
	SeatNumber    int       `json:"seat_number"`
	SeatClass     SeatClass `json:"seat_class"`
}
