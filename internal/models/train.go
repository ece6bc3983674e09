package models

import (
	"time"

	"github.com/google/uuid"
)

// SeatClass tags a seat as window or aisle
type SeatClass string

const (
	SeatClassWindow SeatClass = "window"
	SeatClassAisle  SeatClass = "aisle"
)

// ParseSeatClass validates an optional seat class preference coming from the
// booking form. An empty string means no preference.
func ParseSeatClass(s string) (SeatClass, error) {
	switch SeatClass(s) {
	case "", SeatClassWindow, SeatClassAisle:
		return SeatClass(s), nil
	default:
		return "", ErrInvalidSeatClass
	}
}

// Train represents a physical train; its seats are reachable through its cars
// and are reusable across different trips of the same train.
type Train struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Car belongs to exactly one train; its number is unique within the train
type Car struct {
	ID      uuid.UUID `json:"id" db:"id"`
	TrainID uuid.UUID `json:"train_id" db:"train_id"`
	Number  int       `json:"number" db:"number"`
}

// Seat belongs to exactly one car; its number is unique within the car
type Seat struct {
	ID     uuid.UUID `json:"id" db:"id"`
	CarID  uuid.UUID `json:"car_id" db:"car_id"`
	Number int       `json:"number" db:"number"`
	Class  SeatClass `json:"class" db:"class"`
}

// SeatWithCar is a seat joined with its car number for display on tickets
type SeatWithCar struct {
	Seat
	CarNumber int `json:"car_number" db:"car_number"`
}
