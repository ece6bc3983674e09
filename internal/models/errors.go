package models

import "errors"

// Domain errors shared across repositories, services and handlers.

var (
	// ErrSeatTaken is returned when a reservation insert loses the race for a
	// (trip, seat) pair to a concurrent booking. Callers retry seat selection.
	ErrSeatTaken = errors.New("seat already reserved for this trip")

	// ErrNoSeatsAvailable is returned when a trip has no unreserved seats left,
	// even after relaxing the seat class preference.
	ErrNoSeatsAvailable = errors.New("no seats available")

	// ErrTicketReferenceTaken is returned when a reservation insert collides
	// on the ticket reference. Callers retry with a fresh reference.
	ErrTicketReferenceTaken = errors.New("ticket reference already in use")

	ErrTripNotFound         = errors.New("trip not found")
	ErrSeatNotFound         = errors.New("seat not found")
	ErrStationNotFound      = errors.New("station not found")
	ErrReservationNotFound  = errors.New("reservation not found")
	ErrDiscountCardNotFound = errors.New("discount card not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
)

// Validation errors
var (
	ErrInvalidTravelerName = errors.New("traveler name and surname must not be empty")
	ErrInvalidBirthDate    = errors.New("birth date must be in dd/mm/yyyy format")
	ErrInvalidSeatClass    = errors.New("seat class must be 'window', 'aisle' or empty")
	ErrCardNotSelectable   = errors.New("discount card cannot be selected at booking time")
)
