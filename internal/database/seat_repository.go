package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/models"
)

// SeatRepository handles seat availability queries
type SeatRepository struct {
	db DB
}

// NewSeatRepository creates a new SeatRepository
func NewSeatRepository(db DB) *SeatRepository {
	return &SeatRepository{db: db}
}

// GetAvailableSeats returns the seats of a trip's train that are not yet
// reserved for that trip, optionally filtered by seat class. Seats are shared
// between trips of the same train, so availability is always trip-scoped.
//
// This is a best-effort snapshot: two concurrent callers can both see the
// same seat. The unique (trip_id, seat_id) constraint on reservations is the
// correctness backstop.
func (r *SeatRepository) GetAvailableSeats(trainID, tripID uuid.UUID, class models.SeatClass) ([]models.SeatWithCar, error) {
	query := `
		SELECT s.id, s.car_id, s.number, s.class, c.number AS car_number
		FROM seats s
		JOIN cars c ON s.car_id = c.id
		WHERE c.train_id = $1
		  AND NOT EXISTS (
			SELECT 1 FROM reservations res
			WHERE res.trip_id = $2 AND res.seat_id = s.id
		  )
	`
	args := []interface{}{trainID, tripID}

	if class != "" {
		query += ` AND s.class = $3`
		args = append(args, class)
	}
	query += ` ORDER BY c.number, s.number`

	var seats []models.SeatWithCar
	if err := r.db.Select(&seats, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query available seats: %w", err)
	}

	return seats, nil
}

// GetSeatWithCar returns a seat joined with its car number
func (r *SeatRepository) GetSeatWithCar(seatID uuid.UUID) (*models.SeatWithCar, error) {
	query := `
		SELECT s.id, s.car_id, s.number, s.class, c.number AS car_number
		FROM seats s
		JOIN cars c ON s.car_id = c.id
		WHERE s.id = $1
	`

	var seat models.SeatWithCar
	err := r.db.Get(&seat, query, seatID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrSeatNotFound
		}
		return nil, fmt.Errorf("failed to fetch seat: %w", err)
	}

	return &seat, nil
}
