package database

import (
	"fmt"

	"github.com/google/uuid"
)

// TrainRepository handles train, car and seat database operations
type TrainRepository struct {
	db DB
}

// NewTrainRepository creates a new TrainRepository
func NewTrainRepository(db DB) *TrainRepository {
	return &TrainRepository{db: db}
}

// CountSeats returns the total number of seats reachable through a train's cars
func (r *TrainRepository) CountSeats(trainID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM seats s
		JOIN cars c ON s.car_id = c.id
		WHERE c.train_id = $1
	`

	var count int
	if err := r.db.Get(&count, query, trainID); err != nil {
		return 0, fmt.Errorf("failed to count train seats: %w", err)
	}

	return count, nil
}
