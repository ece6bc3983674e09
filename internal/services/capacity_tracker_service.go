package services

import (
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/sirupsen/logrus"
)

// CapacityTrackerService keeps trips.seats_remaining consistent with the
// reservations table. It recomputes the counter from scratch on every change
// instead of incrementing, so the value self-heals and stays correct under
// concurrent bookings. It runs inside the reservation transaction as a
// database.ReservationObserver.
type CapacityTrackerService struct {
	tripRepo *database.TripRepository
	logger   *logrus.Logger
}

// NewCapacityTrackerService creates a new capacity tracker service
func NewCapacityTrackerService(tripRepo *database.TripRepository, logger *logrus.Logger) *CapacityTrackerService {
	return &CapacityTrackerService{
		tripRepo: tripRepo,
		logger:   logger,
	}
}

// ReservationCreated recomputes the trip's remaining seats in the booking
// transaction.
func (s *CapacityTrackerService) ReservationCreated(tx *sqlx.Tx, tripID uuid.UUID) error {
	return s.recompute(tx, tripID, "created")
}

// ReservationDeleted recomputes the trip's remaining seats in the
// cancellation transaction.
func (s *CapacityTrackerService) ReservationDeleted(tx *sqlx.Tx, tripID uuid.UUID) error {
	return s.recompute(tx, tripID, "deleted")
}

func (s *CapacityTrackerService) recompute(tx *sqlx.Tx, tripID uuid.UUID, cause string) error {
	if err := s.tripRepo.RecomputeSeatsRemaining(tx, tripID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"trip_id": tripID,
		"cause":   cause,
	}).Debug("Recomputed remaining seats")

	return nil
}
