package services

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// SeatResolverService picks a concrete seat for a reservation. Selection is
// uniformly random over the candidate pool so bookings spread across the
// train instead of filling car 1 first.
type SeatResolverService struct {
	seatRepo *database.SeatRepository
	logger   *logrus.Logger
}

// NewSeatResolverService creates a new seat resolver service
func NewSeatResolverService(seatRepo *database.SeatRepository, logger *logrus.Logger) *SeatResolverService {
	return &SeatResolverService{
		seatRepo: seatRepo,
		logger:   logger,
	}
}

// FindAvailableSeat resolves one free seat on a trip's train. When class is
// set, matching seats are preferred; if none match, the preference relaxes to
// any free seat rather than failing. A fully booked trip returns
// models.ErrNoSeatsAvailable.
func (s *SeatResolverService) FindAvailableSeat(trainID, tripID uuid.UUID, class models.SeatClass) (*models.SeatWithCar, error) {
	if class != "" {
		seats, err := s.seatRepo.GetAvailableSeats(trainID, tripID, class)
		if err != nil {
			return nil, err
		}
		if len(seats) > 0 {
			return pickSeat(seats), nil
		}

		s.logger.WithFields(logrus.Fields{
			"trip_id": tripID,
			"class":   class,
		}).Info("No seats left in preferred class, relaxing preference")
	}

	seats, err := s.seatRepo.GetAvailableSeats(trainID, tripID, "")
	if err != nil {
		return nil, err
	}
	if len(seats) == 0 {
		return nil, models.ErrNoSeatsAvailable
	}

	return pickSeat(seats), nil
}

func pickSeat(seats []models.SeatWithCar) *models.SeatWithCar {
	return &seats[rand.Intn(len(seats))]
}
