package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// ReservationService is the booking allocator. It validates the request,
// resolves a seat, prices the fare and persists the reservation atomically,
// retrying seat selection when a concurrent booking wins the same seat.
type ReservationService struct {
	reservationRepo *database.ReservationRepository
	tripRepo        *database.TripRepository
	cardRepo        *database.DiscountCardRepository
	fareService     *FareService
	seatResolver    *SeatResolverService
	maxSeatRetries  int
	logger          *logrus.Logger
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservationRepo *database.ReservationRepository,
	tripRepo *database.TripRepository,
	cardRepo *database.DiscountCardRepository,
	fareService *FareService,
	seatResolver *SeatResolverService,
	maxSeatRetries int,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		reservationRepo: reservationRepo,
		tripRepo:        tripRepo,
		cardRepo:        cardRepo,
		fareService:     fareService,
		seatResolver:    seatResolver,
		maxSeatRetries:  maxSeatRetries,
		logger:          logger,
	}
}

// Reserve books one seat on a trip for a traveler. Validation fails fast
// before any write; the price is computed server-side and frozen into the
// reservation. When a concurrent booking takes the chosen seat first, seat
// selection is retried a bounded number of times before reporting the trip
// as full.
func (s *ReservationService) Reserve(userID uuid.UUID, req *models.CreateReservationRequest) (*models.ReservationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	birthDate, _ := models.ParseBirthDate(req.TravelerBirthDate)
	seatClass, _ := models.ParseSeatClass(req.SeatClass)

	cardID, err := uuid.Parse(req.DiscountCardID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrDiscountCardNotFound, req.DiscountCardID)
	}
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}
	if !card.UserSelectable {
		return nil, models.ErrCardNotSelectable
	}

	tripID, err := uuid.Parse(req.TripID)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", models.ErrTripNotFound, req.TripID)
	}
	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	breakdown, err := s.fareService.Quote(trip.BasePrice, card, birthDate, trip.DepartureAt, time.Now())
	if err != nil {
		return nil, err
	}

	for attempt := 1; attempt <= s.maxSeatRetries; attempt++ {
		seat, err := s.seatResolver.FindAvailableSeat(trip.TrainID, trip.ID, seatClass)
		if err != nil {
			return nil, err
		}

		reference, err := s.reservationRepo.GenerateTicketReference()
		if err != nil {
			return nil, err
		}

		reservation := &models.Reservation{
			Reference:         reference,
			UserID:            userID,
			TripID:            trip.ID,
			SeatID:            seat.ID,
			DiscountCardID:    card.ID,
			TravelerName:      req.TravelerName,
			TravelerSurname:   req.TravelerSurname,
			TravelerBirthDate: birthDate,
			Price:             breakdown.Price,
		}

		err = s.reservationRepo.Create(reservation)
		if err == nil {
			s.logger.WithFields(logrus.Fields{
				"reservation_id": reservation.ID,
				"reference":      reservation.Reference,
				"trip_id":        trip.ID,
				"seat_id":        seat.ID,
				"price":          reservation.Price,
				"attempt":        attempt,
			}).Info("Reservation created")

			return &models.ReservationResponse{
				ReservationID: reservation.ID,
				Reference:     reservation.Reference,
				Price:         reservation.Price,
				SeatID:        seat.ID,
				CarNumber:     seat.CarNumber,
				SeatNumber:    seat.Number,
				SeatClass:     seat.Class,
			}, nil
		}
		// Both losses are races against concurrent bookings; the next
		// attempt picks a fresh seat and a fresh reference.
		if !errors.Is(err, models.ErrSeatTaken) && !errors.Is(err, models.ErrTicketReferenceTaken) {
			return nil, err
		}

		s.logger.WithFields(logrus.Fields{
			"trip_id": trip.ID,
			"seat_id": seat.ID,
			"attempt": attempt,
		}).Warn("Reservation insert lost a uniqueness race, retrying")
	}

	return nil, models.ErrNoSeatsAvailable
}

// Cancel deletes a reservation owned by the user
func (s *ReservationService) Cancel(userID, reservationID uuid.UUID) error {
	if err := s.reservationRepo.Delete(reservationID, userID); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservationID,
		"user_id":        userID,
	}).Info("Reservation cancelled")

	return nil
}

// List returns a user's reservations split into upcoming and past trips
// relative to now.
func (s *ReservationService) List(userID uuid.UUID) (*models.ReservationListResponse, error) {
	details, err := s.reservationRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	resp := &models.ReservationListResponse{
		Upcoming: []models.ReservationDetail{},
		Past:     []models.ReservationDetail{},
	}
	now := time.Now()
	for _, d := range details {
		if d.DepartureAt.After(now) {
			resp.Upcoming = append(resp.Upcoming, d)
		} else {
			resp.Past = append(resp.Past, d)
		}
	}

	return resp, nil
}

// Get returns one of the user's reservations with trip and seat details
func (s *ReservationService) Get(userID, reservationID uuid.UUID) (*models.ReservationDetail, error) {
	detail, err := s.reservationRepo.GetDetail(reservationID)
	if err != nil {
		return nil, err
	}
	if detail.UserID != userID {
		return nil, models.ErrReservationNotFound
	}
	return detail, nil
}

// Ticket renders the printable ticket document for a reservation
func (s *ReservationService) Ticket(userID, reservationID uuid.UUID) (*models.Ticket, error) {
	detail, err := s.Get(userID, reservationID)
	if err != nil {
		return nil, err
	}

	return &models.Ticket{
		Reference:        detail.Reference,
		TravelerName:     detail.TravelerName,
		TravelerSurname:  detail.TravelerSurname,
		DepartureStation: detail.DepartureStation,
		ArrivalStation:   detail.ArrivalStation,
		DepartureAt:      detail.DepartureAt,
		ArrivalAt:        detail.ArrivalAt,
		CarNumber:        detail.CarNumber,
		SeatNumber:       detail.SeatNumber,
		SeatClass:        detail.SeatClass,
		Price:            detail.Price,
		IssuedAt:         time.Now(),
	}, nil
}
