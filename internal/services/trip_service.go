package services

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// TripService handles trip search, lookup and price previews
type TripService struct {
	tripRepo    *database.TripRepository
	stationRepo *database.StationRepository
	trainRepo   *database.TrainRepository
	seatRepo    *database.SeatRepository
	cardRepo    *database.DiscountCardRepository
	fareService *FareService
	logger      *logrus.Logger
}

// NewTripService creates a new trip service
func NewTripService(
	tripRepo *database.TripRepository,
	stationRepo *database.StationRepository,
	trainRepo *database.TrainRepository,
	seatRepo *database.SeatRepository,
	cardRepo *database.DiscountCardRepository,
	fareService *FareService,
	logger *logrus.Logger,
) *TripService {
	return &TripService{
		tripRepo:    tripRepo,
		stationRepo: stationRepo,
		trainRepo:   trainRepo,
		seatRepo:    seatRepo,
		cardRepo:    cardRepo,
		fareService: fareService,
		logger:      logger,
	}
}

// Search finds trips between two stations on a date, departing at or after
// the optional earliest time. DisplayPrice applies only the traveler's card
// discount, matching what the search page shows before a traveler is chosen.
func (s *TripService) Search(req *models.SearchTripsRequest) ([]models.TripSearchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	from, err := s.stationRepo.GetByName(req.From)
	if err != nil {
		return nil, err
	}
	to, err := s.stationRepo.GetByName(req.To)
	if err != nil {
		return nil, err
	}

	date, _ := time.Parse("2006-01-02", req.Date)
	windowStart := date
	if req.EarliestTime != "" {
		earliest, _ := time.Parse("15:04", req.EarliestTime)
		windowStart = date.Add(time.Duration(earliest.Hour())*time.Hour + time.Duration(earliest.Minute())*time.Minute)
	}
	windowEnd := date.AddDate(0, 0, 1)

	cardPercent := 0.0
	if req.DiscountCard != "" && req.DiscountCard != models.CardNone {
		card, err := s.cardRepo.GetByName(req.DiscountCard)
		if err != nil {
			if !errors.Is(err, models.ErrDiscountCardNotFound) {
				return nil, err
			}
		} else if card.UserSelectable {
			cardPercent = card.Percentage
		}
	}

	results, err := s.tripRepo.SearchTrips(from.ID, to.ID, windowStart, windowEnd)
	if err != nil {
		return nil, err
	}

	for i := range results {
		results[i].DisplayPrice = math.Round(results[i].BasePrice*(1-cardPercent/100)*100) / 100
		results[i].SoldOut = results[i].SeatsRemaining <= 0
	}

	s.logger.WithFields(logrus.Fields{
		"from":    from.Name,
		"to":      to.Name,
		"date":    req.Date,
		"results": len(results),
	}).Debug("Trip search completed")

	return results, nil
}

// Get returns a single trip by ID
func (s *TripService) Get(tripID uuid.UUID) (*models.Trip, error) {
	return s.tripRepo.GetByID(tripID)
}

// Availability breaks down how many seats are still free on a trip, per
// seat class. Counts are a snapshot; the booking path re-checks at insert.
func (s *TripService) Availability(tripID uuid.UUID) (*models.TripAvailability, error) {
	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	totalSeats, err := s.trainRepo.CountSeats(trip.TrainID)
	if err != nil {
		return nil, err
	}

	window, err := s.seatRepo.GetAvailableSeats(trip.TrainID, trip.ID, models.SeatClassWindow)
	if err != nil {
		return nil, err
	}
	aisle, err := s.seatRepo.GetAvailableSeats(trip.TrainID, trip.ID, models.SeatClassAisle)
	if err != nil {
		return nil, err
	}

	return &models.TripAvailability{
		TripID:          trip.ID,
		TotalSeats:      totalSeats,
		SeatsRemaining:  trip.SeatsRemaining,
		WindowAvailable: len(window),
		AisleAvailable:  len(aisle),
		SoldOut:         len(window)+len(aisle) == 0,
	}, nil
}

// PricePreview quotes a trip for a traveler without booking. It runs the
// same fare computation as a reservation made today.
func (s *TripService) PricePreview(tripID uuid.UUID, req *models.PricePreviewRequest) (*FareBreakdown, error) {
	birthDate, err := models.ParseBirthDate(req.TravelerBirthDate)
	if err != nil {
		return nil, err
	}

	cardID, err := uuid.Parse(req.DiscountCardID)
	if err != nil {
		return nil, models.ErrDiscountCardNotFound
	}
	card, err := s.cardRepo.GetByID(cardID)
	if err != nil {
		return nil, err
	}

	trip, err := s.tripRepo.GetByID(tripID)
	if err != nil {
		return nil, err
	}

	return s.fareService.Quote(trip.BasePrice, card, birthDate, trip.DepartureAt, time.Now())
}
