package services

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/railbook/booking-backend/internal/database"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// AgeInYears returns the traveler's age in whole years at the reference date.
func AgeInYears(born, ref time.Time) int {
	years := ref.Year() - born.Year()
	// Birthday has not occurred yet this year. Compare month and day, not
	// YearDay, which shifts after February between leap and common years.
	if ref.Month() < born.Month() || (ref.Month() == born.Month() && ref.Day() < born.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// AgeTier maps a traveler's age to a system discount card name. The brackets
// are disjoint and checked in order; travelers between 19 and 64 get no
// age-based discount.
func AgeTier(born, ref time.Time) string {
	age := AgeInYears(born, ref)
	switch {
	case age <= 8:
		return models.CardChild
	case age <= 18:
		return models.CardMinor
	case age >= 65:
		return models.CardSenior
	default:
		return models.CardNone
	}
}

// LeadTimeDays returns the number of whole days between now and the
// departure date, negative when the departure is already in the past.
func LeadTimeDays(departure, now time.Time) int {
	// Read both dates in UTC so the bucket does not depend on the session
	// timezone of either timestamp.
	departure, now = departure.UTC(), now.UTC()
	dep := time.Date(departure.Year(), departure.Month(), departure.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return int(dep.Sub(today).Hours() / 24)
}

// LeadTimeTier maps booking lead time to a system discount card name.
// Late bookings, including past departures, fall into the none bucket.
func LeadTimeTier(departure, now time.Time) string {
	days := LeadTimeDays(departure, now)
	switch {
	case days >= 30:
		return models.CardLeadTime30
	case days >= 9:
		return models.CardLeadTime8
	default:
		return models.CardNone
	}
}

// FareBreakdown reports how a quoted price was assembled
type FareBreakdown struct {
	BasePrice      float64 `json:"base_price"`
	CardPercent    float64 `json:"card_percent"`
	AgePercent     float64 `json:"age_percent"`
	LeadPercent    float64 `json:"lead_time_percent"`
	TotalPercent   float64 `json:"total_percent"`
	Price          float64 `json:"price"`
	AgeTierCard    string  `json:"age_tier_card"`
	LeadTimeCard   string  `json:"lead_time_card"`
	DiscountCardID string  `json:"discount_card_id"`
}

// FareService computes reservation prices. Discount percentages are data
// owned by the discount_cards table; the service only decides which rows
// apply and sums them.
type FareService struct {
	cardRepo *database.DiscountCardRepository
	logger   *logrus.Logger
}

// NewFareService creates a new fare service
func NewFareService(cardRepo *database.DiscountCardRepository, logger *logrus.Logger) *FareService {
	return &FareService{
		cardRepo: cardRepo,
		logger:   logger,
	}
}

// systemPercent looks up the percentage of a system card by name. A missing
// system row is a deployment fault, not a pricing input, so it is an error.
func (s *FareService) systemPercent(name string) (float64, error) {
	if name == models.CardNone {
		return 0, nil
	}
	card, err := s.cardRepo.GetByName(name)
	if err != nil {
		if errors.Is(err, models.ErrDiscountCardNotFound) {
			return 0, fmt.Errorf("system discount card %q is not seeded: %w", name, err)
		}
		return 0, err
	}
	return card.Percentage, nil
}

// Quote prices a trip for one traveler. The total discount is the sum of the
// held card, the age tier and the lead-time tier, clamped at 100%, and the
// final price is rounded to two decimals. Same inputs always quote the same
// price.
func (s *FareService) Quote(basePrice float64, card *models.DiscountCard, born, departure, now time.Time) (*FareBreakdown, error) {
	ageCard := AgeTier(born, now)
	agePercent, err := s.systemPercent(ageCard)
	if err != nil {
		return nil, err
	}

	leadCard := LeadTimeTier(departure, now)
	leadPercent, err := s.systemPercent(leadCard)
	if err != nil {
		return nil, err
	}

	total := card.Percentage + agePercent + leadPercent
	if total > 100 {
		total = 100
	}

	price := math.Round(basePrice*(1-total/100)*100) / 100

	s.logger.WithFields(logrus.Fields{
		"base_price":     basePrice,
		"card_percent":   card.Percentage,
		"age_tier":       ageCard,
		"lead_time_tier": leadCard,
		"total_percent":  total,
		"price":          price,
	}).Debug("Fare quoted")

	return &FareBreakdown{
		BasePrice:      basePrice,
		CardPercent:    card.Percentage,
		AgePercent:     agePercent,
		LeadPercent:    leadPercent,
		TotalPercent:   total,
		Price:          price,
		AgeTierCard:    ageCard,
		LeadTimeCard:   leadCard,
		DiscountCardID: card.ID.String(),
	}, nil
}
