package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/sirupsen/logrus"
)

// StationHandler handles HTTP requests for stations and discount cards
type StationHandler struct {
	stationRepo *database.StationRepository
	cardRepo    *database.DiscountCardRepository
	logger      *logrus.Logger
}

// NewStationHandler creates a new station handler
func NewStationHandler(stationRepo *database.StationRepository, cardRepo *database.DiscountCardRepository, logger *logrus.Logger) *StationHandler {
	return &StationHandler{
		stationRepo: stationRepo,
		cardRepo:    cardRepo,
		logger:      logger,
	}
}

// ListStations handles GET /api/v1/stations
func (h *StationHandler) ListStations(c *gin.Context) {
	stations, err := h.stationRepo.ListStations()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"stations": stations})
}

// ListDiscountCards handles GET /api/v1/discount-cards
func (h *StationHandler) ListDiscountCards(c *gin.Context) {
	cards, err := h.cardRepo.ListSelectable()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"discount_cards": cards})
}
