package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/railbook/booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// TripHandler handles HTTP requests for trip search and pricing
type TripHandler struct {
	service *services.TripService
	logger  *logrus.Logger
}

// NewTripHandler creates a new trip handler
func NewTripHandler(service *services.TripService, logger *logrus.Logger) *TripHandler {
	return &TripHandler{
		service: service,
		logger:  logger,
	}
}

// SearchTrips handles GET /api/v1/trips/search
func (h *TripHandler) SearchTrips(c *gin.Context) {
	var req models.SearchTripsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "from, to and date query parameters are required")
		return
	}
	if err := req.Validate(); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	results, err := h.service.Search(&req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"trips": results,
		"count": len(results),
	})
}

// GetTrip handles GET /api/v1/trips/:id
func (h *TripHandler) GetTrip(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid trip ID")
		return
	}

	trip, err := h.service.Get(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, trip)
}

// GetAvailability handles GET /api/v1/trips/:id/availability
func (h *TripHandler) GetAvailability(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid trip ID")
		return
	}

	availability, err := h.service.Availability(tripID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}

// PricePreview handles POST /api/v1/trips/:id/price-preview
func (h *TripHandler) PricePreview(c *gin.Context) {
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid trip ID")
		return
	}

	var req models.PricePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "discount_card_id and traveler_birth_date are required")
		return
	}

	breakdown, err := h.service.PricePreview(tripID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, breakdown)
}
