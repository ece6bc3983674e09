package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/middleware"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/railbook/booking-backend/internal/services"
	"github.com/sirupsen/logrus"
)

// BookingHandler handles HTTP requests for reservations and tickets
type BookingHandler struct {
	service *services.ReservationService
	logger  *logrus.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(service *services.ReservationService, logger *logrus.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger,
	}
}

// CreateReservation handles POST /api/v1/reservations
func (h *BookingHandler) CreateReservation(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "trip_id and discount_card_id are required")
		return
	}

	resp, err := h.service.Reserve(userCtx.UserID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ListReservations handles GET /api/v1/reservations
func (h *BookingHandler) ListReservations(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	resp, err := h.service.List(userCtx.UserID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GetReservation handles GET /api/v1/reservations/:id
func (h *BookingHandler) GetReservation(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid reservation ID")
		return
	}

	detail, err := h.service.Get(userCtx.UserID, reservationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CancelReservation handles DELETE /api/v1/reservations/:id
func (h *BookingHandler) CancelReservation(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid reservation ID")
		return
	}

	if err := h.service.Cancel(userCtx.UserID, reservationID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// GetTicket handles GET /api/v1/reservations/:id/ticket
func (h *BookingHandler) GetTicket(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBadRequest(c, "Invalid reservation ID")
		return
	}

	ticket, err := h.service.Ticket(userCtx.UserID, reservationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, ticket)
}
