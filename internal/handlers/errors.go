package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/sirupsen/logrus"
)

// respondError translates domain errors into HTTP responses. Anything not
// recognized as a domain error is a 500 and gets logged; domain errors are
// the caller's fault and are only echoed back.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidTravelerName),
		errors.Is(err, models.ErrInvalidBirthDate),
		errors.Is(err, models.ErrInvalidSeatClass),
		errors.Is(err, models.ErrCardNotSelectable):
		c.JSON(http.StatusBadRequest, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrTripNotFound),
		errors.Is(err, models.ErrSeatNotFound),
		errors.Is(err, models.ErrStationNotFound),
		errors.Is(err, models.ErrReservationNotFound),
		errors.Is(err, models.ErrDiscountCardNotFound),
		errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrNoSeatsAvailable),
		errors.Is(err, models.ErrSeatTaken),
		errors.Is(err, models.ErrTicketReferenceTaken),
		errors.Is(err, models.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	case errors.Is(err, models.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
	default:
		logger.WithError(err).Error("Request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Internal server error",
		})
	}
}

func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status":  "error",
		"message": message,
	})
}
