package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBirthDate(t *testing.T) {
	t.Run("Valid date", func(t *testing.T) {
		born, err := ParseBirthDate("24/08/1995")
		require.NoError(t, err)
		assert.Equal(t, time.Date(1995, time.August, 24, 0, 0, 0, 0, time.UTC), born)
	})

	t.Run("Whitespace is tolerated", func(t *testing.T) {
		born, err := ParseBirthDate("  01/01/2000 ")
		require.NoError(t, err)
		assert.Equal(t, 2000, born.Year())
	})

	t.Run("Rejects ISO format", func(t *testing.T) {
		_, err := ParseBirthDate("1995-08-24")
		assert.ErrorIs(t, err, ErrInvalidBirthDate)
	})

	t.Run("Rejects garbage", func(t *testing.T) {
		_, err := ParseBirthDate("not a date")
		assert.ErrorIs(t, err, ErrInvalidBirthDate)
	})

	t.Run("Rejects empty", func(t *testing.T) {
		_, err := ParseBirthDate("")
		assert.ErrorIs(t, err, ErrInvalidBirthDate)
	})
}

func TestParseSeatClass(t *testing.T) {
	for _, valid := range []string{"", "window", "aisle"} {
		class, err := ParseSeatClass(valid)
		require.NoError(t, err)
		assert.Equal(t, SeatClass(valid), class)
	}

	_, err := ParseSeatClass("middle")
	assert.ErrorIs(t, err, ErrInvalidSeatClass)
}

func TestCreateReservationRequestValidate(t *testing.T) {
	valid := CreateReservationRequest{
		TripID:            "6f1b0a0a-0000-0000-0000-000000000000",
		TravelerName:      "Ada",
		TravelerSurname:   "Lovelace",
		TravelerBirthDate: "10/12/1985",
		DiscountCardID:    "6f1b0a0a-0000-0000-0000-000000000001",
		SeatClass:         "window",
	}

	t.Run("Valid request", func(t *testing.T) {
		req := valid
		assert.NoError(t, req.Validate())
	})

	t.Run("Blank name fails before bad birth date", func(t *testing.T) {
		req := valid
		req.TravelerName = "  "
		req.TravelerBirthDate = "bogus"
		assert.ErrorIs(t, req.Validate(), ErrInvalidTravelerName)
	})

	t.Run("Blank surname", func(t *testing.T) {
		req := valid
		req.TravelerSurname = ""
		assert.ErrorIs(t, req.Validate(), ErrInvalidTravelerName)
	})

	t.Run("Bad birth date fails before bad seat class", func(t *testing.T) {
		req := valid
		req.TravelerBirthDate = "31/02/20xx"
		req.SeatClass = "middle"
		assert.ErrorIs(t, req.Validate(), ErrInvalidBirthDate)
	})

	t.Run("Bad seat class", func(t *testing.T) {
		req := valid
		req.SeatClass = "middle"
		assert.ErrorIs(t, req.Validate(), ErrInvalidSeatClass)
	})
}
