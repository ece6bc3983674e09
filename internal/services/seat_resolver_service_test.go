package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/booking-backend/internal/database"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSeatResolverWithMock(t *testing.T) (*SeatResolverService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	seatRepo := database.NewSeatRepository(sqlxDB)
	return NewSeatResolverService(seatRepo, testLogger()), mock
}

func seatColumns() []string {
	return []string{"id", "car_id", "number", "class", "car_number"}
}

func TestFindAvailableSeatPicksFromPool(t *testing.T) {
	resolver, mock := newSeatResolverWithMock(t)

	trainID := uuid.New()
	tripID := uuid.New()
	carID := uuid.New()
	seatIDs := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	rows := sqlmock.NewRows(seatColumns())
	for i, id := range seatIDs {
		rows.AddRow(id, carID, i+1, models.SeatClassWindow, 1)
	}
	mock.ExpectQuery("SELECT s.id, s.car_id").
		WithArgs(trainID, tripID).
		WillReturnRows(rows)

	seat, err := resolver.FindAvailableSeat(trainID, tripID, "")
	require.NoError(t, err)

	// Selection is random; only membership is guaranteed.
	assert.Contains(t, seatIDs, seat.ID)
	assert.Equal(t, 1, seat.CarNumber)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAvailableSeatHonorsClassPreference(t *testing.T) {
	resolver, mock := newSeatResolverWithMock(t)

	trainID := uuid.New()
	tripID := uuid.New()
	windowSeat := uuid.New()

	mock.ExpectQuery("SELECT s.id, s.car_id").
		WithArgs(trainID, tripID, models.SeatClassWindow).
		WillReturnRows(sqlmock.NewRows(seatColumns()).
			AddRow(windowSeat, uuid.New(), 3, models.SeatClassWindow, 2))

	seat, err := resolver.FindAvailableSeat(trainID, tripID, models.SeatClassWindow)
	require.NoError(t, err)

	assert.Equal(t, windowSeat, seat.ID)
	assert.Equal(t, models.SeatClassWindow, seat.Class)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAvailableSeatRelaxesClassPreference(t *testing.T) {
	resolver, mock := newSeatResolverWithMock(t)

	trainID := uuid.New()
	tripID := uuid.New()
	aisleSeat := uuid.New()

	// No window seats left; the preference relaxes to any seat.
	mock.ExpectQuery("SELECT s.id, s.car_id").
		WithArgs(trainID, tripID, models.SeatClassWindow).
		WillReturnRows(sqlmock.NewRows(seatColumns()))
	mock.ExpectQuery("SELECT s.id, s.car_id").
		WithArgs(trainID, tripID).
		WillReturnRows(sqlmock.NewRows(seatColumns()).
			AddRow(aisleSeat, uuid.New(), 8, models.SeatClassAisle, 4))

	seat, err := resolver.FindAvailableSeat(trainID, tripID, models.SeatClassWindow)
	require.NoError(t, err)

	assert.Equal(t, aisleSeat, seat.ID)
	assert.Equal(t, models.SeatClassAisle, seat.Class)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindAvailableSeatSoldOut(t *testing.T) {
	resolver, mock := newSeatResolverWithMock(t)

	trainID := uuid.New()
	tripID := uuid.New()

	mock.ExpectQuery("SELECT s.id, s.car_id").
		WithArgs(trainID, tripID).
		WillReturnRows(sqlmock.NewRows(seatColumns()))

	_, err := resolver.FindAvailableSeat(trainID, tripID, "")
	assert.ErrorIs(t, err, models.ErrNoSeatsAvailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}
