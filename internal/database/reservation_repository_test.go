package database

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/railbook/booking-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingObserver captures observer notifications for assertions
type recordingObserver struct {
	created []uuid.UUID
	deleted []uuid.UUID
}

func (o *recordingObserver) ReservationCreated(tx *sqlx.Tx, tripID uuid.UUID) error {
	o.created = append(o.created, tripID)
	return nil
}

func (o *recordingObserver) ReservationDeleted(tx *sqlx.Tx, tripID uuid.UUID) error {
	o.deleted = append(o.deleted, tripID)
	return nil
}

func sampleReservation() *models.Reservation {
	return &models.Reservation{
		Reference:         "TK-20260815-AB12CD",
		UserID:            uuid.New(),
		TripID:            uuid.New(),
		SeatID:            uuid.New(),
		DiscountCardID:    uuid.New(),
		TravelerName:      "Ada",
		TravelerSurname:   "Lovelace",
		TravelerBirthDate: time.Date(1985, time.December, 10, 0, 0, 0, 0, time.UTC),
		Price:             82.0,
	}
}

func TestReservationCreateNotifiesObservers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	observer := &recordingObserver{}
	repo.RegisterObserver(observer)

	res := sampleReservation()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectCommit()

	err := repo.Create(res)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.ID)
	// Observer fired inside the transaction, before commit.
	assert.Equal(t, []uuid.UUID{res.TripID}, observer.created)
	assert.Empty(t, observer.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateSeatTaken(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	observer := &recordingObserver{}
	repo.RegisterObserver(observer)

	res := sampleReservation()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reservations_trip_id_seat_id_key"})
	mock.ExpectRollback()

	err := repo.Create(res)
	assert.ErrorIs(t, err, models.ErrSeatTaken)

	// The losing booking must not touch derived state.
	assert.Empty(t, observer.created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateReferenceCollision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)

	res := sampleReservation()

	// A collision on the reference constraint is not a seat conflict and
	// must surface as its own error.
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "reservations_reference_key"})
	mock.ExpectRollback()

	err := repo.Create(res)
	assert.ErrorIs(t, err, models.ErrTicketReferenceTaken)
	assert.NotErrorIs(t, err, models.ErrSeatTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreateRunsCapacityRecomputeInSameTx(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	tripRepo := NewTripRepository(db)

	// An observer that performs a write through the transaction it is
	// handed, like the capacity tracker does.
	repo.RegisterObserver(txObserverFunc(func(tx *sqlx.Tx, tripID uuid.UUID) error {
		return tripRepo.RecomputeSeatsRemaining(tx, tripID)
	}))

	res := sampleReservation()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO reservations").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
	mock.ExpectExec("UPDATE trips").
		WithArgs(res.TripID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.Create(res)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// txObserverFunc adapts a function to the ReservationObserver interface
type txObserverFunc func(tx *sqlx.Tx, tripID uuid.UUID) error

func (f txObserverFunc) ReservationCreated(tx *sqlx.Tx, tripID uuid.UUID) error { return f(tx, tripID) }
func (f txObserverFunc) ReservationDeleted(tx *sqlx.Tx, tripID uuid.UUID) error { return f(tx, tripID) }

func TestReservationDelete(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)
	observer := &recordingObserver{}
	repo.RegisterObserver(observer)

	reservationID := uuid.New()
	userID := uuid.New()
	tripID := uuid.New()

	t.Run("Owner deletes", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM reservations").
			WithArgs(reservationID, userID).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id"}).AddRow(tripID))
		mock.ExpectCommit()

		err := repo.Delete(reservationID, userID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{tripID}, observer.deleted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Wrong owner reports not found", func(t *testing.T) {
		otherUser := uuid.New()

		mock.ExpectBegin()
		mock.ExpectQuery("DELETE FROM reservations").
			WithArgs(reservationID, otherUser).
			WillReturnRows(sqlmock.NewRows([]string{"trip_id"}))
		mock.ExpectRollback()

		err := repo.Delete(reservationID, otherUser)
		assert.ErrorIs(t, err, models.ErrReservationNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGenerateTicketReference(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectQuery("SELECT COUNT(.+) FROM reservations WHERE reference").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ref, err := repo.GenerateTicketReference()
	require.NoError(t, err)
	assert.Regexp(t, `^TK-\d{8}-[0-9A-F]{6}$`, ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGenerateTicketReferenceRetriesOnCollision(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewReservationRepository(db)

	mock.ExpectQuery("SELECT COUNT(.+) FROM reservations WHERE reference").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery("SELECT COUNT(.+) FROM reservations WHERE reference").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ref, err := repo.GenerateTicketReference()
	require.NoError(t, err)
	assert.NotEmpty(t, ref)
	assert.NoError(t, mock.ExpectationsWereMet())
}
