package database

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/railbook/booking-backend/internal/models"
)

// ReservationObserver is notified of reservation lifecycle changes inside the
// same transaction as the write itself, so derived state it maintains is
// never observably stale to a subsequent read.
type ReservationObserver interface {
	ReservationCreated(tx *sqlx.Tx, tripID uuid.UUID) error
	ReservationDeleted(tx *sqlx.Tx, tripID uuid.UUID) error
}

// Constraint names from the reservations table, pinned in the schema.
const (
	reservationSeatConstraint      = "reservations_trip_id_seat_id_key"
	reservationReferenceConstraint = "reservations_reference_key"
)

// ReservationRepository handles reservation database operations. Creates and
// deletes run in a transaction together with the registered observers.
type ReservationRepository struct {
	db        *sqlx.DB
	observers []ReservationObserver
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db *sqlx.DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

// RegisterObserver adds an observer of reservation lifecycle changes.
// Observers must be registered before the repository is used; registration is
// not safe for concurrent use with Create/Delete.
func (r *ReservationRepository) RegisterObserver(obs ReservationObserver) {
	r.observers = append(r.observers, obs)
}

// GenerateTicketReference generates a unique ticket reference.
// Format: TK-YYYYMMDD-XXXXXX (6 char alphanumeric)
func (r *ReservationRepository) GenerateTicketReference() (string, error) {
	todayStr := time.Now().Format("20060102")

	for attempts := 0; attempts < 10; attempts++ {
		randomBytes := make([]byte, 3)
		if _, err := rand.Read(randomBytes); err != nil {
			return "", fmt.Errorf("failed to generate random bytes: %w", err)
		}
		randomStr := strings.ToUpper(hex.EncodeToString(randomBytes))

		newRef := fmt.Sprintf("TK-%s-%s", todayStr, randomStr)

		var count int
		err := r.db.Get(&count, `SELECT COUNT(*) FROM reservations WHERE reference = $1`, newRef)
		if err != nil {
			return "", fmt.Errorf("failed to check reference uniqueness: %w", err)
		}

		if count == 0 {
			return newRef, nil
		}
	}

	return "", fmt.Errorf("failed to generate unique ticket reference after 10 attempts")
}

// Create persists a reservation and notifies observers in one transaction.
// A race on the (trip_id, seat_id) unique constraint returns
// models.ErrSeatTaken so callers can retry with a different seat; a reference
// collision returns models.ErrTicketReferenceTaken.
func (r *ReservationRepository) Create(res *models.Reservation) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO reservations (
			id, reference, user_id, trip_id, seat_id, discount_card_id,
			traveler_name, traveler_surname, traveler_birth_date, price, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`

	res.ID = uuid.New()
	err = tx.QueryRowx(query,
		res.ID, res.Reference, res.UserID, res.TripID, res.SeatID, res.DiscountCardID,
		res.TravelerName, res.TravelerSurname, res.TravelerBirthDate, res.Price, time.Now(),
	).Scan(&res.CreatedAt)
	if err != nil {
		if isUniqueViolationOn(err, reservationSeatConstraint) {
			return models.ErrSeatTaken
		}
		if isUniqueViolationOn(err, reservationReferenceConstraint) {
			return models.ErrTicketReferenceTaken
		}
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	for _, obs := range r.observers {
		if err := obs.ReservationCreated(tx, res.TripID); err != nil {
			return fmt.Errorf("reservation observer failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	return nil
}

// Delete removes a user's reservation and notifies observers in one
// transaction. Deleting another user's reservation reports not found.
func (r *ReservationRepository) Delete(id, userID uuid.UUID) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var tripID uuid.UUID
	err = tx.QueryRowx(`
		DELETE FROM reservations
		WHERE id = $1 AND user_id = $2
		RETURNING trip_id
	`, id, userID).Scan(&tripID)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.ErrReservationNotFound
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	for _, obs := range r.observers {
		if err := obs.ReservationDeleted(tx, tripID); err != nil {
			return fmt.Errorf("reservation observer failed: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation delete: %w", err)
	}

	return nil
}

const reservationDetailColumns = `
	res.id, res.reference, res.user_id, res.trip_id, res.seat_id, res.discount_card_id,
	res.traveler_name, res.traveler_surname, res.traveler_birth_date, res.price, res.created_at,
	ds.name AS departure_station, ars.name AS arrival_station,
	t.departure_at, t.arrival_at,
	c.number AS car_number, s.number AS seat_number, s.class AS seat_class`

const reservationDetailJoins = `
	FROM reservations res
	JOIN trips t ON res.trip_id = t.id
	JOIN stations ds ON t.departure_station_id = ds.id
	JOIN stations ars ON t.arrival_station_id = ars.id
	JOIN seats s ON res.seat_id = s.id
	JOIN cars c ON s.car_id = c.id`

// GetDetail returns a reservation joined with trip, station and seat info
func (r *ReservationRepository) GetDetail(id uuid.UUID) (*models.ReservationDetail, error) {
	query := `SELECT ` + reservationDetailColumns + reservationDetailJoins + ` WHERE res.id = $1`

	var detail models.ReservationDetail
	err := r.db.Get(&detail, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrReservationNotFound
		}
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}

	return &detail, nil
}

// ListByUser returns a user's reservations, newest departure first
func (r *ReservationRepository) ListByUser(userID uuid.UUID) ([]models.ReservationDetail, error) {
	query := `SELECT ` + reservationDetailColumns + reservationDetailJoins + `
		WHERE res.user_id = $1
		ORDER BY t.departure_at DESC`

	var details []models.ReservationDetail
	if err := r.db.Select(&details, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}

	return details, nil
}

// CountByTrip returns the number of reservations for a trip
func (r *ReservationRepository) CountByTrip(tripID uuid.UUID) (int, error) {
	var count int
	err := r.db.Get(&count, `SELECT COUNT(*) FROM reservations WHERE trip_id = $1`, tripID)
	if err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	return count, nil
}
