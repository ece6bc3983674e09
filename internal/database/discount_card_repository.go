package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/railbook/booking-backend/internal/models"
)

// DiscountCardRepository handles discount card database operations
type DiscountCardRepository struct {
	db DB
}

// NewDiscountCardRepository creates a new DiscountCardRepository
func NewDiscountCardRepository(db DB) *DiscountCardRepository {
	return &DiscountCardRepository{db: db}
}

// GetByID returns a discount card by ID
func (r *DiscountCardRepository) GetByID(id uuid.UUID) (*models.DiscountCard, error) {
	query := `
		SELECT id, name, percentage, user_selectable, created_at
		FROM discount_cards
		WHERE id = $1
	`

	var card models.DiscountCard
	err := r.db.Get(&card, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrDiscountCardNotFound
		}
		return nil, fmt.Errorf("failed to fetch discount card: %w", err)
	}

	return &card, nil
}

// GetByName returns a discount card by its unique name. The fare engine uses
// this to resolve the system-computed age and lead-time cards.
func (r *DiscountCardRepository) GetByName(name string) (*models.DiscountCard, error) {
	query := `
		SELECT id, name, percentage, user_selectable, created_at
		FROM discount_cards
		WHERE name = $1
	`

	var card models.DiscountCard
	err := r.db.Get(&card, query, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", models.ErrDiscountCardNotFound, name)
		}
		return nil, fmt.Errorf("failed to fetch discount card: %w", err)
	}

	return &card, nil
}

// ListSelectable returns the cards a traveler may pick at booking time
func (r *DiscountCardRepository) ListSelectable() ([]models.DiscountCard, error) {
	query := `
		SELECT id, name, percentage, user_selectable, created_at
		FROM discount_cards
		WHERE user_selectable = true
		ORDER BY name
	`

	var cards []models.DiscountCard
	if err := r.db.Select(&cards, query); err != nil {
		return nil, fmt.Errorf("failed to list discount cards: %w", err)
	}

	return cards, nil
}
