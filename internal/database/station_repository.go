package database

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/railbook/booking-backend/internal/models"
)

// StationRepository handles station database operations
type StationRepository struct {
	db DB
}

// NewStationRepository creates a new StationRepository
func NewStationRepository(db DB) *StationRepository {
	return &StationRepository{db: db}
}

// ListStations returns all stations ordered by name
func (r *StationRepository) ListStations() ([]models.Station, error) {
	query := `
		SELECT id, name, city, created_at
		FROM stations
		ORDER BY name
	`

	var stations []models.Station
	if err := r.db.Select(&stations, query); err != nil {
		return nil, fmt.Errorf("failed to list stations: %w", err)
	}

	return stations, nil
}

// GetByName returns a station by exact name match (case-insensitive)
func (r *StationRepository) GetByName(name string) (*models.Station, error) {
	query := `
		SELECT id, name, city, created_at
		FROM stations
		WHERE LOWER(name) = LOWER($1)
	`

	var station models.Station
	err := r.db.Get(&station, query, strings.TrimSpace(name))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, models.ErrStationNotFound
		}
		return nil, fmt.Errorf("failed to fetch station: %w", err)
	}

	return &station, nil
}
