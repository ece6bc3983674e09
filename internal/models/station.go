package models

import (
	"time"

	"github.com/google/uuid"
)

// Station represents a train station served by the network
type Station struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	City      string    `json:"city" db:"city"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
