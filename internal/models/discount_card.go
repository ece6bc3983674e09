package models

import (
	"time"

	"github.com/google/uuid"
)

// Well-known discount card names. The "none" card carries 0% and is the
// default for travelers without a loyalty card. Age and lead-time cards are
// system-computed by the fare engine and never user-selectable.
const (
	CardNone       = "none"
	CardChild      = "child"  // age <= 8
	CardMinor      = "minor"  // age 9-18
	CardSenior     = "senior" // age >= 65
	CardLeadTime30 = "J-30"   // booked >= 30 days ahead
	CardLeadTime8  = "J-8"    // booked 9-29 days ahead
)

// DiscountCard is a named percentage-reduction category. UserSelectable marks
// cards a traveler may pick at booking time, as opposed to the age/lead-time
// cards the fare engine applies on its own.
type DiscountCard struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Percentage     float64   `json:"percentage" db:"percentage"`
	UserSelectable bool      `json:"user_selectable" db:"user_selectable"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
