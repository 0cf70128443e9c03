package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Condition maps to the dental_condition table: a clinic's catalog of
// chartable conditions. Standard entries are seeded per clinic; custom
// entries are created on demand and never marked standard.
type Condition struct {
	ID          uuid.UUID `db:"id" json:"id"`
	ClinicID    uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name        string    `db:"name" json:"name"`
	Code        string    `db:"code" json:"code"`
	Description string    `db:"description" json:"description"`
	ColorCode   string    `db:"color_code" json:"color_code"`
	Icon        string    `db:"icon" json:"icon"`
	IsStandard  bool      `db:"is_standard" json:"is_standard"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Procedure maps to the dental_procedure table: a clinic's catalog of
// billable procedures with default pricing.
type Procedure struct {
	ID              uuid.UUID `db:"id" json:"id"`
	ClinicID        uuid.UUID `db:"clinic_id" json:"clinic_id"`
	Name            string    `db:"name" json:"name"`
	Code            string    `db:"code" json:"code"`
	Description     string    `db:"description" json:"description"`
	Category        string    `db:"category" json:"category"`
	DefaultPrice    float64   `db:"default_price" json:"default_price"`
	DurationMinutes int       `db:"duration_minutes" json:"duration_minutes"`
	IsStandard      bool      `db:"is_standard" json:"is_standard"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
