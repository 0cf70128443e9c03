package generalprocedure

import (
	"time"

	"github.com/google/uuid"
)

// Procedure statuses, shared vocabulary with tooth-level chart procedures.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]bool{
	StatusPlanned: true, StatusInProgress: true, StatusCompleted: true, StatusCancelled: true,
}

// GeneralProcedure is a whole-mouth procedure performed on a patient without
// a specific tooth, e.g. cleanings or full-mouth debridement. The price is
// captured at recording time.
type GeneralProcedure struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ClinicID      uuid.UUID  `db:"clinic_id" json:"clinic_id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	ProcedureID   uuid.UUID  `db:"procedure_id" json:"procedure_id"`
	DentistID     *uuid.UUID `db:"dentist_id" json:"dentist_id,omitempty"`
	Notes         string     `db:"notes" json:"notes"`
	Description   string     `db:"description" json:"description"`
	DatePerformed *time.Time `db:"date_performed" json:"date_performed,omitempty"`
	Price         float64    `db:"price" json:"price"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`

	ProcedureName string `db:"-" json:"procedure_name,omitempty"`
	ProcedureCode string `db:"-" json:"procedure_code,omitempty"`
	Category      string `db:"-" json:"category,omitempty"`
	DentistName   string `db:"-" json:"dentist_name,omitempty"`
}
