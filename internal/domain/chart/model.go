package chart

import (
	"time"

	"github.com/google/uuid"
)

// EntryKind discriminates the two chart entry types that share the
// add/update/remove + history flow.
type EntryKind string

const (
	KindCondition EntryKind = "condition"
	KindProcedure EntryKind = "procedure"
)

// Category returns the history category for this entry kind.
func (k EntryKind) Category() string {
	if k == KindCondition {
		return "conditions"
	}
	return "procedures"
}

// Condition severities.
const (
	SeverityMild     = "mild"
	SeverityModerate = "moderate"
	SeveritySevere   = "severe"
)

// Procedure statuses.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusCancelled  = "cancelled"
)

var validSeverities = map[string]bool{
	SeverityMild: true, SeverityModerate: true, SeveritySevere: true,
}

var validStatuses = map[string]bool{
	StatusPlanned: true, StatusInProgress: true, StatusCompleted: true, StatusCancelled: true,
}

// Actor is the acting user, passed explicitly into every mutation. ID may be
// nil (attribution degrades, never blocks); Name is the display name used in
// responses and history snapshots.
type Actor struct {
	ID   *uuid.UUID
	Name string
}

// Tooth maps to the chart_tooth table: one tooth of one patient's dentition.
// (patient_id, number, dentition_type) is unique.
type Tooth struct {
	ID              uuid.UUID `db:"id" json:"id"`
	PatientID       uuid.UUID `db:"patient_id" json:"patient_id"`
	Number          string    `db:"number" json:"number"`
	UniversalNumber *int      `db:"universal_number" json:"universal_number,omitempty"`
	DentitionType   string    `db:"dentition_type" json:"dentition_type"`
	Name            string    `db:"name" json:"name"`
	Quadrant        string    `db:"quadrant" json:"quadrant"`
}

// Condition maps to the chart_condition table: one occurrence of a catalog
// condition on one tooth. The *Name fields are denormalized for display and
// never persisted on the row.
type Condition struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	ToothID     uuid.UUID  `db:"tooth_id" json:"tooth_id"`
	ConditionID uuid.UUID  `db:"condition_id" json:"condition_id"`
	Surface     string     `db:"surface" json:"surface"`
	Description string     `db:"description" json:"description"`
	Severity    string     `db:"severity" json:"severity"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
	CreatedBy   *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	UpdatedBy   *uuid.UUID `db:"updated_by" json:"updated_by,omitempty"`

	ConditionName string `db:"-" json:"condition_name,omitempty"`
	ConditionCode string `db:"-" json:"condition_code,omitempty"`
	CreatedByName string `db:"-" json:"created_by_name,omitempty"`
	UpdatedByName string `db:"-" json:"updated_by_name,omitempty"`
}

// Procedure maps to the chart_procedure table: one occurrence of a catalog
// procedure on one tooth, with the price captured at charting time.
type Procedure struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	ToothID       uuid.UUID  `db:"tooth_id" json:"tooth_id"`
	ProcedureID   uuid.UUID  `db:"procedure_id" json:"procedure_id"`
	Surface       string     `db:"surface" json:"surface"`
	Description   string     `db:"description" json:"description"`
	DatePerformed *time.Time `db:"date_performed" json:"date_performed,omitempty"`
	PerformedBy   *uuid.UUID `db:"performed_by" json:"performed_by,omitempty"`
	Price         float64    `db:"price" json:"price"`
	Status        string     `db:"status" json:"status"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`

	ProcedureName   string  `db:"-" json:"procedure_name,omitempty"`
	ProcedureCode   string  `db:"-" json:"procedure_code,omitempty"`
	Category        string  `db:"-" json:"category,omitempty"`
	PerformedByName string  `db:"-" json:"performed_by_name,omitempty"`
	Notes           []*Note `db:"-" json:"notes,omitempty"`
}

// Note maps to the procedure_note table: a progress note on a chart
// procedure, listed newest-appointment-date first.
type Note struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	ChartProcedureID uuid.UUID  `db:"chart_procedure_id" json:"chart_procedure_id"`
	Note             string     `db:"note" json:"note"`
	AppointmentDate  time.Time  `db:"appointment_date" json:"appointment_date"`
	CreatedBy        *uuid.UUID `db:"created_by" json:"created_by,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`

	CreatedByName string `db:"-" json:"created_by_name,omitempty"`
}

// ToothView is one tooth with its nested entries, as returned by GetChart.
type ToothView struct {
	Tooth
	Conditions []*Condition `json:"conditions"`
	Procedures []*Procedure `json:"procedures"`
}

// View is the assembled chart for one patient.
type View struct {
	PatientID      uuid.UUID    `json:"patient_id"`
	PermanentTeeth []*ToothView `json:"permanent_teeth"`
	PrimaryTeeth   []*ToothView `json:"primary_teeth"`
	LastUpdated    *time.Time   `json:"last_updated"`
}
