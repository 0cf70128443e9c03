package history

import (
	"time"

	"github.com/google/uuid"
)

// Chart history actions. One entry is appended per successful chart mutation;
// entries are never updated or deleted.
const (
	ActionAddCondition     = "add_condition"
	ActionUpdateCondition  = "update_condition"
	ActionRemoveCondition  = "remove_condition"
	ActionAddProcedure     = "add_procedure"
	ActionUpdateProcedure  = "update_procedure"
	ActionRemoveProcedure  = "remove_procedure"
	ActionAddProcedureNote = "add_procedure_note"
)

// Entry categories group history rows for filtered timelines.
const (
	CategoryConditions = "conditions"
	CategoryProcedures = "procedures"
)

// Entry maps to the chart_history table. Details is a free-form JSONB
// snapshot of the mutated fields, carrying display names rather than bare
// catalog ids so the timeline stays readable after catalog edits.
type Entry struct {
	ID          uuid.UUID              `db:"id" json:"id"`
	PatientID   uuid.UUID              `db:"patient_id" json:"patient_id"`
	UserID      *uuid.UUID             `db:"user_id" json:"user_id,omitempty"`
	UserName    string                 `db:"-" json:"user_name,omitempty"`
	Date        time.Time              `db:"date" json:"date"`
	Action      string                 `db:"action" json:"action"`
	ToothNumber string                 `db:"tooth_number" json:"tooth_number"`
	Category    *string                `db:"category" json:"category,omitempty"`
	Details     map[string]interface{} `db:"details" json:"details"`
}
