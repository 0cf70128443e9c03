package chart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists teeth and chart entries. Lookups scoped by tooth or
// patient return NotFound for ids outside that scope so guessed ids can never
// cross patients.
type Repository interface {
	// Teeth
	CountTeeth(ctx context.Context, patientID uuid.UUID) (int, error)
	InsertTeeth(ctx context.Context, patientID uuid.UUID, specs []ToothSpec) error
	GetTooth(ctx context.Context, patientID uuid.UUID, number string) (*Tooth, error)
	ListTeeth(ctx context.Context, patientID uuid.UUID) ([]*Tooth, error)

	// Conditions
	InsertCondition(ctx context.Context, c *Condition) error
	GetCondition(ctx context.Context, toothID, id uuid.UUID) (*Condition, error)
	UpdateCondition(ctx context.Context, c *Condition) error
	DeleteCondition(ctx context.Context, id uuid.UUID) error
	ListConditionsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Condition, error)

	// Procedures
	InsertProcedure(ctx context.Context, p *Procedure) error
	GetProcedure(ctx context.Context, toothID, id uuid.UUID) (*Procedure, error)
	UpdateProcedure(ctx context.Context, p *Procedure) error
	DeleteProcedure(ctx context.Context, id uuid.UUID) error
	ListProceduresByPatient(ctx context.Context, patientID uuid.UUID) ([]*Procedure, error)

	// Procedure notes
	InsertNote(ctx context.Context, n *Note) error
	ListNotesByProcedure(ctx context.Context, procedureID uuid.UUID) ([]*Note, error)
	ListNotesByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error)
}
