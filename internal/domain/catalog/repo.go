package catalog

import (
	"context"

	"github.com/google/uuid"
)

// ConditionFilter narrows ListConditions. Search ORs name/code/description
// case-insensitively.
type ConditionFilter struct {
	Search string
}

// ProcedureFilter narrows ListProcedures. Category is an exact match.
type ProcedureFilter struct {
	Search   string
	Category string
}

type ConditionRepository interface {
	Create(ctx context.Context, c *Condition) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Condition, error)
	List(ctx context.Context, clinicID uuid.UUID, f ConditionFilter, limit, offset int) ([]*Condition, int, error)
	// UpsertStandard inserts a standard entry unless the clinic already has
	// one with the same code.
	UpsertStandard(ctx context.Context, c *Condition) error
}

type ProcedureRepository interface {
	Create(ctx context.Context, p *Procedure) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Procedure, error)
	List(ctx context.Context, clinicID uuid.UUID, f ProcedureFilter, limit, offset int) ([]*Procedure, int, error)
	UpsertStandard(ctx context.Context, p *Procedure) error
}
