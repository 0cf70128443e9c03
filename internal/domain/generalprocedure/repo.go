package generalprocedure

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows List. Status is an exact match.
type Filter struct {
	Status string
}

type Repository interface {
	Create(ctx context.Context, g *GeneralProcedure) error
	GetByID(ctx context.Context, clinicID, patientID, id uuid.UUID) (*GeneralProcedure, error)
	// ListByPatient returns the patient's general procedures newest first.
	ListByPatient(ctx context.Context, clinicID, patientID uuid.UUID, f Filter, limit, offset int) ([]*GeneralProcedure, int, error)
	Update(ctx context.Context, g *GeneralProcedure) error
	Delete(ctx context.Context, id uuid.UUID) error
}
