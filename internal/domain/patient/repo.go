package patient

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows List. Search matches name, phone and email
// case-insensitively.
type Filter struct {
	Search string
}

type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error)
	List(ctx context.Context, clinicID uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, clinicID, id uuid.UUID) error
}
