package history

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows a patient's history timeline. Zero values are ignored.
type Filter struct {
	ToothNumber string
	Category    string
	From        *time.Time
	To          *time.Time
}

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	Query(ctx context.Context, patientID uuid.UUID, f Filter, limit, offset int) ([]*Entry, int, error)
}
