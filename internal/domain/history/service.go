package history

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/user"
	"github.com/dentio/dentio/internal/platform/apperr"
)

type Service struct {
	entries Repository
	users   *user.Service
}

func NewService(entries Repository, users *user.Service) *Service {
	return &Service{entries: entries, users: users}
}

// Record appends one history entry. Called inside the chart mutation
// transaction so the entry and the mutation commit together.
func (s *Service) Record(ctx context.Context, e *Entry) error {
	if e.PatientID == uuid.Nil {
		return apperr.Validation("patient_id", "this field is required")
	}
	if e.Action == "" {
		return apperr.Validation("action", "this field is required")
	}
	return s.entries.Create(ctx, e)
}

// Query returns a patient's timeline newest-first, with user display names
// resolved for attribution. Unknown users leave the name empty.
func (s *Service) Query(ctx context.Context, patientID uuid.UUID, f Filter, limit, offset int) ([]*Entry, int, error) {
	items, total, err := s.entries.Query(ctx, patientID, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, e := range items {
		e.UserName = s.users.DisplayName(ctx, e.UserID)
	}
	return items, total, nil
}
