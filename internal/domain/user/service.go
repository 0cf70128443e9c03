package user

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/platform/apperr"
)

type Service struct {
	users Repository
}

func NewService(users Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Create(ctx context.Context, u *User) error {
	if u.Username == "" {
		return apperr.Validation("username", "this field is required")
	}
	return s.users.Create(ctx, u)
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return s.users.GetByID(ctx, id)
}

// DisplayName resolves a nullable user reference to a display name. Unknown
// or nil references yield the empty string so chart attribution degrades
// instead of failing the read.
func (s *Service) DisplayName(ctx context.Context, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	u, err := s.users.GetByID(ctx, *id)
	if err != nil {
		return ""
	}
	return u.FullNameOrUsername()
}
