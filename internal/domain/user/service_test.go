package user

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/platform/apperr"
)

type mockRepo struct{ store map[uuid.UUID]*User }

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[uuid.UUID]*User)} }

func (m *mockRepo) Create(_ context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.store[u.ID] = u
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*User, error) {
	u, ok := m.store[id]
	if !ok {
		return nil, apperr.NotFound("user not found")
	}
	return u, nil
}

func (m *mockRepo) GetByUsername(_ context.Context, username string) (*User, error) {
	for _, u := range m.store {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, apperr.NotFound("user not found")
}

func TestCreate_RequiresUsername(t *testing.T) {
	svc := NewService(newMockRepo())
	err := svc.Create(context.Background(), &User{FirstName: "Jane"})
	if _, ok := apperr.AsValidation(err); !ok {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFullNameOrUsername(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"full name", User{Username: "jdoe", FirstName: "Jane", LastName: "Doe"}, "Jane Doe"},
		{"first only", User{Username: "jdoe", FirstName: "Jane"}, "Jane"},
		{"last only", User{Username: "jdoe", LastName: "Doe"}, "Doe"},
		{"username fallback", User{Username: "jdoe"}, "jdoe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.FullNameOrUsername(); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestDisplayName_Degrades(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo)
	ctx := context.Background()

	if got := svc.DisplayName(ctx, nil); got != "" {
		t.Errorf("expected empty name for nil reference, got %q", got)
	}

	missing := uuid.New()
	if got := svc.DisplayName(ctx, &missing); got != "" {
		t.Errorf("expected empty name for unknown user, got %q", got)
	}

	u := &User{Username: "schen", FirstName: "Sarah", LastName: "Chen"}
	if err := svc.Create(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if got := svc.DisplayName(ctx, &u.ID); got != "Sarah Chen" {
		t.Errorf("expected Sarah Chen, got %q", got)
	}
}
