package clinic

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/platform/apperr"
)

type mockRepo struct {
	items map[uuid.UUID]*Clinic
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[uuid.UUID]*Clinic)}
}

func (m *mockRepo) Create(_ context.Context, c *Clinic) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	stored := *c
	m.items[c.ID] = &stored
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Clinic, error) {
	c, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("clinic not found")
	}
	out := *c
	return &out, nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Clinic, int, error) {
	var out []*Clinic
	for _, c := range m.items {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *mockRepo) Update(_ context.Context, c *Clinic) error {
	stored, ok := m.items[c.ID]
	if !ok {
		return apperr.NotFound("clinic not found")
	}
	*stored = *c
	return nil
}

type mockSeeder struct {
	seeded []uuid.UUID
}

func (m *mockSeeder) SeedStandard(_ context.Context, clinicID uuid.UUID) error {
	m.seeded = append(m.seeded, clinicID)
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

func TestCreate_SeedsStandardCatalogs(t *testing.T) {
	seeder := &mockSeeder{}
	svc := NewService(newMockRepo(), seeder, passthroughTx{})

	c := &Clinic{Name: "Smile Dental Care"}
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	if len(seeder.seeded) != 1 || seeder.seeded[0] != c.ID {
		t.Fatalf("expected catalog seeding for %s, got %v", c.ID, seeder.seeded)
	}
}

func TestCreate_RequiresName(t *testing.T) {
	seeder := &mockSeeder{}
	svc := NewService(newMockRepo(), seeder, passthroughTx{})

	err := svc.Create(context.Background(), &Clinic{})
	ve, ok := apperr.AsValidation(err)
	if !ok || ve.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}
	if len(seeder.seeded) != 0 {
		t.Error("invalid clinic must not trigger seeding")
	}
}

func TestUpdate_PartialChanges(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, &mockSeeder{}, passthroughTx{})

	c := &Clinic{Name: "Smile Dental Care", Address: "12 Main St"}
	if err := svc.Create(context.Background(), c); err != nil {
		t.Fatal(err)
	}

	phone := "555-0142"
	updated, err := svc.Update(context.Background(), c.ID, UpdateInput{Phone: &phone})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Phone != "555-0142" {
		t.Errorf("phone = %q", updated.Phone)
	}
	if updated.Name != "Smile Dental Care" || updated.Address != "12 Main St" {
		t.Error("untouched fields must survive a partial update")
	}
}

func TestGet_Unknown(t *testing.T) {
	svc := NewService(newMockRepo(), &mockSeeder{}, passthroughTx{})
	if _, err := svc.Get(context.Background(), uuid.New()); !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
