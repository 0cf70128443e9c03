package clinic

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/platform/apperr"
	"github.com/dentio/dentio/internal/platform/db"
)

// CatalogSeeder installs the standard condition/procedure sets for a new
// clinic. Satisfied by the catalog service.
type CatalogSeeder interface {
	SeedStandard(ctx context.Context, clinicID uuid.UUID) error
}

type Service struct {
	repo   Repository
	seeder CatalogSeeder
	tx     db.TxRunner
}

func NewService(repo Repository, seeder CatalogSeeder, tx db.TxRunner) *Service {
	return &Service{repo: repo, seeder: seeder, tx: tx}
}

// Create registers a clinic and seeds its standard catalogs in the same
// transaction, so a clinic never exists without them.
func (s *Service) Create(ctx context.Context, c *Clinic) error {
	if c.Name == "" {
		return apperr.Validation("name", "this field is required")
	}
	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Create(ctx, c); err != nil {
			return err
		}
		return s.seeder.SeedStandard(ctx, c.ID)
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Clinic, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Clinic, int, error) {
	return s.repo.List(ctx, limit, offset)
}

// UpdateInput carries the mutable clinic fields. Nil fields keep their
// prior value.
type UpdateInput struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Clinic, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("name", "this field is required")
		}
		c.Name = *in.Name
	}
	if in.Address != nil {
		c.Address = *in.Address
	}
	if in.Phone != nil {
		c.Phone = *in.Phone
	}
	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
