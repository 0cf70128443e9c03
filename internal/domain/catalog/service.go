package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/platform/apperr"
)

type Service struct {
	conditions ConditionRepository
	procedures ProcedureRepository
}

func NewService(conditions ConditionRepository, procedures ProcedureRepository) *Service {
	return &Service{conditions: conditions, procedures: procedures}
}

// -- Conditions --

func (s *Service) CreateCondition(ctx context.Context, c *Condition) error {
	if c.ClinicID == uuid.Nil {
		return apperr.Validation("clinic_id", "this field is required")
	}
	if c.Name == "" {
		return apperr.Validation("name", "this field is required")
	}
	// Clinic-authored entries are never standard, whatever the client sent.
	c.IsStandard = false
	return s.conditions.Create(ctx, c)
}

func (s *Service) GetCondition(ctx context.Context, clinicID, id uuid.UUID) (*Condition, error) {
	return s.conditions.GetByID(ctx, clinicID, id)
}

func (s *Service) ListConditions(ctx context.Context, clinicID uuid.UUID, f ConditionFilter, limit, offset int) ([]*Condition, int, error) {
	return s.conditions.List(ctx, clinicID, f, limit, offset)
}

// -- Procedures --

func (s *Service) CreateProcedure(ctx context.Context, p *Procedure) error {
	if p.ClinicID == uuid.Nil {
		return apperr.Validation("clinic_id", "this field is required")
	}
	if p.Name == "" {
		return apperr.Validation("name", "this field is required")
	}
	if p.DefaultPrice < 0 {
		return apperr.Validation("default_price", "must not be negative")
	}
	p.IsStandard = false
	return s.procedures.Create(ctx, p)
}

func (s *Service) GetProcedure(ctx context.Context, clinicID, id uuid.UUID) (*Procedure, error) {
	return s.procedures.GetByID(ctx, clinicID, id)
}

func (s *Service) ListProcedures(ctx context.Context, clinicID uuid.UUID, f ProcedureFilter, limit, offset int) ([]*Procedure, int, error) {
	return s.procedures.List(ctx, clinicID, f, limit, offset)
}

// SeedStandard installs the standard condition and procedure sets for a
// clinic. Safe to call repeatedly: entries the clinic already has (by code)
// are left untouched.
func (s *Service) SeedStandard(ctx context.Context, clinicID uuid.UUID) error {
	for _, c := range StandardConditions {
		c.ClinicID = clinicID
		if err := s.conditions.UpsertStandard(ctx, &c); err != nil {
			return err
		}
	}
	for _, p := range StandardProcedures {
		p.ClinicID = clinicID
		if err := s.procedures.UpsertStandard(ctx, &p); err != nil {
			return err
		}
	}
	return nil
}
