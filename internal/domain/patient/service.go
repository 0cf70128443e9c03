package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/platform/apperr"
)

// Provisioner creates a patient's tooth inventory. Satisfied by the chart
// service; kept as an interface so this package stays chart-agnostic.
type Provisioner interface {
	EnsureProvisioned(ctx context.Context, patientID uuid.UUID) error
}

type Service struct {
	repo        Repository
	provisioner Provisioner
}

func NewService(repo Repository, provisioner Provisioner) *Service {
	return &Service{repo: repo, provisioner: provisioner}
}

// Create registers a patient and eagerly provisions the dentition so the
// first chart read never pays the setup cost.
func (s *Service) Create(ctx context.Context, p *Patient) error {
	if p.ClinicID == uuid.Nil {
		return apperr.Validation("clinic_id", "this field is required")
	}
	if p.Name == "" {
		return apperr.Validation("name", "this field is required")
	}
	if p.Age < 0 {
		return apperr.Validation("age", "must not be negative")
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	return s.provisioner.EnsureProvisioned(ctx, p.ID)
}

func (s *Service) Get(ctx context.Context, clinicID, id uuid.UUID) (*Patient, error) {
	return s.repo.GetByID(ctx, clinicID, id)
}

func (s *Service) List(ctx context.Context, clinicID uuid.UUID, f Filter, limit, offset int) ([]*Patient, int, error) {
	return s.repo.List(ctx, clinicID, f, limit, offset)
}

// UpdateInput carries the mutable patient fields. Nil fields keep their
// prior value.
type UpdateInput struct {
	Name   *string `json:"name"`
	Age    *int    `json:"age"`
	Gender *string `json:"gender"`
	Phone  *string `json:"phone"`
	Email  *string `json:"email"`
}

func (s *Service) Update(ctx context.Context, clinicID, id uuid.UUID, in UpdateInput) (*Patient, error) {
	p, err := s.repo.GetByID(ctx, clinicID, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, apperr.Validation("name", "this field is required")
		}
		p.Name = *in.Name
	}
	if in.Age != nil {
		if *in.Age < 0 {
			return nil, apperr.Validation("age", "must not be negative")
		}
		p.Age = *in.Age
	}
	if in.Gender != nil {
		p.Gender = *in.Gender
	}
	if in.Phone != nil {
		p.Phone = *in.Phone
	}
	if in.Email != nil {
		p.Email = *in.Email
	}
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, clinicID, id uuid.UUID) error {
	return s.repo.Delete(ctx, clinicID, id)
}

// ResolvePatient reports whether the patient exists in the clinic. Used by
// the chart service before any chart operation.
func (s *Service) ResolvePatient(ctx context.Context, clinicID, patientID uuid.UUID) error {
	_, err := s.repo.GetByID(ctx, clinicID, patientID)
	return err
}
