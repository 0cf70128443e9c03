package generalprocedure

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/user"
	"github.com/dentio/dentio/internal/platform/apperr"
)

// PatientResolver confirms a patient exists within a clinic.
type PatientResolver interface {
	ResolvePatient(ctx context.Context, clinicID, patientID uuid.UUID) error
}

type Service struct {
	repo     Repository
	catalog  *catalog.Service
	patients PatientResolver
	users    *user.Service
}

func NewService(repo Repository, cat *catalog.Service, patients PatientResolver, users *user.Service) *Service {
	return &Service{repo: repo, catalog: cat, patients: patients, users: users}
}

// CreateInput records a general procedure. Either ProcedureID or CustomName
// must be set; a custom name creates a clinic-scoped catalog entry inline,
// same as tooth-level charting.
type CreateInput struct {
	ProcedureID       *uuid.UUID `json:"procedure_id"`
	CustomName        string     `json:"custom_name"`
	CustomCode        string     `json:"custom_code"`
	CustomDescription string     `json:"custom_description"`
	CustomCategory    string     `json:"custom_category"`
	CustomPrice       *float64   `json:"custom_price"`
	DentistID         *uuid.UUID `json:"dentist_id"`
	Notes             string     `json:"notes"`
	Description       string     `json:"description"`
	DatePerformed     string     `json:"date_performed"`
	Price             *float64   `json:"price"`
	Status            string     `json:"status"`
}

func (s *Service) Create(ctx context.Context, clinicID, patientID uuid.UUID, in CreateInput) (*GeneralProcedure, error) {
	status := in.Status
	if status == "" {
		status = StatusPlanned
	}
	if !validStatuses[status] {
		return nil, apperr.Validation("status", "must be one of planned, in_progress, completed, cancelled")
	}
	datePerformed, err := parseDate("date_performed", in.DatePerformed)
	if err != nil {
		return nil, err
	}
	if err := s.patients.ResolvePatient(ctx, clinicID, patientID); err != nil {
		return nil, err
	}

	cat, err := s.resolveCatalog(ctx, clinicID, in)
	if err != nil {
		return nil, err
	}

	price := cat.DefaultPrice
	if in.Price != nil {
		price = *in.Price
	}
	g := &GeneralProcedure{
		ClinicID:      clinicID,
		PatientID:     patientID,
		ProcedureID:   cat.ID,
		DentistID:     in.DentistID,
		Notes:         in.Notes,
		Description:   in.Description,
		DatePerformed: datePerformed,
		Price:         price,
		Status:        status,
	}
	if err := s.repo.Create(ctx, g); err != nil {
		return nil, err
	}
	g.ProcedureName = cat.Name
	g.ProcedureCode = cat.Code
	g.Category = cat.Category
	g.DentistName = s.users.DisplayName(ctx, g.DentistID)
	return g, nil
}

func (s *Service) resolveCatalog(ctx context.Context, clinicID uuid.UUID, in CreateInput) (*catalog.Procedure, error) {
	if in.ProcedureID != nil {
		return s.catalog.GetProcedure(ctx, clinicID, *in.ProcedureID)
	}
	if in.CustomName == "" {
		return nil, apperr.Validation("procedure_id", "procedure_id or custom_name is required")
	}
	custom := &catalog.Procedure{
		ClinicID:    clinicID,
		Name:        in.CustomName,
		Code:        in.CustomCode,
		Description: in.CustomDescription,
		Category:    in.CustomCategory,
	}
	if in.CustomPrice != nil {
		custom.DefaultPrice = *in.CustomPrice
	}
	if err := s.catalog.CreateProcedure(ctx, custom); err != nil {
		return nil, err
	}
	return custom, nil
}

func (s *Service) Get(ctx context.Context, clinicID, patientID, id uuid.UUID) (*GeneralProcedure, error) {
	g, err := s.repo.GetByID(ctx, clinicID, patientID, id)
	if err != nil {
		return nil, err
	}
	g.DentistName = s.users.DisplayName(ctx, g.DentistID)
	return g, nil
}

func (s *Service) List(ctx context.Context, clinicID, patientID uuid.UUID, f Filter, limit, offset int) ([]*GeneralProcedure, int, error) {
	if err := s.patients.ResolvePatient(ctx, clinicID, patientID); err != nil {
		return nil, 0, err
	}
	items, total, err := s.repo.ListByPatient(ctx, clinicID, patientID, f, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	for _, g := range items {
		g.DentistName = s.users.DisplayName(ctx, g.DentistID)
	}
	return items, total, nil
}

// UpdateInput carries the mutable fields. Nil fields keep their prior value.
type UpdateInput struct {
	DentistID     *uuid.UUID `json:"dentist_id"`
	Notes         *string    `json:"notes"`
	Description   *string    `json:"description"`
	DatePerformed *string    `json:"date_performed"`
	Price         *float64   `json:"price"`
	Status        *string    `json:"status"`
}

func (s *Service) Update(ctx context.Context, clinicID, patientID, id uuid.UUID, in UpdateInput) (*GeneralProcedure, error) {
	if in.Status != nil && !validStatuses[*in.Status] {
		return nil, apperr.Validation("status", "must be one of planned, in_progress, completed, cancelled")
	}
	var datePerformed *time.Time
	if in.DatePerformed != nil {
		var err error
		datePerformed, err = parseDate("date_performed", *in.DatePerformed)
		if err != nil {
			return nil, err
		}
	}

	g, err := s.repo.GetByID(ctx, clinicID, patientID, id)
	if err != nil {
		return nil, err
	}
	if in.DentistID != nil {
		g.DentistID = in.DentistID
	}
	if in.Notes != nil {
		g.Notes = *in.Notes
	}
	if in.Description != nil {
		g.Description = *in.Description
	}
	if in.DatePerformed != nil {
		g.DatePerformed = datePerformed
	}
	if in.Price != nil {
		g.Price = *in.Price
	}
	if in.Status != nil {
		g.Status = *in.Status
	}
	if err := s.repo.Update(ctx, g); err != nil {
		return nil, err
	}
	g.DentistName = s.users.DisplayName(ctx, g.DentistID)
	return g, nil
}

func (s *Service) Delete(ctx context.Context, clinicID, patientID, id uuid.UUID) error {
	g, err := s.repo.GetByID(ctx, clinicID, patientID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, g.ID)
}

func parseDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return &t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return &t, nil
	}
	return nil, apperr.Validation(field, "must be a valid date in YYYY-MM-DD format")
}
