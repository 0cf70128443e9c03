package chart

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/history"
	"github.com/dentio/dentio/internal/domain/user"
	"github.com/dentio/dentio/internal/platform/apperr"
	"github.com/dentio/dentio/internal/platform/db"
)

// PatientResolver confirms a patient exists within a clinic. Returns NotFound
// when the patient is absent or belongs to another clinic.
type PatientResolver interface {
	ResolvePatient(ctx context.Context, clinicID, patientID uuid.UUID) error
}

// Service is the chart entry engine. Every mutation runs inside one
// transaction together with its history append.
type Service struct {
	repo     Repository
	catalog  *catalog.Service
	patients PatientResolver
	history  *history.Service
	users    *user.Service
	tx       db.TxRunner
}

func NewService(repo Repository, cat *catalog.Service, patients PatientResolver,
	hist *history.Service, users *user.Service, tx db.TxRunner) *Service {
	return &Service{repo: repo, catalog: cat, patients: patients, history: hist, users: users, tx: tx}
}

// -- Inputs --

// AddConditionInput attaches a catalog condition to a tooth. Either
// ConditionID or CustomName must be set; a custom name creates a
// clinic-scoped catalog entry inline.
type AddConditionInput struct {
	ConditionID       *uuid.UUID `json:"condition_id"`
	CustomName        string     `json:"custom_name"`
	CustomCode        string     `json:"custom_code"`
	CustomDescription string     `json:"custom_description"`
	DentitionType     string     `json:"dentition_type"`
	Surface           string     `json:"surface"`
	Description       string     `json:"description"`
	Severity          string     `json:"severity"`
}

// UpdateConditionInput carries the mutable condition fields. Nil fields keep
// their prior value.
type UpdateConditionInput struct {
	Surface     *string `json:"surface"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
}

// AddProcedureInput attaches a catalog procedure to a tooth. DatePerformed
// accepts YYYY-MM-DD (or RFC 3339); a nil Price falls back to the catalog
// default price.
type AddProcedureInput struct {
	ProcedureID       *uuid.UUID `json:"procedure_id"`
	CustomName        string     `json:"custom_name"`
	CustomCode        string     `json:"custom_code"`
	CustomDescription string     `json:"custom_description"`
	CustomCategory    string     `json:"custom_category"`
	CustomPrice       *float64   `json:"custom_price"`
	DentitionType     string     `json:"dentition_type"`
	Surface           string     `json:"surface"`
	Description       string     `json:"description"`
	DatePerformed     string     `json:"date_performed"`
	Price             *float64   `json:"price"`
	Status            string     `json:"status"`
}

type UpdateProcedureInput struct {
	Surface       *string  `json:"surface"`
	Description   *string  `json:"description"`
	DatePerformed *string  `json:"date_performed"`
	Price         *float64 `json:"price"`
	Status        *string  `json:"status"`
}

type AddNoteInput struct {
	Note            string `json:"note"`
	AppointmentDate string `json:"appointment_date"`
}

// -- Provisioning --

// EnsureProvisioned creates the canonical 52-tooth inventory for a patient
// that has none. Safe under concurrent first-touch: the unique constraint
// backstops the check-then-create and race losers are treated as provisioned.
func (s *Service) EnsureProvisioned(ctx context.Context, patientID uuid.UUID) error {
	n, err := s.repo.CountTeeth(ctx, patientID)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	return s.repo.InsertTeeth(ctx, patientID, canonicalTeeth)
}

func (s *Service) resolveTooth(ctx context.Context, clinicID, patientID uuid.UUID, number, dentition string) (*Tooth, error) {
	if err := s.patients.ResolvePatient(ctx, clinicID, patientID); err != nil {
		return nil, err
	}
	if err := s.EnsureProvisioned(ctx, patientID); err != nil {
		return nil, err
	}
	tooth, err := s.repo.GetTooth(ctx, patientID, number)
	if err != nil {
		return nil, err
	}
	if dentition != "" && dentition != tooth.DentitionType {
		return nil, apperr.Validation("dentition_type", "dentition type does not match tooth number format")
	}
	return tooth, nil
}

// mutate is the shared skeleton for every chart mutation: resolve the tooth,
// run the kind-specific body, append exactly one history entry, commit or
// roll back the lot as one unit.
func (s *Service) mutate(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber, dentition string,
	kind EntryKind, action string, actor Actor,
	body func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error)) error {

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		tooth, err := s.resolveTooth(ctx, clinicID, patientID, toothNumber, dentition)
		if err != nil {
			return err
		}
		details, err := body(ctx, tooth)
		if err != nil {
			return err
		}
		category := kind.Category()
		return s.history.Record(ctx, &history.Entry{
			PatientID:   patientID,
			UserID:      actor.ID,
			Action:      action,
			ToothNumber: tooth.Number,
			Category:    &category,
			Details:     details,
		})
	})
}

// -- Conditions --

func (s *Service) AddCondition(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber string,
	in AddConditionInput, actor Actor) (*Condition, error) {

	severity := in.Severity
	if severity == "" {
		severity = SeverityModerate
	}
	if !validSeverities[severity] {
		return nil, apperr.Validation("severity", "must be one of mild, moderate, severe")
	}

	var created *Condition
	err := s.mutate(ctx, clinicID, patientID, toothNumber, in.DentitionType,
		KindCondition, history.ActionAddCondition, actor,
		func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error) {
			cat, err := s.resolveCatalogCondition(ctx, clinicID, in)
			if err != nil {
				return nil, err
			}

			cond := &Condition{
				ToothID:     tooth.ID,
				ConditionID: cat.ID,
				Surface:     in.Surface,
				Description: in.Description,
				Severity:    severity,
				CreatedBy:   actor.ID,
				UpdatedBy:   actor.ID,
			}
			if err := s.repo.InsertCondition(ctx, cond); err != nil {
				return nil, err
			}
			cond.ConditionName = cat.Name
			cond.ConditionCode = cat.Code
			cond.CreatedByName = actor.Name
			cond.UpdatedByName = actor.Name
			created = cond

			return map[string]interface{}{
				"condition_name": cat.Name,
				"condition_code": cat.Code,
				"surface":        cond.Surface,
				"severity":       cond.Severity,
				"description":    cond.Description,
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) resolveCatalogCondition(ctx context.Context, clinicID uuid.UUID, in AddConditionInput) (*catalog.Condition, error) {
	if in.ConditionID != nil {
		return s.catalog.GetCondition(ctx, clinicID, *in.ConditionID)
	}
	if in.CustomName == "" {
		return nil, apperr.Validation("condition_id", "condition_id or custom_name is required")
	}
	custom := &catalog.Condition{
		ClinicID:    clinicID,
		Name:        in.CustomName,
		Code:        in.CustomCode,
		Description: in.CustomDescription,
	}
	if err := s.catalog.CreateCondition(ctx, custom); err != nil {
		return nil, err
	}
	return custom, nil
}

func (s *Service) UpdateCondition(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber string,
	conditionID uuid.UUID, in UpdateConditionInput, actor Actor) (*Condition, error) {

	if in.Severity != nil && !validSeverities[*in.Severity] {
		return nil, apperr.Validation("severity", "must be one of mild, moderate, severe")
	}

	var updated *Condition
	err := s.mutate(ctx, clinicID, patientID, toothNumber, "",
		KindCondition, history.ActionUpdateCondition, actor,
		func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error) {
			cond, err := s.repo.GetCondition(ctx, tooth.ID, conditionID)
			if err != nil {
				return nil, err
			}

			details := map[string]interface{}{"condition_name": cond.ConditionName}
			if in.Surface != nil {
				cond.Surface = *in.Surface
				details["surface"] = cond.Surface
			}
			if in.Description != nil {
				cond.Description = *in.Description
				details["description"] = cond.Description
			}
			if in.Severity != nil {
				cond.Severity = *in.Severity
				details["severity"] = cond.Severity
			}
			cond.UpdatedBy = actor.ID
			if err := s.repo.UpdateCondition(ctx, cond); err != nil {
				return nil, err
			}
			cond.UpdatedByName = actor.Name
			updated = cond
			return details, nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) RemoveCondition(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber string,
	conditionID uuid.UUID, actor Actor) error {

	return s.mutate(ctx, clinicID, patientID, toothNumber, "",
		KindCondition, history.ActionRemoveCondition, actor,
		func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error) {
			cond, err := s.repo.GetCondition(ctx, tooth.ID, conditionID)
			if err != nil {
				return nil, err
			}
			// Snapshot before the row disappears: the timeline must stay
			// reconstructable after deletion.
			details := map[string]interface{}{
				"condition_name": cond.ConditionName,
				"surface":        cond.Surface,
				"severity":       cond.Severity,
			}
			if err := s.repo.DeleteCondition(ctx, cond.ID); err != nil {
				return nil, err
			}
			return details, nil
		})
}

// -- Procedures --

func (s *Service) AddProcedure(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber string,
	in AddProcedureInput, actor Actor) (*Procedure, error) {

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

	var created *Procedure
	err = s.mutate(ctx, clinicID, patientID, toothNumber, in.DentitionType,
		KindProcedure, history.ActionAddProcedure, actor,
		func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error) {
			cat, err := s.resolveCatalogProcedure(ctx, clinicID, in)
			if err != nil {
				return nil, err
			}

			price := cat.DefaultPrice
			if in.Price != nil {
				price = *in.Price
			}
			proc := &Procedure{
				ToothID:       tooth.ID,
				ProcedureID:   cat.ID,
				Surface:       in.Surface,
				Description:   in.Description,
				DatePerformed: datePerformed,
				Price:         price,
				Status:        status,
			}
			if datePerformed != nil {
				proc.PerformedBy = actor.ID
			}
			if err := s.repo.InsertProcedure(ctx, proc); err != nil {
				return nil, err
			}
			proc.ProcedureName = cat.Name
			proc.ProcedureCode = cat.Code
			proc.Category = cat.Category
			if proc.PerformedBy != nil {
				proc.PerformedByName = actor.Name
			}
			created = proc

			details := map[string]interface{}{
				"procedure_name": cat.Name,
				"procedure_code": cat.Code,
				"surface":        proc.Surface,
				"status":         proc.Status,
				"price":          proc.Price,
			}
			if datePerformed != nil {
				details["date_performed"] = datePerformed.Format("2006-01-02")
			}
			return details, nil
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *Service) resolveCatalogProcedure(ctx context.Context, clinicID uuid.UUID, in AddProcedureInput) (*catalog.Procedure, error) {
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

func (s *Service) UpdateProcedure(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber string,
	procedureID uuid.UUID, in UpdateProcedureInput, actor Actor) (*Procedure, error) {

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

	var updated *Procedure
	err := s.mutate(ctx, clinicID, patientID, toothNumber, "",
		KindProcedure, history.ActionUpdateProcedure, actor,
		func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error) {
			proc, err := s.repo.GetProcedure(ctx, tooth.ID, procedureID)
			if err != nil {
				return nil, err
			}

			details := map[string]interface{}{"procedure_name": proc.ProcedureName}
			if in.Surface != nil {
				proc.Surface = *in.Surface
				details["surface"] = proc.Surface
			}
			if in.Description != nil {
				proc.Description = *in.Description
				details["description"] = proc.Description
			}
			if in.DatePerformed != nil {
				proc.DatePerformed = datePerformed
				if datePerformed != nil {
					proc.PerformedBy = actor.ID
					details["date_performed"] = datePerformed.Format("2006-01-02")
				}
			}
			if in.Price != nil {
				proc.Price = *in.Price
				details["price"] = proc.Price
			}
			if in.Status != nil {
				proc.Status = *in.Status
				details["status"] = proc.Status
			}
			if err := s.repo.UpdateProcedure(ctx, proc); err != nil {
				return nil, err
			}
			updated = proc
			return details, nil
		})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *Service) RemoveProcedure(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber string,
	procedureID uuid.UUID, actor Actor) error {

	return s.mutate(ctx, clinicID, patientID, toothNumber, "",
		KindProcedure, history.ActionRemoveProcedure, actor,
		func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error) {
			proc, err := s.repo.GetProcedure(ctx, tooth.ID, procedureID)
			if err != nil {
				return nil, err
			}
			details := map[string]interface{}{
				"procedure_name": proc.ProcedureName,
				"surface":        proc.Surface,
				"status":         proc.Status,
				"price":          proc.Price,
			}
			if err := s.repo.DeleteProcedure(ctx, proc.ID); err != nil {
				return nil, err
			}
			return details, nil
		})
}

// -- Procedure notes --

func (s *Service) AddProcedureNote(ctx context.Context, clinicID, patientID uuid.UUID, toothNumber string,
	procedureID uuid.UUID, in AddNoteInput, actor Actor) (*Note, error) {

	if in.Note == "" {
		return nil, apperr.Validation("note", "this field is required")
	}
	appointmentDate, err := parseDate("appointment_date", in.AppointmentDate)
	if err != nil {
		return nil, err
	}
	if appointmentDate == nil {
		return nil, apperr.Validation("appointment_date", "this field is required")
	}

	var created *Note
	err = s.mutate(ctx, clinicID, patientID, toothNumber, "",
		KindProcedure, history.ActionAddProcedureNote, actor,
		func(ctx context.Context, tooth *Tooth) (map[string]interface{}, error) {
			proc, err := s.repo.GetProcedure(ctx, tooth.ID, procedureID)
			if err != nil {
				return nil, err
			}
			note := &Note{
				ChartProcedureID: proc.ID,
				Note:             in.Note,
				AppointmentDate:  *appointmentDate,
				CreatedBy:        actor.ID,
			}
			if err := s.repo.InsertNote(ctx, note); err != nil {
				return nil, err
			}
			note.CreatedByName = actor.Name
			created = note
			return map[string]interface{}{
				"procedure_name":   proc.ProcedureName,
				"note":             in.Note,
				"appointment_date": appointmentDate.Format("2006-01-02"),
			}, nil
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// -- Reads --

// GetChart assembles the full chart: teeth partitioned by dentition in
// canonical symbol order, entries nested per tooth, notes nested per
// procedure.
func (s *Service) GetChart(ctx context.Context, clinicID, patientID uuid.UUID) (*View, error) {
	if err := s.patients.ResolvePatient(ctx, clinicID, patientID); err != nil {
		return nil, err
	}
	if err := s.EnsureProvisioned(ctx, patientID); err != nil {
		return nil, err
	}

	teeth, err := s.repo.ListTeeth(ctx, patientID)
	if err != nil {
		return nil, err
	}
	conditions, err := s.repo.ListConditionsByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	procedures, err := s.repo.ListProceduresByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	notes, err := s.repo.ListNotesByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}

	names := newNameCache(s.users)

	notesByProc := make(map[uuid.UUID][]*Note)
	for _, n := range notes {
		n.CreatedByName = names.resolve(ctx, n.CreatedBy)
		notesByProc[n.ChartProcedureID] = append(notesByProc[n.ChartProcedureID], n)
	}

	views := make(map[uuid.UUID]*ToothView, len(teeth))
	view := &View{PatientID: patientID}
	for _, t := range teeth {
		tv := &ToothView{Tooth: *t, Conditions: []*Condition{}, Procedures: []*Procedure{}}
		views[t.ID] = tv
		if t.DentitionType == DentitionPrimary {
			view.PrimaryTeeth = append(view.PrimaryTeeth, tv)
		} else {
			view.PermanentTeeth = append(view.PermanentTeeth, tv)
		}
	}

	var lastUpdated *time.Time
	touch := func(t time.Time) {
		if lastUpdated == nil || t.After(*lastUpdated) {
			ts := t
			lastUpdated = &ts
		}
	}

	for _, c := range conditions {
		c.CreatedByName = names.resolve(ctx, c.CreatedBy)
		c.UpdatedByName = names.resolve(ctx, c.UpdatedBy)
		if tv, ok := views[c.ToothID]; ok {
			tv.Conditions = append(tv.Conditions, c)
		}
		touch(c.UpdatedAt)
	}
	for _, p := range procedures {
		p.PerformedByName = names.resolve(ctx, p.PerformedBy)
		p.Notes = notesByProc[p.ID]
		if p.Notes == nil {
			p.Notes = []*Note{}
		}
		if tv, ok := views[p.ToothID]; ok {
			tv.Procedures = append(tv.Procedures, p)
		}
		touch(p.CreatedAt)
	}
	view.LastUpdated = lastUpdated

	sort.Slice(view.PermanentTeeth, func(i, j int) bool {
		a, _ := strconv.Atoi(view.PermanentTeeth[i].Number)
		b, _ := strconv.Atoi(view.PermanentTeeth[j].Number)
		return a < b
	})
	sort.Slice(view.PrimaryTeeth, func(i, j int) bool {
		return view.PrimaryTeeth[i].Number < view.PrimaryTeeth[j].Number
	})

	return view, nil
}

// History returns the patient's chart timeline, clinic-checked.
func (s *Service) History(ctx context.Context, clinicID, patientID uuid.UUID, f history.Filter, limit, offset int) ([]*history.Entry, int, error) {
	if err := s.patients.ResolvePatient(ctx, clinicID, patientID); err != nil {
		return nil, 0, err
	}
	return s.history.Query(ctx, patientID, f, limit, offset)
}

// -- helpers --

// nameCache memoizes user display-name lookups within one read.
type nameCache struct {
	users *user.Service
	seen  map[uuid.UUID]string
}

func newNameCache(users *user.Service) *nameCache {
	return &nameCache{users: users, seen: make(map[uuid.UUID]string)}
}

func (c *nameCache) resolve(ctx context.Context, id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	if name, ok := c.seen[*id]; ok {
		return name
	}
	name := c.users.DisplayName(ctx, id)
	c.seen[*id] = name
	return name
}

// parseDate accepts YYYY-MM-DD or RFC 3339. Empty input is a nil date.
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
