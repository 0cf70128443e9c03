package chart

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/dentio/dentio/internal/domain/catalog"
	"github.com/dentio/dentio/internal/domain/history"
	"github.com/dentio/dentio/internal/domain/user"
	"github.com/dentio/dentio/internal/platform/apperr"
)

// -- in-memory doubles --

type memCondCatalog struct {
	items []*catalog.Condition
}

func (m *memCondCatalog) Create(_ context.Context, c *catalog.Condition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	m.items = append(m.items, c)
	return nil
}

func (m *memCondCatalog) GetByID(_ context.Context, clinicID, id uuid.UUID) (*catalog.Condition, error) {
	for _, c := range m.items {
		if c.ID == id && c.ClinicID == clinicID {
			return c, nil
		}
	}
	return nil, apperr.NotFound("dental condition not found")
}

func (m *memCondCatalog) List(context.Context, uuid.UUID, catalog.ConditionFilter, int, int) ([]*catalog.Condition, int, error) {
	return m.items, len(m.items), nil
}

func (m *memCondCatalog) UpsertStandard(ctx context.Context, c *catalog.Condition) error {
	return m.Create(ctx, c)
}

func (m *memCondCatalog) byID(id uuid.UUID) *catalog.Condition {
	for _, c := range m.items {
		if c.ID == id {
			return c
		}
	}
	return nil
}

type memProcCatalog struct {
	items []*catalog.Procedure
}

func (m *memProcCatalog) Create(_ context.Context, p *catalog.Procedure) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	m.items = append(m.items, p)
	return nil
}

func (m *memProcCatalog) GetByID(_ context.Context, clinicID, id uuid.UUID) (*catalog.Procedure, error) {
	for _, p := range m.items {
		if p.ID == id && p.ClinicID == clinicID {
			return p, nil
		}
	}
	return nil, apperr.NotFound("dental procedure not found")
}

func (m *memProcCatalog) List(context.Context, uuid.UUID, catalog.ProcedureFilter, int, int) ([]*catalog.Procedure, int, error) {
	return m.items, len(m.items), nil
}

func (m *memProcCatalog) UpsertStandard(ctx context.Context, p *catalog.Procedure) error {
	return m.Create(ctx, p)
}

func (m *memProcCatalog) byID(id uuid.UUID) *catalog.Procedure {
	for _, p := range m.items {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// memRepo is an in-memory chart Repository. Reads denormalize catalog
// names the way the SQL joins do.
type memRepo struct {
	teeth      []*Tooth
	conditions []*Condition
	procedures []*Procedure
	notes      []*Note

	conds *memCondCatalog
	procs *memProcCatalog
	clock time.Time
}

func (m *memRepo) next() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memRepo) CountTeeth(_ context.Context, patientID uuid.UUID) (int, error) {
	n := 0
	for _, t := range m.teeth {
		if t.PatientID == patientID {
			n++
		}
	}
	return n, nil
}

func (m *memRepo) InsertTeeth(_ context.Context, patientID uuid.UUID, specs []ToothSpec) error {
	for _, spec := range specs {
		un := spec.UniversalNumber
		m.teeth = append(m.teeth, &Tooth{
			ID:              uuid.New(),
			PatientID:       patientID,
			Number:          spec.Number,
			UniversalNumber: &un,
			DentitionType:   spec.DentitionType,
			Name:            spec.Name,
			Quadrant:        spec.Quadrant,
		})
	}
	return nil
}

func (m *memRepo) GetTooth(_ context.Context, patientID uuid.UUID, number string) (*Tooth, error) {
	for _, t := range m.teeth {
		if t.PatientID == patientID && t.Number == number {
			return t, nil
		}
	}
	return nil, apperr.NotFound("tooth not found")
}

func (m *memRepo) ListTeeth(_ context.Context, patientID uuid.UUID) ([]*Tooth, error) {
	var out []*Tooth
	for _, t := range m.teeth {
		if t.PatientID == patientID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memRepo) toothByID(id uuid.UUID) *Tooth {
	for _, t := range m.teeth {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (m *memRepo) condView(c *Condition) *Condition {
	out := *c
	if cat := m.conds.byID(c.ConditionID); cat != nil {
		out.ConditionName = cat.Name
		out.ConditionCode = cat.Code
	}
	return &out
}

func (m *memRepo) InsertCondition(_ context.Context, c *Condition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = m.next()
	c.UpdatedAt = c.CreatedAt
	stored := *c
	m.conditions = append(m.conditions, &stored)
	return nil
}

func (m *memRepo) GetCondition(_ context.Context, toothID, id uuid.UUID) (*Condition, error) {
	for _, c := range m.conditions {
		if c.ID == id && c.ToothID == toothID {
			return m.condView(c), nil
		}
	}
	return nil, apperr.NotFound("chart condition not found")
}

func (m *memRepo) UpdateCondition(_ context.Context, c *Condition) error {
	for _, stored := range m.conditions {
		if stored.ID == c.ID {
			stored.Surface = c.Surface
			stored.Description = c.Description
			stored.Severity = c.Severity
			stored.UpdatedBy = c.UpdatedBy
			stored.UpdatedAt = m.next()
			c.UpdatedAt = stored.UpdatedAt
			return nil
		}
	}
	return apperr.NotFound("chart condition not found")
}

func (m *memRepo) DeleteCondition(_ context.Context, id uuid.UUID) error {
	for i, c := range m.conditions {
		if c.ID == id {
			m.conditions = append(m.conditions[:i], m.conditions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memRepo) ListConditionsByPatient(_ context.Context, patientID uuid.UUID) ([]*Condition, error) {
	var out []*Condition
	for _, c := range m.conditions {
		if tooth := m.toothByID(c.ToothID); tooth != nil && tooth.PatientID == patientID {
			out = append(out, m.condView(c))
		}
	}
	return out, nil
}

func (m *memRepo) procView(p *Procedure) *Procedure {
	out := *p
	if cat := m.procs.byID(p.ProcedureID); cat != nil {
		out.ProcedureName = cat.Name
		out.ProcedureCode = cat.Code
		out.Category = cat.Category
	}
	return &out
}

func (m *memRepo) InsertProcedure(_ context.Context, p *Procedure) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = m.next()
	stored := *p
	m.procedures = append(m.procedures, &stored)
	return nil
}

func (m *memRepo) GetProcedure(_ context.Context, toothID, id uuid.UUID) (*Procedure, error) {
	for _, p := range m.procedures {
		if p.ID == id && p.ToothID == toothID {
			return m.procView(p), nil
		}
	}
	return nil, apperr.NotFound("chart procedure not found")
}

func (m *memRepo) UpdateProcedure(_ context.Context, p *Procedure) error {
	for _, stored := range m.procedures {
		if stored.ID == p.ID {
			stored.Surface = p.Surface
			stored.Description = p.Description
			stored.DatePerformed = p.DatePerformed
			stored.PerformedBy = p.PerformedBy
			stored.Price = p.Price
			stored.Status = p.Status
			return nil
		}
	}
	return apperr.NotFound("chart procedure not found")
}

func (m *memRepo) DeleteProcedure(_ context.Context, id uuid.UUID) error {
	for i, p := range m.procedures {
		if p.ID == id {
			m.procedures = append(m.procedures[:i], m.procedures[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memRepo) ListProceduresByPatient(_ context.Context, patientID uuid.UUID) ([]*Procedure, error) {
	var out []*Procedure
	for _, p := range m.procedures {
		if tooth := m.toothByID(p.ToothID); tooth != nil && tooth.PatientID == patientID {
			out = append(out, m.procView(p))
		}
	}
	return out, nil
}

func (m *memRepo) InsertNote(_ context.Context, n *Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	n.CreatedAt = m.next()
	stored := *n
	m.notes = append(m.notes, &stored)
	return nil
}

func (m *memRepo) ListNotesByProcedure(_ context.Context, procedureID uuid.UUID) ([]*Note, error) {
	var out []*Note
	for _, n := range m.notes {
		if n.ChartProcedureID == procedureID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memRepo) ListNotesByPatient(_ context.Context, patientID uuid.UUID) ([]*Note, error) {
	var out []*Note
	for _, n := range m.notes {
		for _, p := range m.procedures {
			if p.ID == n.ChartProcedureID {
				if tooth := m.toothByID(p.ToothID); tooth != nil && tooth.PatientID == patientID {
					out = append(out, n)
				}
			}
		}
	}
	return out, nil
}

type memHistoryRepo struct {
	entries []*history.Entry
	clock   time.Time
}

func (m *memHistoryRepo) Create(_ context.Context, e *history.Entry) error {
	e.ID = uuid.New()
	m.clock = m.clock.Add(time.Second)
	e.Date = m.clock
	m.entries = append(m.entries, e)
	return nil
}

func (m *memHistoryRepo) Query(_ context.Context, patientID uuid.UUID, f history.Filter, limit, offset int) ([]*history.Entry, int, error) {
	var out []*history.Entry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.PatientID != patientID {
			continue
		}
		if f.ToothNumber != "" && e.ToothNumber != f.ToothNumber {
			continue
		}
		if f.Category != "" && (e.Category == nil || *e.Category != f.Category) {
			continue
		}
		out = append(out, e)
	}
	return out, len(out), nil
}

type stubUserRepo struct{}

func (stubUserRepo) Create(context.Context, *user.User) error { return nil }
func (stubUserRepo) GetByID(context.Context, uuid.UUID) (*user.User, error) {
	return nil, apperr.NotFound("user not found")
}
func (stubUserRepo) GetByUsername(context.Context, string) (*user.User, error) {
	return nil, apperr.NotFound("user not found")
}

// patientDirectory maps patient id to owning clinic.
type patientDirectory map[uuid.UUID]uuid.UUID

func (d patientDirectory) ResolvePatient(_ context.Context, clinicID, patientID uuid.UUID) error {
	if d[patientID] != clinicID {
		return apperr.NotFound("patient not found")
	}
	return nil
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// -- fixture --

type fixture struct {
	svc  *Service
	repo *memRepo
	hist *memHistoryRepo

	clinicID    uuid.UUID
	otherClinic uuid.UUID
	patientID   uuid.UUID
	actor       Actor

	cavityID  uuid.UUID
	fillingID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conds := &memCondCatalog{}
	procs := &memProcCatalog{}
	repo := &memRepo{conds: conds, procs: procs, clock: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	hist := &memHistoryRepo{clock: repo.clock}

	f := &fixture{
		repo:        repo,
		hist:        hist,
		clinicID:    uuid.New(),
		otherClinic: uuid.New(),
		patientID:   uuid.New(),
	}
	actorID := uuid.New()
	f.actor = Actor{ID: &actorID, Name: "Dr. Sarah Chen"}

	cavity := &catalog.Condition{ClinicID: f.clinicID, Name: "Cavity", Code: "C01", IsStandard: true}
	if err := conds.Create(context.Background(), cavity); err != nil {
		t.Fatal(err)
	}
	f.cavityID = cavity.ID

	filling := &catalog.Procedure{
		ClinicID: f.clinicID, Name: "Amalgam Filling", Code: "D2140",
		Category: "restorative", DefaultPrice: 120, IsStandard: true,
	}
	if err := procs.Create(context.Background(), filling); err != nil {
		t.Fatal(err)
	}
	f.fillingID = filling.ID

	users := user.NewService(stubUserRepo{})
	f.svc = NewService(repo,
		catalog.NewService(conds, procs),
		patientDirectory{f.patientID: f.clinicID},
		history.NewService(hist, users),
		users,
		passthroughTx{})
	return f
}

func (f *fixture) addCondition(t *testing.T, tooth string, in AddConditionInput) *Condition {
	t.Helper()
	cond, err := f.svc.AddCondition(context.Background(), f.clinicID, f.patientID, tooth, in, f.actor)
	if err != nil {
		t.Fatalf("AddCondition: %v", err)
	}
	return cond
}

func (f *fixture) addProcedure(t *testing.T, tooth string, in AddProcedureInput) *Procedure {
	t.Helper()
	proc, err := f.svc.AddProcedure(context.Background(), f.clinicID, f.patientID, tooth, in, f.actor)
	if err != nil {
		t.Fatalf("AddProcedure: %v", err)
	}
	return proc
}

// -- provisioning --

func TestAddCondition_ProvisionsTeethOnFirstTouch(t *testing.T) {
	f := newFixture(t)

	f.addCondition(t, "3", AddConditionInput{ConditionID: &f.cavityID})

	n, _ := f.repo.CountTeeth(context.Background(), f.patientID)
	if n != 52 {
		t.Fatalf("expected 52 provisioned teeth, got %d", n)
	}
}

func TestEnsureProvisioned_Idempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.EnsureProvisioned(ctx, f.patientID); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.EnsureProvisioned(ctx, f.patientID); err != nil {
		t.Fatal(err)
	}
	n, _ := f.repo.CountTeeth(ctx, f.patientID)
	if n != 52 {
		t.Fatalf("expected 52 teeth after repeat provisioning, got %d", n)
	}
}

// -- conditions --

func TestAddCondition_DefaultsSeverity(t *testing.T) {
	f := newFixture(t)

	cond := f.addCondition(t, "3", AddConditionInput{ConditionID: &f.cavityID, Surface: "occlusal"})

	if cond.Severity != SeverityModerate {
		t.Errorf("severity = %q, want %q", cond.Severity, SeverityModerate)
	}
	if cond.ConditionName != "Cavity" {
		t.Errorf("condition name = %q, want Cavity", cond.ConditionName)
	}
	if cond.CreatedByName != "Dr. Sarah Chen" {
		t.Errorf("created by name = %q", cond.CreatedByName)
	}
	if len(f.hist.entries) != 1 {
		t.Fatalf("expected 1 history entry, got %d", len(f.hist.entries))
	}
	e := f.hist.entries[0]
	if e.Action != history.ActionAddCondition {
		t.Errorf("action = %q", e.Action)
	}
	if e.ToothNumber != "3" {
		t.Errorf("tooth number = %q", e.ToothNumber)
	}
	if e.Category == nil || *e.Category != history.CategoryConditions {
		t.Errorf("category = %v", e.Category)
	}
	if e.Details["condition_name"] != "Cavity" {
		t.Errorf("details condition_name = %v", e.Details["condition_name"])
	}
}

func TestAddCondition_InvalidSeverity(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCondition(context.Background(), f.clinicID, f.patientID, "3",
		AddConditionInput{ConditionID: &f.cavityID, Severity: "critical"}, f.actor)

	if ve, ok := apperr.AsValidation(err); !ok || ve.Field != "severity" {
		t.Fatalf("expected severity validation error, got %v", err)
	}
	if len(f.repo.conditions) != 0 || len(f.hist.entries) != 0 {
		t.Error("invalid input must not persist anything")
	}
}

func TestAddCondition_DentitionMismatch(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCondition(context.Background(), f.clinicID, f.patientID, "3",
		AddConditionInput{ConditionID: &f.cavityID, DentitionType: DentitionPrimary}, f.actor)

	if ve, ok := apperr.AsValidation(err); !ok || ve.Field != "dentition_type" {
		t.Fatalf("expected dentition_type validation error, got %v", err)
	}
	if len(f.repo.conditions) != 0 {
		t.Error("mismatched dentition must not create a condition")
	}
	if len(f.hist.entries) != 0 {
		t.Error("mismatched dentition must not record history")
	}
}

func TestAddCondition_CustomCreatesCatalogEntry(t *testing.T) {
	f := newFixture(t)

	cond := f.addCondition(t, "14", AddConditionInput{CustomName: "Abfraction", CustomCode: "AB01"})

	if cond.ConditionName != "Abfraction" {
		t.Errorf("condition name = %q", cond.ConditionName)
	}
	created := f.repo.conds.byID(cond.ConditionID)
	if created == nil {
		t.Fatal("custom catalog entry not created")
	}
	if created.IsStandard {
		t.Error("inline catalog entries must be custom")
	}
	if created.ClinicID != f.clinicID {
		t.Error("inline catalog entries must be clinic-scoped")
	}
}

func TestAddCondition_RequiresCatalogReference(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCondition(context.Background(), f.clinicID, f.patientID, "3",
		AddConditionInput{}, f.actor)

	if ve, ok := apperr.AsValidation(err); !ok || ve.Field != "condition_id" {
		t.Fatalf("expected condition_id validation error, got %v", err)
	}
}

func TestAddCondition_CrossClinicCatalog(t *testing.T) {
	f := newFixture(t)

	foreign := &catalog.Condition{ClinicID: f.otherClinic, Name: "Erosion", Code: "E01"}
	if err := f.repo.conds.Create(context.Background(), foreign); err != nil {
		t.Fatal(err)
	}

	_, err := f.svc.AddCondition(context.Background(), f.clinicID, f.patientID, "3",
		AddConditionInput{ConditionID: &foreign.ID}, f.actor)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for another clinic's catalog entry, got %v", err)
	}
	if len(f.hist.entries) != 0 {
		t.Error("failed mutation must not record history")
	}
}

func TestAddCondition_UnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCondition(context.Background(), f.clinicID, uuid.New(), "3",
		AddConditionInput{ConditionID: &f.cavityID}, f.actor)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddCondition_UnknownTooth(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddCondition(context.Background(), f.clinicID, f.patientID, "33",
		AddConditionInput{ConditionID: &f.cavityID}, f.actor)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateCondition_AppliesPartialChanges(t *testing.T) {
	f := newFixture(t)
	cond := f.addCondition(t, "3", AddConditionInput{ConditionID: &f.cavityID, Surface: "occlusal"})

	severe := SeveritySevere
	updated, err := f.svc.UpdateCondition(context.Background(), f.clinicID, f.patientID, "3",
		cond.ID, UpdateConditionInput{Severity: &severe}, f.actor)
	if err != nil {
		t.Fatal(err)
	}

	if updated.Severity != SeveritySevere {
		t.Errorf("severity = %q", updated.Severity)
	}
	if updated.Surface != "occlusal" {
		t.Errorf("surface changed unexpectedly: %q", updated.Surface)
	}
	if len(f.hist.entries) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(f.hist.entries))
	}
	e := f.hist.entries[1]
	if e.Action != history.ActionUpdateCondition {
		t.Errorf("action = %q", e.Action)
	}
	if e.Details["severity"] != SeveritySevere {
		t.Errorf("details severity = %v", e.Details["severity"])
	}
	if _, ok := e.Details["surface"]; ok {
		t.Error("untouched fields must not appear in history details")
	}
}

func TestUpdateCondition_WrongTooth(t *testing.T) {
	f := newFixture(t)
	cond := f.addCondition(t, "3", AddConditionInput{ConditionID: &f.cavityID})

	desc := "recheck"
	_, err := f.svc.UpdateCondition(context.Background(), f.clinicID, f.patientID, "4",
		cond.ID, UpdateConditionInput{Description: &desc}, f.actor)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found for entry on another tooth, got %v", err)
	}
}

func TestRemoveCondition_SnapshotsDetails(t *testing.T) {
	f := newFixture(t)
	cond := f.addCondition(t, "3", AddConditionInput{ConditionID: &f.cavityID, Surface: "mesial"})

	if err := f.svc.RemoveCondition(context.Background(), f.clinicID, f.patientID, "3",
		cond.ID, f.actor); err != nil {
		t.Fatal(err)
	}

	if len(f.repo.conditions) != 0 {
		t.Error("condition row should be deleted")
	}
	e := f.hist.entries[len(f.hist.entries)-1]
	if e.Action != history.ActionRemoveCondition {
		t.Errorf("action = %q", e.Action)
	}
	if e.Details["condition_name"] != "Cavity" {
		t.Errorf("removal must snapshot the name, got %v", e.Details["condition_name"])
	}
	if e.Details["surface"] != "mesial" {
		t.Errorf("removal must snapshot the surface, got %v", e.Details["surface"])
	}
}

// -- procedures --

func TestAddProcedure_PriceDefaultsFromCatalog(t *testing.T) {
	f := newFixture(t)

	proc := f.addProcedure(t, "19", AddProcedureInput{ProcedureID: &f.fillingID})

	if proc.Price != 120 {
		t.Errorf("price = %v, want catalog default 120", proc.Price)
	}
	if proc.Status != StatusPlanned {
		t.Errorf("status = %q, want planned", proc.Status)
	}
	if proc.PerformedBy != nil {
		t.Error("performed_by must stay empty without a performed date")
	}
}

func TestAddProcedure_ExplicitPriceWins(t *testing.T) {
	f := newFixture(t)

	price := 95.5
	proc := f.addProcedure(t, "19", AddProcedureInput{ProcedureID: &f.fillingID, Price: &price})
	if proc.Price != 95.5 {
		t.Errorf("price = %v, want 95.5", proc.Price)
	}
}

func TestAddProcedure_PerformedDateSetsAttribution(t *testing.T) {
	f := newFixture(t)

	proc := f.addProcedure(t, "19", AddProcedureInput{
		ProcedureID:   &f.fillingID,
		DatePerformed: "2026-01-15",
		Status:        StatusCompleted,
	})

	if proc.DatePerformed == nil || proc.DatePerformed.Format("2006-01-02") != "2026-01-15" {
		t.Errorf("date performed = %v", proc.DatePerformed)
	}
	if proc.PerformedBy == nil || *proc.PerformedBy != *f.actor.ID {
		t.Errorf("performed_by = %v, want actor", proc.PerformedBy)
	}
	if proc.PerformedByName != "Dr. Sarah Chen" {
		t.Errorf("performed_by_name = %q", proc.PerformedByName)
	}
}

func TestAddProcedure_BadDate(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddProcedure(context.Background(), f.clinicID, f.patientID, "19",
		AddProcedureInput{ProcedureID: &f.fillingID, DatePerformed: "15/01/2026"}, f.actor)

	if ve, ok := apperr.AsValidation(err); !ok || ve.Field != "date_performed" {
		t.Fatalf("expected date_performed validation error, got %v", err)
	}
}

func TestAddProcedure_InvalidStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.AddProcedure(context.Background(), f.clinicID, f.patientID, "19",
		AddProcedureInput{ProcedureID: &f.fillingID, Status: "done"}, f.actor)

	if ve, ok := apperr.AsValidation(err); !ok || ve.Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}
}

func TestAddProcedure_CustomCreatesCatalogEntry(t *testing.T) {
	f := newFixture(t)

	price := 450.0
	proc := f.addProcedure(t, "30", AddProcedureInput{
		CustomName:     "Pulpotomy",
		CustomCode:     "D3220",
		CustomCategory: "endodontic",
		CustomPrice:    &price,
	})

	created := f.repo.procs.byID(proc.ProcedureID)
	if created == nil {
		t.Fatal("custom catalog entry not created")
	}
	if created.IsStandard {
		t.Error("inline catalog entries must be custom")
	}
	if proc.Price != 450 {
		t.Errorf("price = %v, want the custom default 450", proc.Price)
	}
}

func TestUpdateProcedure_SettingDateAttributesActor(t *testing.T) {
	f := newFixture(t)
	proc := f.addProcedure(t, "19", AddProcedureInput{ProcedureID: &f.fillingID})

	date := "2026-02-03"
	status := StatusCompleted
	updated, err := f.svc.UpdateProcedure(context.Background(), f.clinicID, f.patientID, "19",
		proc.ID, UpdateProcedureInput{DatePerformed: &date, Status: &status}, f.actor)
	if err != nil {
		t.Fatal(err)
	}

	if updated.PerformedBy == nil || *updated.PerformedBy != *f.actor.ID {
		t.Errorf("performed_by = %v, want actor", updated.PerformedBy)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("status = %q", updated.Status)
	}
}

func TestRemoveProcedure_SnapshotsDetails(t *testing.T) {
	f := newFixture(t)
	proc := f.addProcedure(t, "19", AddProcedureInput{ProcedureID: &f.fillingID})

	if err := f.svc.RemoveProcedure(context.Background(), f.clinicID, f.patientID, "19",
		proc.ID, f.actor); err != nil {
		t.Fatal(err)
	}

	e := f.hist.entries[len(f.hist.entries)-1]
	if e.Action != history.ActionRemoveProcedure {
		t.Errorf("action = %q", e.Action)
	}
	if e.Details["procedure_name"] != "Amalgam Filling" {
		t.Errorf("removal must snapshot the name, got %v", e.Details["procedure_name"])
	}
}

// -- procedure notes --

func TestAddProcedureNote(t *testing.T) {
	f := newFixture(t)
	proc := f.addProcedure(t, "19", AddProcedureInput{ProcedureID: &f.fillingID})

	note, err := f.svc.AddProcedureNote(context.Background(), f.clinicID, f.patientID, "19",
		proc.ID, AddNoteInput{Note: "patient tolerated well", AppointmentDate: "2026-01-20"}, f.actor)
	if err != nil {
		t.Fatal(err)
	}

	if note.Note != "patient tolerated well" {
		t.Errorf("note = %q", note.Note)
	}
	e := f.hist.entries[len(f.hist.entries)-1]
	if e.Action != history.ActionAddProcedureNote {
		t.Errorf("action = %q", e.Action)
	}
	if e.Category == nil || *e.Category != history.CategoryProcedures {
		t.Errorf("category = %v", e.Category)
	}
}

func TestAddProcedureNote_RequiresFields(t *testing.T) {
	f := newFixture(t)
	proc := f.addProcedure(t, "19", AddProcedureInput{ProcedureID: &f.fillingID})

	_, err := f.svc.AddProcedureNote(context.Background(), f.clinicID, f.patientID, "19",
		proc.ID, AddNoteInput{AppointmentDate: "2026-01-20"}, f.actor)
	if ve, ok := apperr.AsValidation(err); !ok || ve.Field != "note" {
		t.Fatalf("expected note validation error, got %v", err)
	}

	_, err = f.svc.AddProcedureNote(context.Background(), f.clinicID, f.patientID, "19",
		proc.ID, AddNoteInput{Note: "follow up"}, f.actor)
	if ve, ok := apperr.AsValidation(err); !ok || ve.Field != "appointment_date" {
		t.Fatalf("expected appointment_date validation error, got %v", err)
	}
}

// -- reads --

func TestGetChart_ShapeAndOrder(t *testing.T) {
	f := newFixture(t)
	f.addCondition(t, "5", AddConditionInput{ConditionID: &f.cavityID})
	proc := f.addProcedure(t, "T", AddProcedureInput{ProcedureID: &f.fillingID})
	if _, err := f.svc.AddProcedureNote(context.Background(), f.clinicID, f.patientID, "T",
		proc.ID, AddNoteInput{Note: "eruption monitored", AppointmentDate: "2026-01-22"}, f.actor); err != nil {
		t.Fatal(err)
	}

	view, err := f.svc.GetChart(context.Background(), f.clinicID, f.patientID)
	if err != nil {
		t.Fatal(err)
	}

	if len(view.PermanentTeeth) != 32 {
		t.Fatalf("permanent teeth = %d", len(view.PermanentTeeth))
	}
	if len(view.PrimaryTeeth) != 20 {
		t.Fatalf("primary teeth = %d", len(view.PrimaryTeeth))
	}
	if view.PermanentTeeth[0].Number != "1" || view.PermanentTeeth[31].Number != "32" {
		t.Errorf("permanent teeth out of order: %q .. %q",
			view.PermanentTeeth[0].Number, view.PermanentTeeth[31].Number)
	}
	if view.PrimaryTeeth[0].Number != "A" || view.PrimaryTeeth[19].Number != "T" {
		t.Errorf("primary teeth out of order: %q .. %q",
			view.PrimaryTeeth[0].Number, view.PrimaryTeeth[19].Number)
	}

	var tooth5, toothT *ToothView
	for _, tv := range view.PermanentTeeth {
		if tv.Number == "5" {
			tooth5 = tv
		}
	}
	for _, tv := range view.PrimaryTeeth {
		if tv.Number == "T" {
			toothT = tv
		}
	}
	if tooth5 == nil || len(tooth5.Conditions) != 1 {
		t.Fatal("condition not attached to tooth 5")
	}
	if tooth5.Conditions[0].ConditionName != "Cavity" {
		t.Errorf("condition name = %q", tooth5.Conditions[0].ConditionName)
	}
	if toothT == nil || len(toothT.Procedures) != 1 {
		t.Fatal("procedure not attached to tooth T")
	}
	if len(toothT.Procedures[0].Notes) != 1 {
		t.Fatal("note not nested under procedure")
	}
	if view.LastUpdated == nil {
		t.Error("last_updated should be set when entries exist")
	}
}

func TestGetChart_EmptyChart(t *testing.T) {
	f := newFixture(t)

	view, err := f.svc.GetChart(context.Background(), f.clinicID, f.patientID)
	if err != nil {
		t.Fatal(err)
	}

	if len(view.PermanentTeeth) != 32 || len(view.PrimaryTeeth) != 20 {
		t.Fatal("empty chart must still carry the full dentition")
	}
	if view.LastUpdated != nil {
		t.Errorf("last_updated = %v, want nil for untouched chart", view.LastUpdated)
	}
	for _, tv := range view.PermanentTeeth {
		if tv.Conditions == nil || tv.Procedures == nil {
			t.Fatal("entry slices must be empty, not nil")
		}
	}
}

func TestGetChart_UnknownPatient(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetChart(context.Background(), f.otherClinic, f.patientID)
	if !apperr.IsNotFound(err) {
		t.Fatalf("expected not found across clinics, got %v", err)
	}
}

func TestHistory_OnePerMutationNewestFirst(t *testing.T) {
	f := newFixture(t)
	cond := f.addCondition(t, "3", AddConditionInput{ConditionID: &f.cavityID})
	severe := SeveritySevere
	if _, err := f.svc.UpdateCondition(context.Background(), f.clinicID, f.patientID, "3",
		cond.ID, UpdateConditionInput{Severity: &severe}, f.actor); err != nil {
		t.Fatal(err)
	}
	if err := f.svc.RemoveCondition(context.Background(), f.clinicID, f.patientID, "3",
		cond.ID, f.actor); err != nil {
		t.Fatal(err)
	}

	items, total, err := f.svc.History(context.Background(), f.clinicID, f.patientID,
		history.Filter{}, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 3 || len(items) != 3 {
		t.Fatalf("expected 3 history entries, got %d", total)
	}
	want := []string{
		history.ActionRemoveCondition,
		history.ActionUpdateCondition,
		history.ActionAddCondition,
	}
	for i, action := range want {
		if items[i].Action != action {
			t.Errorf("entry %d action = %q, want %q", i, items[i].Action, action)
		}
	}
}

func TestHistory_FilterByTooth(t *testing.T) {
	f := newFixture(t)
	f.addCondition(t, "3", AddConditionInput{ConditionID: &f.cavityID})
	f.addCondition(t, "14", AddConditionInput{ConditionID: &f.cavityID})

	items, total, err := f.svc.History(context.Background(), f.clinicID, f.patientID,
		history.Filter{ToothNumber: "14"}, 50, 0)
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || items[0].ToothNumber != "14" {
		t.Fatalf("tooth filter failed: total=%d", total)
	}
}
