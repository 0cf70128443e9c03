package chart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dentio/dentio/internal/platform/apperr"
	"github.com/dentio/dentio/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

// -- Teeth --

const toothCols = `id, patient_id, number, universal_number, dentition_type, name, quadrant`

func (r *repoPG) scanTooth(row pgx.Row) (*Tooth, error) {
	var t Tooth
	err := row.Scan(&t.ID, &t.PatientID, &t.Number, &t.UniversalNumber,
		&t.DentitionType, &t.Name, &t.Quadrant)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("tooth not found")
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoPG) CountTeeth(ctx context.Context, patientID uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM chart_tooth WHERE patient_id = $1`, patientID).Scan(&n)
	return n, err
}

// InsertTeeth writes the canonical set for a patient. ON CONFLICT DO NOTHING
// makes the race loser of concurrent first-touch provisioning a no-op.
func (r *repoPG) InsertTeeth(ctx context.Context, patientID uuid.UUID, specs []ToothSpec) error {
	conn := r.conn(ctx)
	for _, spec := range specs {
		_, err := conn.Exec(ctx, `
			INSERT INTO chart_tooth (id, patient_id, number, universal_number, dentition_type, name, quadrant)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (patient_id, number, dentition_type) DO NOTHING`,
			uuid.New(), patientID, spec.Number, spec.UniversalNumber,
			spec.DentitionType, spec.Name, spec.Quadrant)
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repoPG) GetTooth(ctx context.Context, patientID uuid.UUID, number string) (*Tooth, error) {
	return r.scanTooth(r.conn(ctx).QueryRow(ctx,
		`SELECT `+toothCols+` FROM chart_tooth WHERE patient_id = $1 AND number = $2`,
		patientID, number))
}

func (r *repoPG) ListTeeth(ctx context.Context, patientID uuid.UUID) ([]*Tooth, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+toothCols+` FROM chart_tooth WHERE patient_id = $1`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Tooth
	for rows.Next() {
		t, err := r.scanTooth(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, t)
	}
	return items, nil
}

// -- Conditions --

// Condition reads join the catalog so display name/code ride along.
const condSelect = `
	SELECT cc.id, cc.tooth_id, cc.condition_id, cc.surface, cc.description,
		cc.severity, cc.created_at, cc.updated_at, cc.created_by, cc.updated_by,
		dc.name, dc.code
	FROM chart_condition cc
	JOIN dental_condition dc ON dc.id = cc.condition_id`

func (r *repoPG) scanCondition(row pgx.Row) (*Condition, error) {
	var c Condition
	err := row.Scan(&c.ID, &c.ToothID, &c.ConditionID, &c.Surface, &c.Description,
		&c.Severity, &c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &c.UpdatedBy,
		&c.ConditionName, &c.ConditionCode)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("chart condition not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *repoPG) InsertCondition(ctx context.Context, c *Condition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO chart_condition (id, tooth_id, condition_id, surface, description, severity, created_by, updated_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		c.ID, c.ToothID, c.ConditionID, c.Surface, c.Description, c.Severity,
		c.CreatedBy, c.UpdatedBy).
		Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *repoPG) GetCondition(ctx context.Context, toothID, id uuid.UUID) (*Condition, error) {
	return r.scanCondition(r.conn(ctx).QueryRow(ctx,
		condSelect+` WHERE cc.id = $1 AND cc.tooth_id = $2`, id, toothID))
}

func (r *repoPG) UpdateCondition(ctx context.Context, c *Condition) error {
	return r.conn(ctx).QueryRow(ctx, `
		UPDATE chart_condition
		SET surface=$2, description=$3, severity=$4, updated_by=$5, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.Surface, c.Description, c.Severity, c.UpdatedBy).
		Scan(&c.UpdatedAt)
}

func (r *repoPG) DeleteCondition(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM chart_condition WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListConditionsByPatient(ctx context.Context, patientID uuid.UUID) ([]*Condition, error) {
	rows, err := r.conn(ctx).Query(ctx, condSelect+`
		JOIN chart_tooth t ON t.id = cc.tooth_id
		WHERE t.patient_id = $1
		ORDER BY cc.created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Condition
	for rows.Next() {
		c, err := r.scanCondition(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, nil
}

// -- Procedures --

const procSelect = `
	SELECT cp.id, cp.tooth_id, cp.procedure_id, cp.surface, cp.description,
		cp.date_performed, cp.performed_by, cp.price, cp.status, cp.created_at,
		dp.name, dp.code, dp.category
	FROM chart_procedure cp
	JOIN dental_procedure dp ON dp.id = cp.procedure_id`

func (r *repoPG) scanProcedure(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.ToothID, &p.ProcedureID, &p.Surface, &p.Description,
		&p.DatePerformed, &p.PerformedBy, &p.Price, &p.Status, &p.CreatedAt,
		&p.ProcedureName, &p.ProcedureCode, &p.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("chart procedure not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repoPG) InsertProcedure(ctx context.Context, p *Procedure) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO chart_procedure (id, tooth_id, procedure_id, surface, description,
			date_performed, performed_by, price, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		p.ID, p.ToothID, p.ProcedureID, p.Surface, p.Description,
		p.DatePerformed, p.PerformedBy, p.Price, p.Status).
		Scan(&p.CreatedAt)
}

func (r *repoPG) GetProcedure(ctx context.Context, toothID, id uuid.UUID) (*Procedure, error) {
	return r.scanProcedure(r.conn(ctx).QueryRow(ctx,
		procSelect+` WHERE cp.id = $1 AND cp.tooth_id = $2`, id, toothID))
}

func (r *repoPG) UpdateProcedure(ctx context.Context, p *Procedure) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE chart_procedure
		SET surface=$2, description=$3, date_performed=$4, performed_by=$5, price=$6, status=$7
		WHERE id = $1`,
		p.ID, p.Surface, p.Description, p.DatePerformed, p.PerformedBy, p.Price, p.Status)
	return err
}

func (r *repoPG) DeleteProcedure(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM chart_procedure WHERE id = $1`, id)
	return err
}

func (r *repoPG) ListProceduresByPatient(ctx context.Context, patientID uuid.UUID) ([]*Procedure, error) {
	rows, err := r.conn(ctx).Query(ctx, procSelect+`
		JOIN chart_tooth t ON t.id = cp.tooth_id
		WHERE t.patient_id = $1
		ORDER BY cp.created_at`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Procedure
	for rows.Next() {
		p, err := r.scanProcedure(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, nil
}

// -- Procedure notes --

const noteCols = `id, chart_procedure_id, note, appointment_date, created_by, created_at`

func (r *repoPG) InsertNote(ctx context.Context, n *Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO procedure_note (id, chart_procedure_id, note, appointment_date, created_by)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING created_at`,
		n.ID, n.ChartProcedureID, n.Note, n.AppointmentDate, n.CreatedBy).
		Scan(&n.CreatedAt)
}

func (r *repoPG) ListNotesByProcedure(ctx context.Context, procedureID uuid.UUID) ([]*Note, error) {
	return r.listNotes(ctx,
		`SELECT `+noteCols+` FROM procedure_note WHERE chart_procedure_id = $1 ORDER BY appointment_date DESC`,
		procedureID)
}

func (r *repoPG) ListNotesByPatient(ctx context.Context, patientID uuid.UUID) ([]*Note, error) {
	return r.listNotes(ctx, `
		SELECT n.id, n.chart_procedure_id, n.note, n.appointment_date, n.created_by, n.created_at
		FROM procedure_note n
		JOIN chart_procedure cp ON cp.id = n.chart_procedure_id
		JOIN chart_tooth t ON t.id = cp.tooth_id
		WHERE t.patient_id = $1
		ORDER BY n.appointment_date DESC`, patientID)
}

func (r *repoPG) listNotes(ctx context.Context, query string, arg interface{}) ([]*Note, error) {
	rows, err := r.conn(ctx).Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.ChartProcedureID, &n.Note, &n.AppointmentDate,
			&n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, &n)
	}
	return items, nil
}
