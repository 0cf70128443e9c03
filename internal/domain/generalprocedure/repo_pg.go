package generalprocedure

import (
	"context"
	"errors"
	"fmt"

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

// Reads join the catalog so display name/code/category ride along.
const gpSelect = `
	SELECT gp.id, gp.clinic_id, gp.patient_id, gp.procedure_id, gp.dentist_id,
		gp.notes, gp.description, gp.date_performed, gp.price, gp.status,
		gp.created_at, gp.updated_at,
		dp.name, dp.code, dp.category
	FROM general_procedure gp
	JOIN dental_procedure dp ON dp.id = gp.procedure_id`

func (r *repoPG) scan(row pgx.Row) (*GeneralProcedure, error) {
	var g GeneralProcedure
	err := row.Scan(&g.ID, &g.ClinicID, &g.PatientID, &g.ProcedureID, &g.DentistID,
		&g.Notes, &g.Description, &g.DatePerformed, &g.Price, &g.Status,
		&g.CreatedAt, &g.UpdatedAt,
		&g.ProcedureName, &g.ProcedureCode, &g.Category)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("general procedure not found")
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repoPG) Create(ctx context.Context, g *GeneralProcedure) error {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO general_procedure (id, clinic_id, patient_id, procedure_id, dentist_id,
			notes, description, date_performed, price, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING created_at, updated_at`,
		g.ID, g.ClinicID, g.PatientID, g.ProcedureID, g.DentistID,
		g.Notes, g.Description, g.DatePerformed, g.Price, g.Status).
		Scan(&g.CreatedAt, &g.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, clinicID, patientID, id uuid.UUID) (*GeneralProcedure, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		gpSelect+` WHERE gp.id = $1 AND gp.clinic_id = $2 AND gp.patient_id = $3`,
		id, clinicID, patientID))
}

func (r *repoPG) ListByPatient(ctx context.Context, clinicID, patientID uuid.UUID, f Filter, limit, offset int) ([]*GeneralProcedure, int, error) {
	where := ` WHERE gp.clinic_id = $1 AND gp.patient_id = $2`
	countQuery := `SELECT COUNT(*) FROM general_procedure gp` + where
	query := gpSelect + where
	args := []interface{}{clinicID, patientID}
	idx := 3

	if f.Status != "" {
		clause := fmt.Sprintf(` AND gp.status = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.Status)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY gp.created_at DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*GeneralProcedure
	for rows.Next() {
		g, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, g)
	}
	return items, total, nil
}

func (r *repoPG) Update(ctx context.Context, g *GeneralProcedure) error {
	err := r.conn(ctx).QueryRow(ctx, `
		UPDATE general_procedure
		SET dentist_id=$2, notes=$3, description=$4, date_performed=$5, price=$6,
			status=$7, updated_at=NOW()
		WHERE id = $1
		RETURNING updated_at`,
		g.ID, g.DentistID, g.Notes, g.Description, g.DatePerformed, g.Price, g.Status).
		Scan(&g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperr.NotFound("general procedure not found")
	}
	return err
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM general_procedure WHERE id = $1`, id)
	return err
}
