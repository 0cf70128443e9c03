package catalog

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

// =========== Condition Repository ===========

type conditionRepoPG struct{ pool *pgxpool.Pool }

func NewConditionRepoPG(pool *pgxpool.Pool) ConditionRepository {
	return &conditionRepoPG{pool: pool}
}

func (r *conditionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const condCols = `id, clinic_id, name, code, description, color_code, icon, is_standard, created_at`

func (r *conditionRepoPG) scan(row pgx.Row) (*Condition, error) {
	var c Condition
	err := row.Scan(&c.ID, &c.ClinicID, &c.Name, &c.Code, &c.Description,
		&c.ColorCode, &c.Icon, &c.IsStandard, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("dental condition not found")
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *conditionRepoPG) Create(ctx context.Context, c *Condition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO dental_condition (id, clinic_id, name, code, description, color_code, icon, is_standard)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at`,
		c.ID, c.ClinicID, c.Name, c.Code, c.Description, c.ColorCode, c.Icon, c.IsStandard).
		Scan(&c.CreatedAt)
}

func (r *conditionRepoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Condition, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+condCols+` FROM dental_condition WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *conditionRepoPG) List(ctx context.Context, clinicID uuid.UUID, f ConditionFilter, limit, offset int) ([]*Condition, int, error) {
	query := `SELECT ` + condCols + ` FROM dental_condition WHERE clinic_id = $1`
	countQuery := `SELECT COUNT(*) FROM dental_condition WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	idx := 2

	if f.Search != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d OR description ILIKE $%d)`, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+f.Search+"%")
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Condition
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, c)
	}
	return items, total, nil
}

func (r *conditionRepoPG) UpsertStandard(ctx context.Context, c *Condition) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO dental_condition (id, clinic_id, name, code, description, color_code, icon, is_standard)
		VALUES ($1,$2,$3,$4,$5,$6,$7,TRUE)
		ON CONFLICT (clinic_id, code) DO NOTHING`,
		c.ID, c.ClinicID, c.Name, c.Code, c.Description, c.ColorCode, c.Icon)
	return err
}

// =========== Procedure Repository ===========

type procedureRepoPG struct{ pool *pgxpool.Pool }

func NewProcedureRepoPG(pool *pgxpool.Pool) ProcedureRepository {
	return &procedureRepoPG{pool: pool}
}

func (r *procedureRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const procCols = `id, clinic_id, name, code, description, category, default_price, duration_minutes, is_standard, created_at`

func (r *procedureRepoPG) scan(row pgx.Row) (*Procedure, error) {
	var p Procedure
	err := row.Scan(&p.ID, &p.ClinicID, &p.Name, &p.Code, &p.Description, &p.Category,
		&p.DefaultPrice, &p.DurationMinutes, &p.IsStandard, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("dental procedure not found")
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *procedureRepoPG) Create(ctx context.Context, p *Procedure) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO dental_procedure (id, clinic_id, name, code, description, category,
			default_price, duration_minutes, is_standard)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
		RETURNING created_at`,
		p.ID, p.ClinicID, p.Name, p.Code, p.Description, p.Category,
		p.DefaultPrice, p.DurationMinutes, p.IsStandard).
		Scan(&p.CreatedAt)
}

func (r *procedureRepoPG) GetByID(ctx context.Context, clinicID, id uuid.UUID) (*Procedure, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+procCols+` FROM dental_procedure WHERE id = $1 AND clinic_id = $2`, id, clinicID))
}

func (r *procedureRepoPG) List(ctx context.Context, clinicID uuid.UUID, f ProcedureFilter, limit, offset int) ([]*Procedure, int, error) {
	query := `SELECT ` + procCols + ` FROM dental_procedure WHERE clinic_id = $1`
	countQuery := `SELECT COUNT(*) FROM dental_procedure WHERE clinic_id = $1`
	args := []interface{}{clinicID}
	idx := 2

	if f.Search != "" {
		clause := fmt.Sprintf(` AND (name ILIKE $%d OR code ILIKE $%d OR description ILIKE $%d)`, idx, idx, idx)
		query += clause
		countQuery += clause
		args = append(args, "%"+f.Search+"%")
		idx++
	}
	if f.Category != "" {
		clause := fmt.Sprintf(` AND category = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.Category)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Procedure
	for rows.Next() {
		p, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

func (r *procedureRepoPG) UpsertStandard(ctx context.Context, p *Procedure) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO dental_procedure (id, clinic_id, name, code, description, category,
			default_price, duration_minutes, is_standard)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,TRUE)
		ON CONFLICT (clinic_id, code) DO NOTHING`,
		p.ID, p.ClinicID, p.Name, p.Code, p.Description, p.Category,
		p.DefaultPrice, p.DurationMinutes)
	return err
}
