package history

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

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

const entryCols = `id, patient_id, user_id, date, action, tooth_number, category, details`

func (r *repoPG) Create(ctx context.Context, e *Entry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO chart_history (id, patient_id, user_id, action, tooth_number, category, details)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING date`,
		e.ID, e.PatientID, e.UserID, e.Action, e.ToothNumber, e.Category, e.Details).
		Scan(&e.Date)
}

func (r *repoPG) Query(ctx context.Context, patientID uuid.UUID, f Filter, limit, offset int) ([]*Entry, int, error) {
	query := `SELECT ` + entryCols + ` FROM chart_history WHERE patient_id = $1`
	countQuery := `SELECT COUNT(*) FROM chart_history WHERE patient_id = $1`
	args := []interface{}{patientID}
	idx := 2

	if f.ToothNumber != "" {
		clause := fmt.Sprintf(` AND tooth_number = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.ToothNumber)
		idx++
	}
	if f.Category != "" {
		clause := fmt.Sprintf(` AND category = $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, f.Category)
		idx++
	}
	if f.From != nil {
		clause := fmt.Sprintf(` AND date >= $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *f.From)
		idx++
	}
	if f.To != nil {
		clause := fmt.Sprintf(` AND date <= $%d`, idx)
		query += clause
		countQuery += clause
		args = append(args, *f.To)
		idx++
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += fmt.Sprintf(` ORDER BY date DESC LIMIT $%d OFFSET $%d`, idx, idx+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.PatientID, &e.UserID, &e.Date, &e.Action,
			&e.ToothNumber, &e.Category, &e.Details); err != nil {
			return nil, 0, err
		}
		items = append(items, &e)
	}
	return items, total, nil
}
