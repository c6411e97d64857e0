package prescription

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/db"
	"github.com/hrms/hrms/pkg/pagination"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) db.Querier {
	return db.Conn(ctx, r.pool)
}

const rxColumns = `id, record_id, medicine_name, specification, dosage, frequency,
	duration, quantity, notes, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO prescription (record_id, medicine_name, specification, dosage,
			frequency, duration, quantity, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at`,
		p.RecordID, p.MedicineName, p.Specification, p.Dosage,
		p.Frequency, p.Duration, p.Quantity, p.Notes,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Prescription, error) {
	p := &Prescription{}
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+rxColumns+` FROM prescription WHERE id = $1`, id,
	).Scan(&p.ID, &p.RecordID, &p.MedicineName, &p.Specification, &p.Dosage,
		&p.Frequency, &p.Duration, &p.Quantity, &p.Notes, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Prescription")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *repoPG) Update(ctx context.Context, p *Prescription) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescription SET medicine_name = $2, specification = $3, dosage = $4,
			frequency = $5, duration = $6, quantity = $7, notes = $8, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.MedicineName, p.Specification, p.Dosage,
		p.Frequency, p.Duration, p.Quantity, p.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Prescription")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Prescription")
	}
	return nil
}

func (r *repoPG) DeleteByRecord(ctx context.Context, recordID int64) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription WHERE record_id = $1`, recordID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) ListByRecord(ctx context.Context, recordID int64) ([]*Prescription, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+rxColumns+` FROM prescription WHERE record_id = $1 ORDER BY id`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collect(rows)
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Prescription, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		conds = append(conds, fmt.Sprintf(cond, n))
		args = append(args, val)
	}

	if f.RecordID > 0 {
		add("record_id = $%d", f.RecordID)
	}
	if f.MedicineName != "" {
		add("medicine_name ILIKE $%d", "%"+f.MedicineName+"%")
	}
	where := strings.Join(conds, " AND ")

	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM prescription WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit(), p.Offset())
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM prescription WHERE %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		rxColumns, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list, err := collect(rows)
	return list, total, err
}

func collect(rows pgx.Rows) ([]*Prescription, error) {
	var list []*Prescription
	for rows.Next() {
		p := &Prescription{}
		if err := rows.Scan(&p.ID, &p.RecordID, &p.MedicineName, &p.Specification, &p.Dosage,
			&p.Frequency, &p.Duration, &p.Quantity, &p.Notes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, rows.Err()
}
