package department

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

const deptColumns = `id, name, code, description, status, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, d *Department) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO department (name, code, description, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`,
		d.Name, d.Code, d.Description, d.Status,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Department, error) {
	d := &Department{}
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+deptColumns+` FROM department WHERE id = $1`, id,
	).Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Department")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repoPG) Update(ctx context.Context, d *Department) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE department SET name = $2, code = $3, description = $4, status = $5, updated_at = NOW()
		WHERE id = $1`,
		d.ID, d.Name, d.Code, d.Description, d.Status,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Department")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM department WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Department")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Department, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		conds = append(conds, fmt.Sprintf(cond, n))
		args = append(args, val)
	}

	if f.Name != "" {
		add("name ILIKE $%d", "%"+f.Name+"%")
	}
	if f.Code != "" {
		add("code = $%d", f.Code)
	}
	if f.Status != nil {
		add("status = $%d", *f.Status)
	}
	where := strings.Join(conds, " AND ")

	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM department WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit(), p.Offset())
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM department WHERE %s ORDER BY id LIMIT $%d OFFSET $%d`,
		deptColumns, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var depts []*Department
	for rows.Next() {
		d := &Department{}
		if err := rows.Scan(&d.ID, &d.Name, &d.Code, &d.Description, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, 0, err
		}
		depts = append(depts, d)
	}
	return depts, total, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM department WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) ExistsCode(ctx context.Context, code string, excludeID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM department WHERE code = $1 AND id <> $2)`,
		code, excludeID).Scan(&exists)
	return exists, err
}
