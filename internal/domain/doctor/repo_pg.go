package doctor

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

const doctorColumns = `d.id, d.user_id, d.department_id, d.name, d.title, d.specialty,
	d.license_no, d.introduction, d.created_at, d.updated_at, dep.name`

const doctorFrom = `doctor d LEFT JOIN department dep ON dep.id = d.department_id`

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO doctor (user_id, department_id, name, title, specialty, license_no, introduction)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		d.UserID, d.DepartmentID, d.Name, d.Title, d.Specialty, d.LicenseNo, d.Introduction,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Doctor, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorColumns+` FROM `+doctorFrom+` WHERE d.id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctor SET department_id = $2, name = $3, title = $4, specialty = $5,
			license_no = $6, introduction = $7, updated_at = NOW()
		WHERE id = $1`,
		d.ID, d.DepartmentID, d.Name, d.Title, d.Specialty, d.LicenseNo, d.Introduction,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Doctor")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctor WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Doctor")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Doctor, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		conds = append(conds, fmt.Sprintf(cond, n))
		args = append(args, val)
	}

	if f.Name != "" {
		add("d.name ILIKE $%d", "%"+f.Name+"%")
	}
	if f.Title != "" {
		add("d.title = $%d", f.Title)
	}
	if f.Specialty != "" {
		add("d.specialty ILIKE $%d", "%"+f.Specialty+"%")
	}
	if f.DepartmentID > 0 {
		add("d.department_id = $%d", f.DepartmentID)
	}
	where := strings.Join(conds, " AND ")

	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+doctorFrom+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit(), p.Offset())
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM %s WHERE %s ORDER BY d.id LIMIT $%d OFFSET $%d`,
		doctorColumns, doctorFrom, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *repoPG) ListByDepartment(ctx context.Context, departmentID int64) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorColumns+` FROM `+doctorFrom+` WHERE d.department_id = $1 ORDER BY d.name`,
		departmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	doctors, _, err := r.collect(rows, 0)
	return doctors, err
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctor WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) ExistsUserID(ctx context.Context, userID, excludeID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctor WHERE user_id = $1 AND id <> $2)`,
		userID, excludeID).Scan(&exists)
	return exists, err
}

func (r *repoPG) ExistsLicenseNo(ctx context.Context, licenseNo string, excludeID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctor WHERE license_no = $1 AND id <> $2)`,
		licenseNo, excludeID).Scan(&exists)
	return exists, err
}

func (r *repoPG) CountByDepartment(ctx context.Context, departmentID int64) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM doctor WHERE department_id = $1`, departmentID).Scan(&count)
	return count, err
}

func (r *repoPG) scan(row pgx.Row) (*Doctor, error) {
	d := &Doctor{}
	err := row.Scan(&d.ID, &d.UserID, &d.DepartmentID, &d.Name, &d.Title, &d.Specialty,
		&d.LicenseNo, &d.Introduction, &d.CreatedAt, &d.UpdatedAt, &d.DepartmentName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Doctor")
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repoPG) collect(rows pgx.Rows, total int) ([]*Doctor, int, error) {
	var doctors []*Doctor
	for rows.Next() {
		d := &Doctor{}
		if err := rows.Scan(&d.ID, &d.UserID, &d.DepartmentID, &d.Name, &d.Title, &d.Specialty,
			&d.LicenseNo, &d.Introduction, &d.CreatedAt, &d.UpdatedAt, &d.DepartmentName); err != nil {
			return nil, 0, err
		}
		doctors = append(doctors, d)
	}
	return doctors, total, rows.Err()
}
