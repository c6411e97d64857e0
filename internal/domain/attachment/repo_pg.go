package attachment

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/db"
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

const attColumns = `id, record_id, file_name, stored_name, file_type, file_size, description, created_at`

func (r *repoPG) Create(ctx context.Context, a *Attachment) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO attachment (record_id, file_name, stored_name, file_type, file_size, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`,
		a.RecordID, a.FileName, a.StoredName, a.FileType, a.FileSize, a.Description,
	).Scan(&a.ID, &a.CreatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Attachment, error) {
	a := &Attachment{}
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT `+attColumns+` FROM attachment WHERE id = $1`, id,
	).Scan(&a.ID, &a.RecordID, &a.FileName, &a.StoredName, &a.FileType,
		&a.FileSize, &a.Description, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Attachment")
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *repoPG) UpdateDescription(ctx context.Context, id int64, description *string) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE attachment SET description = $1 WHERE id = $2`, description, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Attachment")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM attachment WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Attachment")
	}
	return nil
}

func (r *repoPG) ListByRecord(ctx context.Context, recordID int64) ([]*Attachment, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+attColumns+` FROM attachment WHERE record_id = $1 ORDER BY id`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []*Attachment
	for rows.Next() {
		a := &Attachment{}
		if err := rows.Scan(&a.ID, &a.RecordID, &a.FileName, &a.StoredName, &a.FileType,
			&a.FileSize, &a.Description, &a.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *repoPG) StoredNamesByRecord(ctx context.Context, recordID int64) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT stored_name FROM attachment WHERE record_id = $1`, recordID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
