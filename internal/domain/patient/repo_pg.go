package patient

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

const patientColumns = `id, medical_no, name, id_card, gender, birth_date, phone,
	emergency_contact, emergency_phone, address, blood_type, allergies, medical_history,
	created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, p *Patient) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO patient (medical_no, name, id_card, gender, birth_date, phone,
			emergency_contact, emergency_phone, address, blood_type, allergies, medical_history)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at, updated_at`,
		p.MedicalNo, p.Name, p.IDCard, p.Gender, p.BirthDate, p.Phone,
		p.EmergencyContact, p.EmergencyPhone, p.Address, p.BloodType, p.Allergies, p.MedicalHistory,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*Patient, error) {
	p := &Patient{}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT `+patientColumns+`,
			(SELECT COUNT(*) FROM medical_record mr WHERE mr.patient_id = patient.id)
		FROM patient WHERE id = $1`, id,
	).Scan(&p.ID, &p.MedicalNo, &p.Name, &p.IDCard, &p.Gender, &p.BirthDate, &p.Phone,
		&p.EmergencyContact, &p.EmergencyPhone, &p.Address, &p.BloodType, &p.Allergies,
		&p.MedicalHistory, &p.CreatedAt, &p.UpdatedAt, &p.RecordCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Patient")
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Update never touches medical_no.
func (r *repoPG) Update(ctx context.Context, p *Patient) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET name = $2, id_card = $3, gender = $4, birth_date = $5, phone = $6,
			emergency_contact = $7, emergency_phone = $8, address = $9, blood_type = $10,
			allergies = $11, medical_history = $12, updated_at = NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.IDCard, p.Gender, p.BirthDate, p.Phone,
		p.EmergencyContact, p.EmergencyPhone, p.Address, p.BloodType, p.Allergies, p.MedicalHistory,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Patient")
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Patient")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*Patient, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		conds = append(conds, fmt.Sprintf(cond, n))
		args = append(args, val)
	}

	if f.MedicalNo != "" {
		add("medical_no = $%d", f.MedicalNo)
	}
	if f.Name != "" {
		add("name ILIKE $%d", "%"+f.Name+"%")
	}
	if f.IDCard != "" {
		add("id_card = $%d", f.IDCard)
	}
	if f.Phone != "" {
		add("phone = $%d", f.Phone)
	}
	if f.Gender != "" {
		add("gender = $%d", f.Gender)
	}
	if f.BloodType != "" {
		add("blood_type = $%d", f.BloodType)
	}
	where := strings.Join(conds, " AND ")

	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM patient WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit(), p.Offset())
	rows, err := q.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM patient WHERE %s ORDER BY id DESC LIMIT $%d OFFSET $%d`,
		patientColumns, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var patients []*Patient
	for rows.Next() {
		pt := &Patient{}
		if err := rows.Scan(&pt.ID, &pt.MedicalNo, &pt.Name, &pt.IDCard, &pt.Gender, &pt.BirthDate,
			&pt.Phone, &pt.EmergencyContact, &pt.EmergencyPhone, &pt.Address, &pt.BloodType,
			&pt.Allergies, &pt.MedicalHistory, &pt.CreatedAt, &pt.UpdatedAt); err != nil {
			return nil, 0, err
		}
		patients = append(patients, pt)
	}
	return patients, total, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *repoPG) ExistsIDCard(ctx context.Context, idCard string, excludeID int64) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient WHERE id_card = $1 AND id <> $2)`,
		idCard, excludeID).Scan(&exists)
	return exists, err
}
