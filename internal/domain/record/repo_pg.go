package record

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

const recordColumns = `mr.id, mr.record_no, mr.patient_id, mr.doctor_id, mr.department_id,
	mr.visit_type, mr.visit_date, mr.chief_complaint, mr.present_illness, mr.physical_exam,
	mr.diagnosis, mr.treatment_plan, mr.prescription, mr.notes, mr.status,
	mr.created_at, mr.updated_at`

const recordJoins = `medical_record mr
	JOIN patient p ON p.id = mr.patient_id
	JOIN doctor d ON d.id = mr.doctor_id
	LEFT JOIN department dep ON dep.id = mr.department_id`

func (r *repoPG) Create(ctx context.Context, rec *MedicalRecord) error {
	return r.conn(ctx).QueryRow(ctx, `
		INSERT INTO medical_record (record_no, patient_id, doctor_id, department_id,
			visit_type, visit_date, chief_complaint, present_illness, physical_exam,
			diagnosis, treatment_plan, prescription, notes, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id, created_at, updated_at`,
		rec.RecordNo, rec.PatientID, rec.DoctorID, rec.DepartmentID,
		rec.VisitType, rec.VisitDate, rec.ChiefComplaint, rec.PresentIllness, rec.PhysicalExam,
		rec.Diagnosis, rec.TreatmentPlan, rec.Prescription, rec.Notes, rec.Status,
	).Scan(&rec.ID, &rec.CreatedAt, &rec.UpdatedAt)
}

func (r *repoPG) GetByID(ctx context.Context, id int64) (*MedicalRecord, error) {
	return r.scan(r.conn(ctx).QueryRow(ctx, `
		SELECT `+recordColumns+`, p.name, p.medical_no, d.name, dep.name
		FROM `+recordJoins+`
		WHERE mr.id = $1`, id))
}

func (r *repoPG) GetForUpdate(ctx context.Context, id int64) (*MedicalRecord, error) {
	rec := &MedicalRecord{}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, record_no, patient_id, doctor_id, department_id, visit_type, visit_date,
			chief_complaint, present_illness, physical_exam, diagnosis, treatment_plan,
			prescription, notes, status, created_at, updated_at
		FROM medical_record WHERE id = $1 FOR UPDATE`, id,
	).Scan(&rec.ID, &rec.RecordNo, &rec.PatientID, &rec.DoctorID, &rec.DepartmentID,
		&rec.VisitType, &rec.VisitDate, &rec.ChiefComplaint, &rec.PresentIllness,
		&rec.PhysicalExam, &rec.Diagnosis, &rec.TreatmentPlan, &rec.Prescription,
		&rec.Notes, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Medical record")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *repoPG) Update(ctx context.Context, rec *MedicalRecord) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medical_record SET patient_id = $2, doctor_id = $3, department_id = $4,
			visit_type = $5, visit_date = $6, chief_complaint = $7, present_illness = $8,
			physical_exam = $9, diagnosis = $10, treatment_plan = $11, prescription = $12,
			notes = $13, updated_at = NOW()
		WHERE id = $1`,
		rec.ID, rec.PatientID, rec.DoctorID, rec.DepartmentID,
		rec.VisitType, rec.VisitDate, rec.ChiefComplaint, rec.PresentIllness,
		rec.PhysicalExam, rec.Diagnosis, rec.TreatmentPlan, rec.Prescription, rec.Notes,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Medical record")
	}
	return nil
}

func (r *repoPG) UpdateStatus(ctx context.Context, id int64, status Status) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medical_record SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Medical record")
	}
	return nil
}

// Delete relies on ON DELETE CASCADE for prescriptions and attachments.
func (r *repoPG) Delete(ctx context.Context, id int64) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medical_record WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Medical record")
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, f Filter, p pagination.Params) ([]*MedicalRecord, int, error) {
	conds := []string{"1=1"}
	args := []any{}
	n := 0
	add := func(cond string, val any) {
		n++
		conds = append(conds, fmt.Sprintf(cond, n))
		args = append(args, val)
	}

	if f.RecordNo != "" {
		add("mr.record_no = $%d", f.RecordNo)
	}
	if f.PatientID > 0 {
		add("mr.patient_id = $%d", f.PatientID)
	}
	if f.PatientName != "" {
		add("p.name ILIKE $%d", "%"+f.PatientName+"%")
	}
	if f.DoctorID > 0 {
		add("mr.doctor_id = $%d", f.DoctorID)
	}
	if f.DepartmentID > 0 {
		add("mr.department_id = $%d", f.DepartmentID)
	}
	if f.VisitType != "" {
		add("mr.visit_type = $%d", f.VisitType)
	}
	if f.Status != "" {
		add("mr.status = $%d", f.Status)
	}
	if f.VisitFrom != nil {
		add("mr.visit_date >= $%d", *f.VisitFrom)
	}
	if f.VisitTo != nil {
		add("mr.visit_date <= $%d", *f.VisitTo)
	}
	where := strings.Join(conds, " AND ")

	q := r.conn(ctx)

	var total int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM `+recordJoins+` WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, p.Limit(), p.Offset())
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT %s, p.name, p.medical_no, d.name, dep.name
		FROM %s WHERE %s
		ORDER BY mr.visit_date DESC, mr.id DESC LIMIT $%d OFFSET $%d`,
		recordColumns, recordJoins, where, n+1, n+2), args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*MedicalRecord
	for rows.Next() {
		rec := &MedicalRecord{}
		if err := rows.Scan(&rec.ID, &rec.RecordNo, &rec.PatientID, &rec.DoctorID, &rec.DepartmentID,
			&rec.VisitType, &rec.VisitDate, &rec.ChiefComplaint, &rec.PresentIllness,
			&rec.PhysicalExam, &rec.Diagnosis, &rec.TreatmentPlan, &rec.Prescription,
			&rec.Notes, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
			&rec.PatientName, &rec.PatientNo, &rec.DoctorName, &rec.DepartmentName); err != nil {
			return nil, 0, err
		}
		records = append(records, rec)
	}
	return records, total, rows.Err()
}

func (r *repoPG) CountByPatient(ctx context.Context, patientID int64) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_record WHERE patient_id = $1`, patientID).Scan(&count)
	return count, err
}

func (r *repoPG) CountByDoctor(ctx context.Context, doctorID int64) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_record WHERE doctor_id = $1`, doctorID).Scan(&count)
	return count, err
}

func (r *repoPG) VisitSummariesByPatient(ctx context.Context, patientID int64) ([]VisitSummary, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT visit_date, visit_type, diagnosis
		FROM medical_record
		WHERE patient_id = $1
		ORDER BY visit_date DESC`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visits []VisitSummary
	for rows.Next() {
		var v VisitSummary
		if err := rows.Scan(&v.VisitDate, &v.VisitType, &v.Diagnosis); err != nil {
			return nil, err
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

func (r *repoPG) scan(row pgx.Row) (*MedicalRecord, error) {
	rec := &MedicalRecord{}
	err := row.Scan(&rec.ID, &rec.RecordNo, &rec.PatientID, &rec.DoctorID, &rec.DepartmentID,
		&rec.VisitType, &rec.VisitDate, &rec.ChiefComplaint, &rec.PresentIllness,
		&rec.PhysicalExam, &rec.Diagnosis, &rec.TreatmentPlan, &rec.Prescription,
		&rec.Notes, &rec.Status, &rec.CreatedAt, &rec.UpdatedAt,
		&rec.PatientName, &rec.PatientNo, &rec.DoctorName, &rec.DepartmentName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("Medical record")
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}
