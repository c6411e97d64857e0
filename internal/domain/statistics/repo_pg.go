package statistics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

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

func (r *repoPG) DashboardCounts(ctx context.Context, startOfToday, startOfMonth time.Time) (*Dashboard, error) {
	d := &Dashboard{}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patient),
			(SELECT COUNT(*) FROM doctor),
			(SELECT COUNT(*) FROM department WHERE status = 1),
			(SELECT COUNT(*) FROM medical_record),
			(SELECT COUNT(*) FROM medical_record WHERE visit_date >= $1),
			(SELECT COUNT(*) FROM medical_record WHERE visit_date >= $2),
			(SELECT COUNT(*) FROM patient WHERE created_at >= $2),
			(SELECT COUNT(*) FROM medical_record WHERE status = 'draft')`,
		startOfToday, startOfMonth,
	).Scan(&d.TotalPatients, &d.TotalDoctors, &d.TotalDepartments, &d.TotalMedicalRecords,
		&d.TodayVisits, &d.MonthlyVisits, &d.NewPatientsThisMonth, &d.PendingRecords)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (r *repoPG) VisitCounts(ctx context.Context, dr DateRange) (int, map[string]int, map[string]int, error) {
	q := r.conn(ctx)

	var total int
	err := q.QueryRow(ctx,
		`SELECT COUNT(*) FROM medical_record WHERE visit_date BETWEEN $1 AND $2`,
		dr.From, dr.To).Scan(&total)
	if err != nil {
		return 0, nil, nil, err
	}

	byType, err := r.groupCount(ctx,
		`SELECT visit_type, COUNT(*) FROM medical_record
		 WHERE visit_date BETWEEN $1 AND $2 GROUP BY visit_type`, dr.From, dr.To)
	if err != nil {
		return 0, nil, nil, err
	}
	byStatus, err := r.groupCount(ctx,
		`SELECT status, COUNT(*) FROM medical_record
		 WHERE visit_date BETWEEN $1 AND $2 GROUP BY status`, dr.From, dr.To)
	if err != nil {
		return 0, nil, nil, err
	}
	return total, byType, byStatus, nil
}

func (r *repoPG) groupCount(ctx context.Context, sql string, args ...any) (map[string]int, error) {
	rows, err := r.conn(ctx).Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var key *string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		k := "Unknown"
		if key != nil && *key != "" {
			k = *key
		}
		out[k] += n
	}
	return out, rows.Err()
}

func (r *repoPG) VisitsPerDay(ctx context.Context, dr DateRange) ([]TrendPoint, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT visit_date::date AS day,
			COUNT(*),
			COUNT(*) FILTER (WHERE visit_type = 'outpatient'),
			COUNT(*) FILTER (WHERE visit_type = 'emergency'),
			COUNT(*) FILTER (WHERE visit_type = 'inpatient')
		FROM medical_record
		WHERE visit_date BETWEEN $1 AND $2
		GROUP BY day ORDER BY day`, dr.From, dr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TrendPoint
	for rows.Next() {
		var day time.Time
		var p TrendPoint
		if err := rows.Scan(&day, &p.Count, &p.Outpatient, &p.Emergency, &p.Inpatient); err != nil {
			return nil, err
		}
		p.Date = day.Format("2006-01-02")
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *repoPG) DepartmentStats(ctx context.Context) ([]*DepartmentStats, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT d.id, d.name, d.code,
			(SELECT COUNT(*) FROM doctor WHERE department_id = d.id),
			(SELECT COUNT(*) FROM medical_record WHERE department_id = d.id),
			(SELECT COUNT(DISTINCT patient_id) FROM medical_record WHERE department_id = d.id)
		FROM department d
		WHERE d.status = 1
		ORDER BY 5 DESC, d.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DepartmentStats
	for rows.Next() {
		s := &DepartmentStats{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Code, &s.DoctorCount, &s.RecordCount, &s.PatientCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repoPG) DoctorStats(ctx context.Context, limit int) ([]*DoctorStats, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT doc.id, doc.name, doc.title, dep.name, doc.created_at,
			(SELECT COUNT(*) FROM medical_record WHERE doctor_id = doc.id),
			(SELECT COUNT(DISTINCT patient_id) FROM medical_record WHERE doctor_id = doc.id)
		FROM doctor doc
		LEFT JOIN department dep ON dep.id = doc.department_id
		ORDER BY 6 DESC, doc.name
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DoctorStats
	for rows.Next() {
		s := &DoctorStats{}
		if err := rows.Scan(&s.ID, &s.Name, &s.Title, &s.DepartmentName, &s.CreatedAt,
			&s.RecordCount, &s.PatientCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repoPG) PatientCounts(ctx context.Context, startOfMonth, startOfLastMonth, endOfLastMonth time.Time) (int, int, int, error) {
	var total, thisMonth, lastMonth int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patient),
			(SELECT COUNT(*) FROM patient WHERE created_at >= $1),
			(SELECT COUNT(*) FROM patient WHERE created_at BETWEEN $2 AND $3)`,
		startOfMonth, startOfLastMonth, endOfLastMonth,
	).Scan(&total, &thisMonth, &lastMonth)
	return total, thisMonth, lastMonth, err
}

func (r *repoPG) BloodTypeCounts(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT blood_type, COUNT(*) FROM patient GROUP BY blood_type`)
}

func (r *repoPG) GenderCounts(ctx context.Context) (map[string]int, error) {
	return r.groupCount(ctx, `SELECT gender, COUNT(*) FROM patient GROUP BY gender`)
}

func (r *repoPG) BirthDates(ctx context.Context) ([]*time.Time, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT birth_date FROM patient`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*time.Time
	for rows.Next() {
		var t *time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *repoPG) Diagnoses(ctx context.Context, dr DateRange) ([]string, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT diagnosis FROM medical_record
		WHERE diagnosis IS NOT NULL AND visit_date BETWEEN $1 AND $2`, dr.From, dr.To)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repoPG) MedicineCounts(ctx context.Context, dr DateRange) (map[string]int, error) {
	return r.groupCount(ctx, `
		SELECT p.medicine_name, COUNT(*)
		FROM prescription p
		JOIN medical_record m ON m.id = p.record_id
		WHERE m.visit_date BETWEEN $1 AND $2
		GROUP BY p.medicine_name`, dr.From, dr.To)
}

func (r *repoPG) RecordsWithPrescriptions(ctx context.Context, dr DateRange) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(DISTINCT p.record_id)
		FROM prescription p
		JOIN medical_record m ON m.id = p.record_id
		WHERE m.visit_date BETWEEN $1 AND $2`, dr.From, dr.To).Scan(&n)
	return n, err
}
