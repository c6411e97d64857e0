package statistics

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"
)

const (
	defaultRangeDays = 30
	defaultLimit     = 10
	maxLimit         = 100
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// ResolveRange fills missing bounds: From defaults to 30 days back at
// midnight, To to the end of today.
func (s *Service) ResolveRange(from, to *time.Time) DateRange {
	now := s.now()
	r := DateRange{}
	if from != nil {
		r.From = startOfDay(*from)
	} else {
		r.From = startOfDay(now.AddDate(0, 0, -defaultRangeDays))
	}
	if to != nil {
		r.To = endOfDay(*to)
	} else {
		r.To = endOfDay(now)
	}
	return r
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).Add(24*time.Hour - time.Nanosecond)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return s.repo.DashboardCounts(ctx, startOfDay(now), startOfMonth)
}

func (s *Service) Visits(ctx context.Context, r DateRange) (*VisitStats, error) {
	total, byType, byStatus, err := s.repo.VisitCounts(ctx, r)
	if err != nil {
		return nil, err
	}

	days := int(math.Ceil(r.To.Sub(r.From).Hours() / 24))
	avg := 0.0
	if days > 0 {
		avg = round2(float64(total) / float64(days))
	}
	return &VisitStats{
		TotalVisits:         total,
		VisitsByType:        byType,
		VisitsByStatus:      byStatus,
		AverageVisitsPerDay: avg,
	}, nil
}

// VisitTrend returns one point per day across the range, zero-filled where
// no visits happened.
func (s *Service) VisitTrend(ctx context.Context, r DateRange) ([]TrendPoint, error) {
	points, err := s.repo.VisitsPerDay(ctx, r)
	if err != nil {
		return nil, err
	}
	byDate := make(map[string]TrendPoint, len(points))
	for _, p := range points {
		byDate[p.Date] = p
	}

	var out []TrendPoint
	for day := startOfDay(r.From); !day.After(r.To); day = day.AddDate(0, 0, 1) {
		key := day.Format("2006-01-02")
		if p, ok := byDate[key]; ok {
			out = append(out, p)
		} else {
			out = append(out, TrendPoint{Date: key})
		}
	}
	return out, nil
}

func (s *Service) Departments(ctx context.Context) ([]*DepartmentStats, error) {
	return s.repo.DepartmentStats(ctx)
}

func (s *Service) Doctors(ctx context.Context, limit int) ([]*DoctorStats, error) {
	list, err := s.repo.DoctorStats(ctx, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	now := s.now()
	for _, d := range list {
		months := math.Ceil(now.Sub(d.CreatedAt).Hours() / 24 / 30)
		if months < 1 {
			months = 1
		}
		d.AverageRecordsPerMonth = round2(float64(d.RecordCount) / months)
	}
	return list, nil
}

func (s *Service) Patients(ctx context.Context) (*PatientStats, error) {
	now := s.now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	startOfLastMonth := startOfMonth.AddDate(0, -1, 0)
	endOfLastMonth := startOfMonth.Add(-time.Nanosecond)

	total, thisMonth, lastMonth, err := s.repo.PatientCounts(ctx, startOfMonth, startOfLastMonth, endOfLastMonth)
	if err != nil {
		return nil, err
	}

	growth := 0.0
	switch {
	case lastMonth > 0:
		growth = round2(float64(thisMonth-lastMonth) / float64(lastMonth) * 100)
	case thisMonth > 0:
		growth = 100
	}

	bloodTypes, err := s.repo.BloodTypeCounts(ctx)
	if err != nil {
		return nil, err
	}
	genders, err := s.repo.GenderCounts(ctx)
	if err != nil {
		return nil, err
	}
	birthDates, err := s.repo.BirthDates(ctx)
	if err != nil {
		return nil, err
	}

	return &PatientStats{
		TotalPatients:         total,
		NewPatientsThisMonth:  thisMonth,
		NewPatientsLastMonth:  lastMonth,
		GrowthRate:            growth,
		BloodTypeDistribution: bloodTypes,
		GenderDistribution:    genders,
		AgeDistribution:       s.ageBuckets(birthDates),
	}, nil
}

func (s *Service) ageBuckets(birthDates []*time.Time) map[string]int {
	buckets := map[string]int{
		"0-17": 0, "18-30": 0, "31-45": 0, "46-60": 0, "61+": 0, "Unknown": 0,
	}
	now := s.now()
	for _, bd := range birthDates {
		if bd == nil {
			buckets["Unknown"]++
			continue
		}
		age := ageAt(*bd, now)
		switch {
		case age < 18:
			buckets["0-17"]++
		case age <= 30:
			buckets["18-30"]++
		case age <= 45:
			buckets["31-45"]++
		case age <= 60:
			buckets["46-60"]++
		default:
			buckets["61+"]++
		}
	}
	return buckets
}

func ageAt(birth, now time.Time) int {
	age := now.Year() - birth.Year()
	if now.Month() < birth.Month() ||
		(now.Month() == birth.Month() && now.Day() < birth.Day()) {
		age--
	}
	return age
}

// diagnosisSeparators covers the delimiters seen in free-text diagnosis
// fields, including fullwidth punctuation.
func diagnosisSeparator(r rune) bool {
	switch r {
	case ',', ';', '，', '；', '、', '\n':
		return true
	}
	return false
}

// Diseases splits multi-diagnosis fields, counts each diagnosis and ranks
// the top entries with their share of all diagnoses in range.
func (s *Service) Diseases(ctx context.Context, r DateRange, limit int) ([]DiagnosisCount, error) {
	raw, err := s.repo.Diagnoses(ctx, r)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	total := 0
	for _, field := range raw {
		for _, part := range strings.FieldsFunc(field, diagnosisSeparator) {
			d := strings.TrimSpace(part)
			if d == "" {
				continue
			}
			counts[d]++
			total++
		}
	}

	ranked := rank(counts, clampLimit(limit))
	out := make([]DiagnosisCount, 0, len(ranked))
	for _, e := range ranked {
		out = append(out, DiagnosisCount{Diagnosis: e.name, Count: e.count, Percentage: share(e.count, total)})
	}
	return out, nil
}

func (s *Service) Prescriptions(ctx context.Context, r DateRange) (*PrescriptionStats, error) {
	counts, err := s.repo.MedicineCounts(ctx, r)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, n := range counts {
		total += n
	}

	top := make([]MedicineCount, 0, defaultLimit)
	for _, e := range rank(counts, defaultLimit) {
		top = append(top, MedicineCount{MedicineName: e.name, Count: e.count, Percentage: share(e.count, total)})
	}

	recordsWith, err := s.repo.RecordsWithPrescriptions(ctx, r)
	if err != nil {
		return nil, err
	}
	avg := 0.0
	if recordsWith > 0 {
		avg = round2(float64(total) / float64(recordsWith))
	}

	return &PrescriptionStats{
		TotalPrescriptions:            total,
		UniqueMedicines:               len(counts),
		TopMedicines:                  top,
		AveragePrescriptionsPerRecord: avg,
	}, nil
}

type rankedEntry struct {
	name  string
	count int
}

// rank orders a count map descending, name as tiebreak, keeping the top
// limit entries.
func rank(counts map[string]int, limit int) []rankedEntry {
	entries := make([]rankedEntry, 0, len(counts))
	for name, n := range counts {
		entries = append(entries, rankedEntry{name, n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}

func share(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(count) / float64(total) * 100)
}

func (s *Service) Report(ctx context.Context, r DateRange) (*Report, error) {
	dashboard, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	visits, err := s.Visits(ctx, r)
	if err != nil {
		return nil, err
	}
	patients, err := s.Patients(ctx)
	if err != nil {
		return nil, err
	}
	departments, err := s.Departments(ctx)
	if err != nil {
		return nil, err
	}
	topDoctors, err := s.Doctors(ctx, defaultLimit)
	if err != nil {
		return nil, err
	}
	topDiseases, err := s.Diseases(ctx, r, defaultLimit)
	if err != nil {
		return nil, err
	}
	prescriptions, err := s.Prescriptions(ctx, r)
	if err != nil {
		return nil, err
	}

	return &Report{
		GeneratedAt: s.now(),
		DateRange: ReportRange{
			StartDate: r.From.Format("2006-01-02"),
			EndDate:   r.To.Format("2006-01-02"),
		},
		Dashboard:     dashboard,
		Visits:        visits,
		Patients:      patients,
		Departments:   departments,
		TopDoctors:    topDoctors,
		TopDiseases:   topDiseases,
		Prescriptions: prescriptions,
	}, nil
}
