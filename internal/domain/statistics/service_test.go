package statistics

import (
	"context"
	"testing"
	"time"
)

// fixedNow anchors every calculation so buckets and ranges are stable.
var fixedNow = time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)

type mockRepo struct {
	visitTotal    int
	visitsByType  map[string]int
	perDay        []TrendPoint
	doctors       []*DoctorStats
	patientTotal  int
	thisMonth     int
	lastMonth     int
	birthDates    []*time.Time
	diagnoses     []string
	medicines     map[string]int
	recordsWithRx int
}

func (m *mockRepo) DashboardCounts(_ context.Context, _, _ time.Time) (*Dashboard, error) {
	return &Dashboard{TotalPatients: m.patientTotal}, nil
}

func (m *mockRepo) VisitCounts(_ context.Context, _ DateRange) (int, map[string]int, map[string]int, error) {
	return m.visitTotal, m.visitsByType, map[string]int{"draft": m.visitTotal}, nil
}

func (m *mockRepo) VisitsPerDay(_ context.Context, _ DateRange) ([]TrendPoint, error) {
	return m.perDay, nil
}

func (m *mockRepo) DepartmentStats(_ context.Context) ([]*DepartmentStats, error) {
	return nil, nil
}

func (m *mockRepo) DoctorStats(_ context.Context, limit int) ([]*DoctorStats, error) {
	if len(m.doctors) > limit {
		return m.doctors[:limit], nil
	}
	return m.doctors, nil
}

func (m *mockRepo) PatientCounts(_ context.Context, _, _, _ time.Time) (int, int, int, error) {
	return m.patientTotal, m.thisMonth, m.lastMonth, nil
}

func (m *mockRepo) BloodTypeCounts(_ context.Context) (map[string]int, error) {
	return map[string]int{"A": 1}, nil
}

func (m *mockRepo) GenderCounts(_ context.Context) (map[string]int, error) {
	return map[string]int{"male": 1}, nil
}

func (m *mockRepo) BirthDates(_ context.Context) ([]*time.Time, error) {
	return m.birthDates, nil
}

func (m *mockRepo) Diagnoses(_ context.Context, _ DateRange) ([]string, error) {
	return m.diagnoses, nil
}

func (m *mockRepo) MedicineCounts(_ context.Context, _ DateRange) (map[string]int, error) {
	return m.medicines, nil
}

func (m *mockRepo) RecordsWithPrescriptions(_ context.Context, _ DateRange) (int, error) {
	return m.recordsWithRx, nil
}

func newService(repo *mockRepo) *Service {
	s := NewService(repo)
	s.now = func() time.Time { return fixedNow }
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveRangeDefaultsToTrailing30Days(t *testing.T) {
	s := newService(&mockRepo{})
	r := s.ResolveRange(nil, nil)
	if got := r.From; !got.Equal(date(2024, 5, 16)) {
		t.Errorf("from = %v", got)
	}
	if r.To.Format("2006-01-02 15:04:05") != "2024-06-15 23:59:59" {
		t.Errorf("to = %v", r.To)
	}

	from := date(2024, 1, 10)
	to := date(2024, 1, 20)
	r = s.ResolveRange(&from, &to)
	if !r.From.Equal(from) {
		t.Errorf("explicit from = %v", r.From)
	}
	if r.To.Before(to.Add(23 * time.Hour)) {
		t.Errorf("explicit to = %v, want end of day", r.To)
	}
}

func TestVisitsAveragePerDay(t *testing.T) {
	s := newService(&mockRepo{visitTotal: 45, visitsByType: map[string]int{"outpatient": 45}})
	from := date(2024, 6, 1)
	to := date(2024, 6, 10)
	v, err := s.Visits(context.Background(), s.ResolveRange(&from, &to))
	if err != nil {
		t.Fatalf("Visits: %v", err)
	}
	// 45 visits over 10 days
	if v.AverageVisitsPerDay != 4.5 {
		t.Errorf("averageVisitsPerDay = %v", v.AverageVisitsPerDay)
	}
	if v.VisitsByType["outpatient"] != 45 {
		t.Errorf("visitsByType = %v", v.VisitsByType)
	}
}

func TestVisitTrendZeroFillsQuietDays(t *testing.T) {
	s := newService(&mockRepo{perDay: []TrendPoint{
		{Date: "2024-06-02", Count: 3, Outpatient: 2, Emergency: 1},
	}})
	from := date(2024, 6, 1)
	to := date(2024, 6, 4)
	trend, err := s.VisitTrend(context.Background(), s.ResolveRange(&from, &to))
	if err != nil {
		t.Fatalf("VisitTrend: %v", err)
	}
	if len(trend) != 4 {
		t.Fatalf("points = %d, want 4", len(trend))
	}
	if trend[0].Date != "2024-06-01" || trend[0].Count != 0 {
		t.Errorf("day 1 = %+v", trend[0])
	}
	if trend[1].Count != 3 || trend[1].Outpatient != 2 {
		t.Errorf("day 2 = %+v", trend[1])
	}
	if trend[3].Date != "2024-06-04" || trend[3].Count != 0 {
		t.Errorf("day 4 = %+v", trend[3])
	}
}

func TestPatientGrowthRate(t *testing.T) {
	cases := []struct {
		name      string
		thisMonth int
		lastMonth int
		want      float64
	}{
		{"normal growth", 15, 10, 50},
		{"decline", 5, 10, -50},
		{"no prior month", 7, 0, 100},
		{"no patients at all", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newService(&mockRepo{thisMonth: tc.thisMonth, lastMonth: tc.lastMonth})
			stats, err := s.Patients(context.Background())
			if err != nil {
				t.Fatalf("Patients: %v", err)
			}
			if stats.GrowthRate != tc.want {
				t.Errorf("growthRate = %v, want %v", stats.GrowthRate, tc.want)
			}
		})
	}
}

func TestAgeBuckets(t *testing.T) {
	ptr := func(t time.Time) *time.Time { return &t }
	s := newService(&mockRepo{birthDates: []*time.Time{
		ptr(date(2010, 1, 1)),  // 14
		ptr(date(2006, 7, 1)),  // 17, birthday not yet reached
		ptr(date(1999, 6, 15)), // 25
		ptr(date(1990, 1, 1)),  // 34
		ptr(date(1970, 1, 1)),  // 54
		ptr(date(1950, 1, 1)),  // 74
		nil,
	}})
	stats, err := s.Patients(context.Background())
	if err != nil {
		t.Fatalf("Patients: %v", err)
	}
	want := map[string]int{"0-17": 2, "18-30": 1, "31-45": 1, "46-60": 1, "61+": 1, "Unknown": 1}
	for bucket, n := range want {
		if stats.AgeDistribution[bucket] != n {
			t.Errorf("bucket %s = %d, want %d", bucket, stats.AgeDistribution[bucket], n)
		}
	}
}

func TestDiseasesSplitsAndRanks(t *testing.T) {
	s := newService(&mockRepo{diagnoses: []string{
		"Influenza, Hypertension",
		"Influenza; Diabetes",
		"Influenza",
		"Hypertension\nAsthma",
	}})
	list, err := s.Diseases(context.Background(), s.ResolveRange(nil, nil), 3)
	if err != nil {
		t.Fatalf("Diseases: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("entries = %d, want 3", len(list))
	}
	// 7 diagnoses total: Influenza 3, Hypertension 2, then one of the singles
	if list[0].Diagnosis != "Influenza" || list[0].Count != 3 {
		t.Errorf("top = %+v", list[0])
	}
	if list[0].Percentage != 42.86 {
		t.Errorf("percentage = %v", list[0].Percentage)
	}
	if list[1].Diagnosis != "Hypertension" || list[1].Count != 2 {
		t.Errorf("second = %+v", list[1])
	}
}

func TestPrescriptionStats(t *testing.T) {
	s := newService(&mockRepo{
		medicines:     map[string]int{"Amoxicillin": 6, "Ibuprofen": 3, "Paracetamol": 1},
		recordsWithRx: 4,
	})
	stats, err := s.Prescriptions(context.Background(), s.ResolveRange(nil, nil))
	if err != nil {
		t.Fatalf("Prescriptions: %v", err)
	}
	if stats.TotalPrescriptions != 10 || stats.UniqueMedicines != 3 {
		t.Errorf("totals = %+v", stats)
	}
	if stats.TopMedicines[0].MedicineName != "Amoxicillin" || stats.TopMedicines[0].Percentage != 60 {
		t.Errorf("top medicine = %+v", stats.TopMedicines[0])
	}
	if stats.AveragePrescriptionsPerRecord != 2.5 {
		t.Errorf("avg per record = %v", stats.AveragePrescriptionsPerRecord)
	}
}

func TestDoctorsAverageRecordsPerMonth(t *testing.T) {
	s := newService(&mockRepo{doctors: []*DoctorStats{
		{ID: 1, Name: "Dr A", RecordCount: 30, CreatedAt: fixedNow.AddDate(0, 0, -90)},
		{ID: 2, Name: "Dr B", RecordCount: 5, CreatedAt: fixedNow.AddDate(0, 0, -3)},
	}})
	list, err := s.Doctors(context.Background(), 10)
	if err != nil {
		t.Fatalf("Doctors: %v", err)
	}
	if list[0].AverageRecordsPerMonth != 10 {
		t.Errorf("dr A avg = %v", list[0].AverageRecordsPerMonth)
	}
	// under a month counts as one month
	if list[1].AverageRecordsPerMonth != 5 {
		t.Errorf("dr B avg = %v", list[1].AverageRecordsPerMonth)
	}
}

func TestDoctorLimitClamped(t *testing.T) {
	var doctors []*DoctorStats
	for i := 0; i < 20; i++ {
		doctors = append(doctors, &DoctorStats{ID: int64(i), CreatedAt: fixedNow})
	}
	s := newService(&mockRepo{doctors: doctors})

	list, _ := s.Doctors(context.Background(), 0)
	if len(list) != 10 {
		t.Errorf("default limit: got %d, want 10", len(list))
	}
}
