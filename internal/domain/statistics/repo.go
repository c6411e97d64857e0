package statistics

import (
	"context"
	"time"
)

// Repository fetches raw aggregates; derived figures (percentages, averages,
// bucket fills) are computed in the service.
type Repository interface {
	DashboardCounts(ctx context.Context, startOfToday, startOfMonth time.Time) (*Dashboard, error)
	VisitCounts(ctx context.Context, r DateRange) (total int, byType, byStatus map[string]int, err error)
	VisitsPerDay(ctx context.Context, r DateRange) ([]TrendPoint, error)
	DepartmentStats(ctx context.Context) ([]*DepartmentStats, error)
	DoctorStats(ctx context.Context, limit int) ([]*DoctorStats, error)
	PatientCounts(ctx context.Context, startOfMonth, startOfLastMonth, endOfLastMonth time.Time) (total, thisMonth, lastMonth int, err error)
	BloodTypeCounts(ctx context.Context) (map[string]int, error)
	GenderCounts(ctx context.Context) (map[string]int, error)
	BirthDates(ctx context.Context) ([]*time.Time, error)
	Diagnoses(ctx context.Context, r DateRange) ([]string, error)
	MedicineCounts(ctx context.Context, r DateRange) (map[string]int, error)
	RecordsWithPrescriptions(ctx context.Context, r DateRange) (int, error)
}
