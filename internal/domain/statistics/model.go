// Package statistics serves read-only aggregations for dashboard and
// reporting views. Nothing here mutates state.
package statistics

import "time"

// DateRange bounds an aggregation window, both ends inclusive.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Dashboard holds the headline counters.
type Dashboard struct {
	TotalPatients        int `json:"totalPatients"`
	TotalDoctors         int `json:"totalDoctors"`
	TotalDepartments     int `json:"totalDepartments"`
	TotalMedicalRecords  int `json:"totalMedicalRecords"`
	TodayVisits          int `json:"todayVisits"`
	MonthlyVisits        int `json:"monthlyVisits"`
	NewPatientsThisMonth int `json:"newPatientsThisMonth"`
	PendingRecords       int `json:"pendingRecords"`
}

// VisitStats summarizes visits inside a date range.
type VisitStats struct {
	TotalVisits         int            `json:"totalVisits"`
	VisitsByType        map[string]int `json:"visitsByType"`
	VisitsByStatus      map[string]int `json:"visitsByStatus"`
	AverageVisitsPerDay float64        `json:"averageVisitsPerDay"`
}

// TrendPoint is one day in the visit trend, zero-filled for quiet days.
type TrendPoint struct {
	Date       string `json:"date"`
	Count      int    `json:"count"`
	Outpatient int    `json:"outpatient"`
	Emergency  int    `json:"emergency"`
	Inpatient  int    `json:"inpatient"`
}

// DepartmentStats aggregates activity per active department.
type DepartmentStats struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Code         *string `json:"code"`
	DoctorCount  int     `json:"doctorCount"`
	RecordCount  int     `json:"recordCount"`
	PatientCount int     `json:"patientCount"`
}

// DoctorStats ranks doctors by record volume.
type DoctorStats struct {
	ID                     int64   `json:"id"`
	Name                   string  `json:"name"`
	Title                  *string `json:"title"`
	DepartmentName         *string `json:"departmentName"`
	RecordCount            int     `json:"recordCount"`
	PatientCount           int     `json:"patientCount"`
	AverageRecordsPerMonth float64 `json:"averageRecordsPerMonth"`

	// CreatedAt feeds the per-month average; not rendered.
	CreatedAt time.Time `json:"-"`
}

// PatientStats covers registry growth and demographic distributions.
type PatientStats struct {
	TotalPatients         int            `json:"totalPatients"`
	NewPatientsThisMonth  int            `json:"newPatientsThisMonth"`
	NewPatientsLastMonth  int            `json:"newPatientsLastMonth"`
	GrowthRate            float64        `json:"growthRate"`
	BloodTypeDistribution map[string]int `json:"bloodTypeDistribution"`
	AgeDistribution       map[string]int `json:"ageDistribution"`
	GenderDistribution    map[string]int `json:"genderDistribution"`
}

// DiagnosisCount is one entry in the top-diagnoses ranking.
type DiagnosisCount struct {
	Diagnosis  string  `json:"diagnosis"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// MedicineCount is one entry in the top-medicines ranking.
type MedicineCount struct {
	MedicineName string  `json:"medicineName"`
	Count        int     `json:"count"`
	Percentage   float64 `json:"percentage"`
}

// PrescriptionStats summarizes prescribing inside a date range.
type PrescriptionStats struct {
	TotalPrescriptions            int             `json:"totalPrescriptions"`
	UniqueMedicines               int             `json:"uniqueMedicines"`
	TopMedicines                  []MedicineCount `json:"topMedicines"`
	AveragePrescriptionsPerRecord float64         `json:"averagePrescriptionsPerRecord"`
}

// Report bundles every aggregation for a single range.
type Report struct {
	GeneratedAt   time.Time          `json:"generatedAt"`
	DateRange     ReportRange        `json:"dateRange"`
	Dashboard     *Dashboard         `json:"dashboard"`
	Visits        *VisitStats        `json:"visits"`
	Patients      *PatientStats      `json:"patients"`
	Departments   []*DepartmentStats `json:"departments"`
	TopDoctors    []*DoctorStats     `json:"topDoctors"`
	TopDiseases   []DiagnosisCount   `json:"topDiseases"`
	Prescriptions *PrescriptionStats `json:"prescriptions"`
}

// ReportRange renders the resolved window as plain dates.
type ReportRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}
