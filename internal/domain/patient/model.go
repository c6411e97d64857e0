// Package patient manages the patient registry. Every patient carries a
// system-generated immutable medical number.
package patient

import "time"

// Patient maps to the patient table.
type Patient struct {
	ID               int64      `json:"id"`
	MedicalNo        string     `json:"medicalNo"`
	Name             string     `json:"name"`
	IDCard           *string    `json:"idCard,omitempty"`
	Gender           *string    `json:"gender,omitempty"`
	BirthDate        *time.Time `json:"birthDate,omitempty"`
	Phone            *string    `json:"phone,omitempty"`
	EmergencyContact *string    `json:"emergencyContact,omitempty"`
	EmergencyPhone   *string    `json:"emergencyPhone,omitempty"`
	Address          *string    `json:"address,omitempty"`
	BloodType        *string    `json:"bloodType,omitempty"`
	Allergies        *string    `json:"allergies,omitempty"`
	MedicalHistory   *string    `json:"medicalHistory,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	// RecordCount is populated on detail reads.
	RecordCount int `json:"recordCount,omitempty"`
}

// VisitStats summarizes a patient's visits for the history view.
type VisitStats struct {
	TotalVisits   int            `json:"totalVisits"`
	LastVisitDate *time.Time     `json:"lastVisitDate"`
	VisitsByType  map[string]int `json:"visitsByType"`
}

// History is the medical history summary returned for a patient.
type History struct {
	Patient         *Patient   `json:"patient"`
	VisitStats      VisitStats `json:"visitStats"`
	RecentDiagnoses []string   `json:"recentDiagnoses"`
}

// Filter narrows patient listings.
type Filter struct {
	MedicalNo string
	Name      string
	IDCard    string
	Phone     string
	Gender    string
	BloodType string
}
