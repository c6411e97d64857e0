// Package record implements medical records, the root aggregate owning
// prescriptions and attachments. A record is mutable only while in draft.
package record

import "time"

// MedicalRecord maps to the medical_record table.
type MedicalRecord struct {
	ID             int64      `json:"id"`
	RecordNo       string     `json:"recordNo"`
	PatientID      int64      `json:"patientId"`
	DoctorID       int64      `json:"doctorId"`
	DepartmentID   *int64     `json:"departmentId,omitempty"`
	VisitType      VisitType  `json:"visitType"`
	VisitDate      time.Time  `json:"visitDate"`
	ChiefComplaint *string    `json:"chiefComplaint,omitempty"`
	PresentIllness *string    `json:"presentIllness,omitempty"`
	PhysicalExam   *string    `json:"physicalExam,omitempty"`
	Diagnosis      *string    `json:"diagnosis,omitempty"`
	TreatmentPlan  *string    `json:"treatmentPlan,omitempty"`
	Prescription   *string    `json:"prescription,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	Status         Status     `json:"status"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`

	// Joined display fields, populated on reads.
	PatientName    *string `json:"patientName,omitempty"`
	PatientNo      *string `json:"patientMedicalNo,omitempty"`
	DoctorName     *string `json:"doctorName,omitempty"`
	DepartmentName *string `json:"departmentName,omitempty"`
}

// VisitSummary is the slice of a record that feeds a patient's visit
// history.
type VisitSummary struct {
	VisitDate time.Time
	VisitType VisitType
	Diagnosis *string
}

// Detail is the single-record read shape. It carries the record with its
// joined display fields plus the prescriptions and attachments filed
// under it.
type Detail struct {
	*MedicalRecord
	Prescriptions any `json:"prescriptions"`
	Attachments   any `json:"attachments"`
}

// Filter narrows record listings.
type Filter struct {
	RecordNo     string
	PatientID    int64
	PatientName  string
	DoctorID     int64
	DepartmentID int64
	VisitType    string
	Status       string
	VisitFrom    *time.Time
	VisitTo      *time.Time
}
