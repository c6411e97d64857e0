// Package prescription manages prescription rows under a medical record.
// Mutations are allowed only while the parent record is in draft.
package prescription

import "time"

// Prescription maps to the prescription table.
type Prescription struct {
	ID            int64     `json:"id"`
	RecordID      int64     `json:"recordId"`
	MedicineName  string    `json:"medicineName"`
	Specification *string   `json:"specification,omitempty"`
	Dosage        *string   `json:"dosage,omitempty"`
	Frequency     *string   `json:"frequency,omitempty"`
	Duration      *string   `json:"duration,omitempty"`
	Quantity      *int      `json:"quantity,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Filter narrows the global prescription listing.
type Filter struct {
	RecordID     int64
	MedicineName string
}
