// Package doctor manages doctor profiles. Each profile is bound 1:1 to a
// system user with the doctor role.
package doctor

import "time"

// Doctor maps to the doctor table.
type Doctor struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	DepartmentID *int64    `json:"departmentId,omitempty"`
	Name         string    `json:"name"`
	Title        *string   `json:"title,omitempty"`
	Specialty    *string   `json:"specialty,omitempty"`
	LicenseNo    *string   `json:"licenseNo,omitempty"`
	Introduction *string   `json:"introduction,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// DepartmentName is joined in listings for display.
	DepartmentName *string `json:"departmentName,omitempty"`
}

// Filter narrows doctor listings.
type Filter struct {
	Name         string
	Title        string
	Specialty    string
	DepartmentID int64
}
