// Package department manages the hospital department registry.
package department

import "time"

// Department statuses: 1 active, 0 disabled.
const (
	StatusDisabled = 0
	StatusActive   = 1
)

// Department maps to the department table.
type Department struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        *string   `json:"code,omitempty"`
	Description *string   `json:"description,omitempty"`
	Status      int       `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Filter narrows department listings.
type Filter struct {
	Name   string
	Code   string
	Status *int
}
