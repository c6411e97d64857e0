// Package auditlog keeps the append-only operation log. Every mutating
// service method records an entry; writes are best-effort and never block
// or roll back the primary operation.
package auditlog

import (
	"encoding/json"
	"time"
)

// OperationLog maps to the operation_log table.
type OperationLog struct {
	ID        int64           `json:"id"`
	UserID    *int64          `json:"userId,omitempty"`
	Module    string          `json:"module"`
	Action    string          `json:"action"`
	TargetID  *int64          `json:"targetId,omitempty"`
	IPAddress string          `json:"ipAddress,omitempty"`
	UserAgent string          `json:"userAgent,omitempty"`
	Details   json.RawMessage `json:"details,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Filter narrows the log listing.
type Filter struct {
	Module string
	Action string
	UserID int64
	From   *time.Time
	To     *time.Time
}
