package record

import (
	"strings"

	"github.com/hrms/hrms/internal/platform/apperr"
)

// Status is the medical record lifecycle state. The machine is strictly
// one-directional: draft -> confirmed -> archived.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusConfirmed Status = "confirmed"
	StatusArchived  Status = "archived"
)

var transitions = map[Status][]Status{
	StatusDraft:     {StatusConfirmed},
	StatusConfirmed: {StatusArchived},
	StatusArchived:  {},
}

// ValidStatus reports whether s is a known lifecycle state.
func ValidStatus(s Status) bool {
	_, ok := transitions[s]
	return ok
}

// AllowedNext returns the states reachable from s.
func AllowedNext(s Status) []Status {
	return transitions[s]
}

// CanTransition reports whether from may advance to to.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// TransitionError names the current state and the allowed next states, or
// "none" for terminal states.
func TransitionError(from, to Status) error {
	allowed := transitions[from]
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	allowedStr := "none"
	if len(names) > 0 {
		allowedStr = strings.Join(names, ", ")
	}
	return apperr.State("Cannot change status from '%s' to '%s'. Valid transitions: %s", from, to, allowedStr)
}

// VisitType classifies the encounter.
type VisitType string

const (
	VisitOutpatient VisitType = "outpatient"
	VisitEmergency  VisitType = "emergency"
	VisitInpatient  VisitType = "inpatient"
)

// ValidVisitType reports whether v is a known visit type.
func ValidVisitType(v VisitType) bool {
	switch v {
	case VisitOutpatient, VisitEmergency, VisitInpatient:
		return true
	}
	return false
}
