package record

import (
	"strings"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	all := []Status{StatusDraft, StatusConfirmed, StatusArchived}
	allowed := map[[2]Status]bool{
		{StatusDraft, StatusConfirmed}:    true,
		{StatusConfirmed, StatusArchived}: true,
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[[2]Status{from, to}]
			if got := CanTransition(from, to); got != want {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestAllowedNext(t *testing.T) {
	if next := AllowedNext(StatusDraft); len(next) != 1 || next[0] != StatusConfirmed {
		t.Errorf("AllowedNext(draft) = %v", next)
	}
	if next := AllowedNext(StatusArchived); len(next) != 0 {
		t.Errorf("AllowedNext(archived) = %v", next)
	}
}

func TestTransitionErrorMessages(t *testing.T) {
	err := TransitionError(StatusDraft, StatusArchived)
	if !strings.Contains(err.Error(), "from 'draft' to 'archived'") {
		t.Errorf("message = %q", err.Error())
	}
	if !strings.Contains(err.Error(), "Valid transitions: confirmed") {
		t.Errorf("message = %q", err.Error())
	}

	err = TransitionError(StatusArchived, StatusDraft)
	if !strings.Contains(err.Error(), "Valid transitions: none") {
		t.Errorf("terminal message = %q", err.Error())
	}
}

func TestValidStatus(t *testing.T) {
	for _, s := range []Status{StatusDraft, StatusConfirmed, StatusArchived} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%s) = false", s)
		}
	}
	if ValidStatus("deleted") {
		t.Error("ValidStatus(deleted) = true")
	}
}

func TestValidVisitType(t *testing.T) {
	for _, v := range []VisitType{VisitOutpatient, VisitEmergency, VisitInpatient} {
		if !ValidVisitType(v) {
			t.Errorf("ValidVisitType(%s) = false", v)
		}
	}
	if ValidVisitType("telehealth") {
		t.Error("ValidVisitType(telehealth) = true")
	}
}
