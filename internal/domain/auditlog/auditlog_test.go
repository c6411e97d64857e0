package auditlog

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hrms/hrms/internal/platform/auth"
	"github.com/hrms/hrms/internal/platform/middleware"
	"github.com/hrms/hrms/pkg/pagination"
)

type mockRepo struct {
	mu      sync.Mutex
	logs    []*OperationLog
	failAll bool
}

func (m *mockRepo) Insert(_ context.Context, log *OperationLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return errors.New("db down")
	}
	log.ID = int64(len(m.logs) + 1)
	m.logs = append(m.logs, log)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, p pagination.Params) ([]*OperationLog, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*OperationLog
	for _, l := range m.logs {
		if f.Module != "" && l.Module != f.Module {
			continue
		}
		if f.Action != "" && l.Action != f.Action {
			continue
		}
		if f.UserID > 0 && (l.UserID == nil || *l.UserID != f.UserID) {
			continue
		}
		out = append(out, l)
	}
	return out, len(out), nil
}

func TestRecorderFillsContextMetadata(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(repo, zerolog.Nop())

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: 42, Username: "alice", Role: "doctor"})
	ctx = middleware.WithClientMeta(ctx, middleware.ClientMeta{IP: "10.1.1.1", UserAgent: "ua/1"})

	rec.Record(ctx, Entry{Module: "patient", Action: "create", TargetID: 7, Details: map[string]any{"name": "Bob"}})

	if len(repo.logs) != 1 {
		t.Fatalf("got %d logs, want 1", len(repo.logs))
	}
	l := repo.logs[0]
	if l.UserID == nil || *l.UserID != 42 {
		t.Errorf("UserID = %v, want 42", l.UserID)
	}
	if l.IPAddress != "10.1.1.1" || l.UserAgent != "ua/1" {
		t.Errorf("client meta = %q %q", l.IPAddress, l.UserAgent)
	}
	var details map[string]any
	if err := json.Unmarshal(l.Details, &details); err != nil || details["name"] != "Bob" {
		t.Errorf("details = %s err = %v", l.Details, err)
	}
}

func TestRecorderExplicitUserWins(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(repo, zerolog.Nop())

	ctx := auth.WithIdentity(context.Background(), auth.Identity{UserID: 42})
	rec.Record(ctx, Entry{UserID: 9, Module: "auth", Action: "login"})

	if l := repo.logs[0]; l.UserID == nil || *l.UserID != 9 {
		t.Errorf("UserID = %v, want explicit 9", l.UserID)
	}
}

func TestRecorderSwallowsFailure(t *testing.T) {
	repo := &mockRepo{failAll: true}
	rec := NewRecorder(repo, zerolog.Nop())

	// must not panic or propagate
	rec.Record(context.Background(), Entry{Module: "record", Action: "delete"})
	if len(repo.logs) != 0 {
		t.Fatal("unexpected log written")
	}
}

func TestServiceListFilters(t *testing.T) {
	repo := &mockRepo{}
	rec := NewRecorder(repo, zerolog.Nop())
	rec.Record(context.Background(), Entry{UserID: 1, Module: "patient", Action: "create"})
	rec.Record(context.Background(), Entry{UserID: 1, Module: "patient", Action: "update"})
	rec.Record(context.Background(), Entry{UserID: 2, Module: "record", Action: "create"})

	svc := NewService(repo)
	logs, total, err := svc.List(context.Background(), Filter{Module: "patient"}, pagination.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(logs) != 2 {
		t.Errorf("total = %d len = %d, want 2", total, len(logs))
	}

	logs, _, _ = svc.List(context.Background(), Filter{UserID: 2}, pagination.Params{Page: 1, PageSize: 10})
	if len(logs) != 1 || logs[0].Module != "record" {
		t.Errorf("user filter logs = %+v", logs)
	}
}
