package prescription

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/pkg/pagination"
)

type mockRepo struct {
	items  map[int64]*Prescription
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64]*Prescription), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	p.ID = m.nextID
	m.nextID++
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Prescription, error) {
	p, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("Prescription")
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, p *Prescription) error {
	if _, ok := m.items[p.ID]; !ok {
		return apperr.NotFound("Prescription")
	}
	cp := *p
	m.items[p.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return apperr.NotFound("Prescription")
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) DeleteByRecord(_ context.Context, recordID int64) (int64, error) {
	var n int64
	for id, p := range m.items {
		if p.RecordID == recordID {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) ListByRecord(_ context.Context, recordID int64) ([]*Prescription, error) {
	var out []*Prescription
	for _, p := range m.items {
		if p.RecordID == recordID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *mockRepo) List(_ context.Context, f Filter, _ pagination.Params) ([]*Prescription, int, error) {
	var out []*Prescription
	for _, p := range m.items {
		if f.RecordID > 0 && p.RecordID != f.RecordID {
			continue
		}
		if f.MedicineName != "" && !strings.Contains(p.MedicineName, f.MedicineName) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

type passRunner struct{}

func (passRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// recordStates mimics the record service gate: known records carry a status
// and only drafts pass.
type recordStates map[int64]string

func (g recordStates) EnsureDraft(_ context.Context, recordID int64) error {
	status, ok := g[recordID]
	if !ok {
		return apperr.NotFound("Medical record")
	}
	if status != "draft" {
		return apperr.State("Cannot modify a %s record; only draft records are editable", status)
	}
	return nil
}

type fixture struct {
	repo *mockRepo
	gate recordStates
	svc  *Service
}

func newFixture() *fixture {
	f := &fixture{repo: newMockRepo(), gate: recordStates{1: "draft"}}
	f.svc = NewService(f.repo, passRunner{}, f.gate, auditlog.NopRecorder{})
	return f
}

func TestCreateRequiresDraftRecord(t *testing.T) {
	f := newFixture()

	if _, err := f.svc.Create(context.Background(), 1, Input{MedicineName: "Amoxicillin"}); err != nil {
		t.Fatalf("create under draft: %v", err)
	}

	f.gate[1] = "confirmed"
	if _, err := f.svc.Create(context.Background(), 1, Input{MedicineName: "Ibuprofen"}); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("create under confirmed err = %v, want 400", err)
	}

	if _, err := f.svc.Create(context.Background(), 99, Input{MedicineName: "Ibuprofen"}); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("create under missing record err = %v, want 404", err)
	}
}

func TestUpdateRequiresDraftRecord(t *testing.T) {
	f := newFixture()
	p, err := f.svc.Create(context.Background(), 1, Input{MedicineName: "Amoxicillin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	dosage := "500mg"
	got, err := f.svc.Update(context.Background(), p.ID, Input{Dosage: &dosage})
	if err != nil {
		t.Fatalf("update under draft: %v", err)
	}
	if got.Dosage == nil || *got.Dosage != "500mg" {
		t.Errorf("dosage = %v", got.Dosage)
	}
	if got.MedicineName != "Amoxicillin" {
		t.Errorf("medicineName changed to %q on partial update", got.MedicineName)
	}

	f.gate[1] = "confirmed"
	if _, err := f.svc.Update(context.Background(), p.ID, Input{Dosage: &dosage}); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("update under confirmed err = %v, want 400", err)
	}
}

func TestDeleteRequiresDraftRecord(t *testing.T) {
	f := newFixture()
	p, _ := f.svc.Create(context.Background(), 1, Input{MedicineName: "Amoxicillin"})

	f.gate[1] = "archived"
	if err := f.svc.Delete(context.Background(), p.ID); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("delete under archived err = %v, want 400", err)
	}
	if _, err := f.svc.Get(context.Background(), p.ID); err != nil {
		t.Error("prescription gone despite rejected delete")
	}

	f.gate[1] = "draft"
	if err := f.svc.Delete(context.Background(), p.ID); err != nil {
		t.Fatalf("delete under draft: %v", err)
	}
	if _, err := f.svc.Get(context.Background(), p.ID); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("get after delete err = %v, want 404", err)
	}
}

func TestDeleteMissingPrescription(t *testing.T) {
	f := newFixture()
	if err := f.svc.Delete(context.Background(), 42); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("err = %v, want 404", err)
	}
}

// TestRecordLifecycleFreezesPrescriptions walks a record through its statuses:
// prescriptions accumulate while draft, then the confirm freezes them.
func TestRecordLifecycleFreezesPrescriptions(t *testing.T) {
	f := newFixture()

	for _, name := range []string{"Amoxicillin", "Ibuprofen"} {
		if _, err := f.svc.Create(context.Background(), 1, Input{MedicineName: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	f.gate[1] = "confirmed"
	if _, err := f.svc.Create(context.Background(), 1, Input{MedicineName: "Paracetamol"}); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("create after confirm err = %v, want 400", err)
	}

	f.gate[1] = "archived"
	if _, err := f.svc.Create(context.Background(), 1, Input{MedicineName: "Paracetamol"}); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("create after archive err = %v, want 400", err)
	}

	list, err := f.svc.ListByRecord(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByRecord: %v", err)
	}
	if len(list) != 2 {
		t.Errorf("prescriptions = %d, want the 2 added while draft", len(list))
	}
}

func TestListFiltersByMedicineName(t *testing.T) {
	f := newFixture()
	f.gate[2] = "draft"
	f.svc.Create(context.Background(), 1, Input{MedicineName: "Amoxicillin"})
	f.svc.Create(context.Background(), 1, Input{MedicineName: "Ibuprofen"})
	f.svc.Create(context.Background(), 2, Input{MedicineName: "Amoxicillin"})

	list, total, err := f.svc.List(context.Background(), Filter{MedicineName: "Amox"}, pagination.Params{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 || len(list) != 2 {
		t.Errorf("total = %d, len = %d, want 2", total, len(list))
	}

	list, total, _ = f.svc.List(context.Background(), Filter{RecordID: 2}, pagination.Params{Page: 1, PageSize: 10})
	if total != 1 || list[0].RecordID != 2 {
		t.Errorf("recordId filter: total = %d", total)
	}
}

func TestCreateBatchIsAllOrNothing(t *testing.T) {
	f := newFixture()

	created, err := f.svc.CreateBatch(context.Background(), 1, []Input{
		{MedicineName: "Amoxicillin"},
		{MedicineName: "Ibuprofen"},
	})
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("created = %d, want 2", len(created))
	}
	for _, p := range created {
		if p.ID == 0 || p.RecordID != 1 {
			t.Errorf("prescription = %+v", p)
		}
	}

	f.gate[1] = "confirmed"
	if _, err := f.svc.CreateBatch(context.Background(), 1, []Input{{MedicineName: "Aspirin"}}); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("confirmed err = %v, want 400", err)
	}
	list, _ := f.svc.ListByRecord(context.Background(), 1)
	if len(list) != 2 {
		t.Errorf("prescriptions after rejected batch = %d, want 2", len(list))
	}
}

func TestDeleteByRecordRequiresDraft(t *testing.T) {
	f := newFixture()
	f.svc.Create(context.Background(), 1, Input{MedicineName: "Amoxicillin"})
	f.svc.Create(context.Background(), 1, Input{MedicineName: "Ibuprofen"})

	deleted, err := f.svc.DeleteByRecord(context.Background(), 1)
	if err != nil {
		t.Fatalf("DeleteByRecord: %v", err)
	}
	if deleted != 2 {
		t.Errorf("deleted = %d, want 2", deleted)
	}
	list, _ := f.svc.ListByRecord(context.Background(), 1)
	if len(list) != 0 {
		t.Errorf("remaining = %d, want 0", len(list))
	}

	f.gate[1] = "confirmed"
	if _, err := f.svc.DeleteByRecord(context.Background(), 1); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("confirmed err = %v, want 400", err)
	}
	if _, err := f.svc.DeleteByRecord(context.Background(), 404); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("missing record err = %v, want 404", err)
	}
}
