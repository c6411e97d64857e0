package department

import (
	"context"
	"net/http"
	"testing"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/pkg/pagination"
)

type mockRepo struct {
	depts  map[int64]*Department
	nextID int64
}

func newMockRepo() *mockRepo {
	return &mockRepo{depts: make(map[int64]*Department), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, d *Department) error {
	d.ID = m.nextID
	m.nextID++
	cp := *d
	m.depts[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Department, error) {
	d, ok := m.depts[id]
	if !ok {
		return nil, apperr.NotFound("Department")
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, d *Department) error {
	if _, ok := m.depts[d.ID]; !ok {
		return apperr.NotFound("Department")
	}
	cp := *d
	m.depts[d.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.depts[id]; !ok {
		return apperr.NotFound("Department")
	}
	delete(m.depts, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, f Filter, _ pagination.Params) ([]*Department, int, error) {
	var out []*Department
	for _, d := range m.depts {
		if f.Status != nil && d.Status != *f.Status {
			continue
		}
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *mockRepo) Exists(_ context.Context, id int64) (bool, error) {
	_, ok := m.depts[id]
	return ok, nil
}

func (m *mockRepo) ExistsCode(_ context.Context, code string, excludeID int64) (bool, error) {
	for _, d := range m.depts {
		if d.Code != nil && *d.Code == code && d.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

type mockDoctorCounter struct {
	counts map[int64]int
}

func (m *mockDoctorCounter) CountByDepartment(_ context.Context, id int64) (int, error) {
	return m.counts[id], nil
}

func newService(repo *mockRepo, counts map[int64]int) *Service {
	if counts == nil {
		counts = map[int64]int{}
	}
	return NewService(repo, &mockDoctorCounter{counts: counts}, auditlog.NopRecorder{})
}

func TestCreateDefaultsActive(t *testing.T) {
	svc := newService(newMockRepo(), nil)
	d, err := svc.Create(context.Background(), Input{Name: "Cardiology"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != StatusActive {
		t.Errorf("status = %d, want %d", d.Status, StatusActive)
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := newService(newMockRepo(), nil)
	code := "CARD"
	if _, err := svc.Create(context.Background(), Input{Name: "Cardiology", Code: &code}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(context.Background(), Input{Name: "Cardiac Surgery", Code: &code})
	if !apperr.IsStatus(err, http.StatusConflict) {
		t.Errorf("err = %v, want 409", err)
	}
}

func TestUpdateKeepsOwnCode(t *testing.T) {
	svc := newService(newMockRepo(), nil)
	code := "NEUR"
	d, err := svc.Create(context.Background(), Input{Name: "Neurology", Code: &code})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := svc.Update(context.Background(), d.ID, Input{Name: "Neurology & Stroke", Code: &code}); err != nil {
		t.Errorf("update with own code: %v", err)
	}
}

func TestDeleteBlockedByDoctors(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo, map[int64]int{1: 2})
	d, err := svc.Create(context.Background(), Input{Name: "Oncology"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	err = svc.Delete(context.Background(), d.ID)
	if !apperr.IsStatus(err, http.StatusConflict) {
		t.Fatalf("err = %v, want 409", err)
	}
	if _, err := svc.Get(context.Background(), d.ID); err != nil {
		t.Error("department removed despite conflict")
	}
}

func TestDeleteWithoutDoctors(t *testing.T) {
	repo := newMockRepo()
	svc := newService(repo, nil)
	d, err := svc.Create(context.Background(), Input{Name: "Radiology"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), d.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), d.ID); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("get after delete err = %v, want 404", err)
	}
}

func TestDeleteMissing(t *testing.T) {
	svc := newService(newMockRepo(), nil)
	if err := svc.Delete(context.Background(), 42); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("err = %v, want 404", err)
	}
}
