package attachment

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/hrms/hrms/internal/domain/auditlog"
	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/internal/platform/storage"
)

type mockRepo struct {
	items      map[int64]*Attachment
	nextID     int64
	failCreate bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{items: make(map[int64]*Attachment), nextID: 1}
}

func (m *mockRepo) Create(_ context.Context, a *Attachment) error {
	if m.failCreate {
		return apperr.Internal("insert failed")
	}
	a.ID = m.nextID
	m.nextID++
	cp := *a
	m.items[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*Attachment, error) {
	a, ok := m.items[id]
	if !ok {
		return nil, apperr.NotFound("Attachment")
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) UpdateDescription(_ context.Context, id int64, description *string) error {
	a, ok := m.items[id]
	if !ok {
		return apperr.NotFound("Attachment")
	}
	a.Description = description
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.items[id]; !ok {
		return apperr.NotFound("Attachment")
	}
	delete(m.items, id)
	return nil
}

func (m *mockRepo) ListByRecord(_ context.Context, recordID int64) ([]*Attachment, error) {
	var out []*Attachment
	for _, a := range m.items {
		if a.RecordID == recordID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *mockRepo) StoredNamesByRecord(_ context.Context, recordID int64) ([]string, error) {
	var names []string
	for _, a := range m.items {
		if a.RecordID == recordID {
			names = append(names, a.StoredName)
		}
	}
	return names, nil
}

type passRunner struct{}

func (passRunner) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

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

// mockStore keeps file bodies in memory and reuses the real type check.
type mockStore struct {
	files   map[string][]byte
	nextID  int
	removed []string
}

func newMockStore() *mockStore {
	return &mockStore{files: make(map[string][]byte)}
}

func (m *mockStore) Save(contentType string, _ int64, r io.Reader) (string, int64, error) {
	if !storage.AllowedType(contentType) {
		return "", 0, storage.ErrInvalidFileType
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	m.nextID++
	name := strings.Repeat("a", m.nextID) + ".pdf"
	m.files[name] = data
	return name, int64(len(data)), nil
}

func (m *mockStore) Open(name string) (io.ReadCloser, error) {
	data, ok := m.files[name]
	if !ok {
		return nil, storage.ErrFileNotFound
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

func (m *mockStore) Remove(name string) error {
	delete(m.files, name)
	m.removed = append(m.removed, name)
	return nil
}

func (m *mockStore) Path(name string) string {
	return "uploads/" + name
}

type fixture struct {
	repo  *mockRepo
	gate  recordStates
	store *mockStore
	svc   *Service
}

func newFixture() *fixture {
	f := &fixture{repo: newMockRepo(), gate: recordStates{1: "draft"}, store: newMockStore()}
	f.svc = NewService(f.repo, passRunner{}, f.gate, f.store, auditlog.NopRecorder{}, zerolog.Nop())
	return f
}

func pdfUpload(body string) Upload {
	return Upload{
		FileName:    "report.pdf",
		ContentType: "application/pdf",
		Size:        int64(len(body)),
		Body:        strings.NewReader(body),
	}
}

func TestCreateStoresFileAndRow(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), 1, pdfUpload("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if a.FileName != "report.pdf" || a.FileSize != int64(len("%PDF-1.4 test")) {
		t.Errorf("attachment = %+v", a)
	}
	if _, ok := f.store.files[a.StoredName]; !ok {
		t.Error("file not in store")
	}
}

func TestCreateRequiresDraftRecord(t *testing.T) {
	f := newFixture()
	f.gate[1] = "confirmed"
	if _, err := f.svc.Create(context.Background(), 1, pdfUpload("x")); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("err = %v, want 400", err)
	}
	if len(f.store.files) != 0 {
		t.Error("file stored despite rejected upload")
	}
}

func TestCreateRejectsDisallowedType(t *testing.T) {
	f := newFixture()
	up := pdfUpload("MZ")
	up.ContentType = "application/x-msdownload"
	_, err := f.svc.Create(context.Background(), 1, up)
	if !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("err = %v, want 400", err)
	}
	if !strings.Contains(err.Error(), "File type is not allowed") {
		t.Errorf("message = %q", err.Error())
	}
}

func TestCreateCleansUpFileWhenInsertFails(t *testing.T) {
	f := newFixture()
	f.repo.failCreate = true
	if _, err := f.svc.Create(context.Background(), 1, pdfUpload("x")); err == nil {
		t.Fatal("expected error")
	}
	if len(f.store.files) != 0 {
		t.Errorf("orphaned files: %v", f.store.files)
	}
}

func TestDownloadStreamsStoredFile(t *testing.T) {
	f := newFixture()
	a, _ := f.svc.Create(context.Background(), 1, pdfUpload("body bytes"))

	got, rc, err := f.svc.Download(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "body bytes" {
		t.Errorf("body = %q", data)
	}
	if got.FileName != "report.pdf" {
		t.Errorf("fileName = %q", got.FileName)
	}
}

func TestDownloadMissingFile(t *testing.T) {
	f := newFixture()
	a, _ := f.svc.Create(context.Background(), 1, pdfUpload("x"))
	delete(f.store.files, a.StoredName)

	_, _, err := f.svc.Download(context.Background(), a.ID)
	if !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestDeleteRequiresDraftThenRemovesFile(t *testing.T) {
	f := newFixture()
	a, _ := f.svc.Create(context.Background(), 1, pdfUpload("x"))

	f.gate[1] = "confirmed"
	if err := f.svc.Delete(context.Background(), a.ID); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("delete under confirmed err = %v, want 400", err)
	}
	if _, err := f.svc.Get(context.Background(), a.ID); err != nil {
		t.Error("row gone despite rejected delete")
	}

	f.gate[1] = "draft"
	if err := f.svc.Delete(context.Background(), a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.store.files) != 0 {
		t.Errorf("file left behind: %v", f.store.files)
	}
	if _, err := f.svc.Get(context.Background(), a.ID); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("get after delete err = %v, want 404", err)
	}
}

func TestFileNamesByRecordReportsStoredNames(t *testing.T) {
	f := newFixture()
	a1, _ := f.svc.Create(context.Background(), 1, pdfUpload("x"))
	a2, _ := f.svc.Create(context.Background(), 1, pdfUpload("y"))

	names, err := f.svc.FileNamesByRecord(context.Background(), 1)
	if err != nil {
		t.Fatalf("FileNamesByRecord: %v", err)
	}
	want := map[string]bool{a1.StoredName: true, a2.StoredName: true}
	if len(names) != 2 || !want[names[0]] || !want[names[1]] {
		t.Errorf("names = %v", names)
	}

	if err := f.svc.RemoveFile(a1.StoredName); err != nil {
		t.Fatalf("RemoveFile: %v", err)
	}
	if _, ok := f.store.files[a1.StoredName]; ok {
		t.Error("file still in store")
	}
}

func TestResponsesCarryFilePath(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), 1, pdfUpload("%PDF-1.4 test"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	want := "uploads/" + a.StoredName
	if a.FilePath != want {
		t.Errorf("create filePath = %q, want %q", a.FilePath, want)
	}

	got, err := f.svc.Get(context.Background(), a.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FilePath != want {
		t.Errorf("get filePath = %q, want %q", got.FilePath, want)
	}

	list, err := f.svc.ListByRecord(context.Background(), 1)
	if err != nil {
		t.Fatalf("ListByRecord: %v", err)
	}
	if len(list) != 1 || list[0].FilePath != want {
		t.Errorf("list filePath = %+v", list)
	}
}

func TestUpdateDescriptionRequiresDraft(t *testing.T) {
	f := newFixture()
	a, err := f.svc.Create(context.Background(), 1, pdfUpload("x"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	desc := "chest x-ray"
	updated, err := f.svc.UpdateDescription(context.Background(), a.ID, &desc)
	if err != nil {
		t.Fatalf("UpdateDescription: %v", err)
	}
	if updated.Description == nil || *updated.Description != desc {
		t.Errorf("description = %v", updated.Description)
	}

	f.gate[1] = "confirmed"
	if _, err := f.svc.UpdateDescription(context.Background(), a.ID, nil); !apperr.IsStatus(err, http.StatusBadRequest) {
		t.Errorf("confirmed err = %v, want 400", err)
	}
	if _, err := f.svc.UpdateDescription(context.Background(), 999, &desc); !apperr.IsStatus(err, http.StatusNotFound) {
		t.Errorf("missing err = %v, want 404", err)
	}
}
