package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func newContext(query string) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestFromContext_Defaults(t *testing.T) {
	p := FromContext(newContext(""))
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
	if p.PageSize != DefaultPageSize {
		t.Errorf("expected pageSize %d, got %d", DefaultPageSize, p.PageSize)
	}
}

func TestFromContext_Clamping(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"page=3&pageSize=25", 3, 25},
		{"page=0&pageSize=0", 1, DefaultPageSize},
		{"page=-5&pageSize=-1", 1, DefaultPageSize},
		{"page=2&pageSize=500", 2, MaxPageSize},
		{"page=abc&pageSize=xyz", 1, DefaultPageSize},
	}
	for _, tt := range tests {
		p := FromContext(newContext(tt.query))
		if p.Page != tt.page {
			t.Errorf("%s: expected page %d, got %d", tt.query, tt.page, p.Page)
		}
		if p.PageSize != tt.pageSize {
			t.Errorf("%s: expected pageSize %d, got %d", tt.query, tt.pageSize, p.PageSize)
		}
	}
}

func TestOffset(t *testing.T) {
	p := Params{Page: 3, PageSize: 10}
	if p.Offset() != 20 {
		t.Errorf("expected offset 20, got %d", p.Offset())
	}
	first := Params{Page: 1, PageSize: 10}
	if first.Offset() != 0 {
		t.Error("expected offset 0 for first page")
	}
}

func TestNew_TotalPages(t *testing.T) {
	tests := []struct {
		total      int
		pageSize   int
		totalPages int
	}{
		{25, 10, 3},
		{30, 10, 3},
		{0, 10, 0},
		{1, 10, 1},
		{101, 100, 2},
	}
	for _, tt := range tests {
		pg := New(Params{Page: 1, PageSize: tt.pageSize}, tt.total)
		if pg.TotalPages != tt.totalPages {
			t.Errorf("total=%d pageSize=%d: expected %d pages, got %d",
				tt.total, tt.pageSize, tt.totalPages, pg.TotalPages)
		}
	}
}

func TestHasNext(t *testing.T) {
	p := Params{Page: 1, PageSize: 10}
	if !p.HasNext(25) {
		t.Error("expected more pages after page 1 of 25 rows")
	}
	last := Params{Page: 3, PageSize: 10}
	if last.HasNext(25) {
		t.Error("expected no more pages after page 3 of 25 rows")
	}
}
