package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/pkg/pagination"
)

func testLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope JSON: %v", err)
	}
	return env
}

func TestOK_Envelope(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := OK(c, map[string]string{"name": "Cardiology"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	env := decode(t, rec)
	if env.Code != http.StatusOK {
		t.Errorf("expected code 200, got %d", env.Code)
	}
	if env.Message != "Success" {
		t.Errorf("expected Success, got %s", env.Message)
	}
	if env.Timestamp == "" {
		t.Error("expected timestamp")
	}
	if env.Data == nil {
		t.Error("expected data")
	}
}

func TestCreated_Envelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	if err := Created(c, map[string]int{"id": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Code != http.StatusCreated {
		t.Errorf("expected code 201, got %d", env.Code)
	}
}

func TestPaginated_Envelope(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	pg := pagination.New(pagination.Params{Page: 1, PageSize: 10}, 25)
	if err := Paginated(c, []string{"a", "b"}, pg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var env struct {
		Data struct {
			List       []string              `json:"list"`
			Pagination pagination.Pagination `json:"pagination"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(env.Data.List) != 2 {
		t.Errorf("expected 2 items, got %d", len(env.Data.List))
	}
	if env.Data.Pagination.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", env.Data.Pagination.TotalPages)
	}
}

func TestErrorHandler_DomainError(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(testLogger(), false)(apperr.NotFound("Patient"), c)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	env := decode(t, rec)
	if env.Message != "Patient not found" {
		t.Errorf("expected Patient not found, got %s", env.Message)
	}
	if env.Data != nil {
		t.Error("expected data to be null")
	}
}

func TestErrorHandler_ValidationFields(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)

	err := apperr.Validation(apperr.FieldError{Field: "name", Message: "name is required"})
	ErrorHandler(testLogger(), false)(err, c)

	env := decode(t, rec)
	if len(env.Errors) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(env.Errors))
	}
	if env.Errors[0].Field != "name" {
		t.Errorf("expected name, got %s", env.Errors[0].Field)
	}
}

func TestErrorHandler_UnexpectedHiddenInProduction(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(testLogger(), false)(errors.New("pq: connection refused"), c)

	env := decode(t, rec)
	if env.Message != "Internal server error" {
		t.Errorf("expected generic message, got %s", env.Message)
	}
}

func TestErrorHandler_UnexpectedShownInDev(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	ErrorHandler(testLogger(), true)(errors.New("pq: connection refused"), c)

	env := decode(t, rec)
	if env.Message != "pq: connection refused" {
		t.Errorf("expected raw message in dev, got %s", env.Message)
	}
}

func TestValidator_TagViolations(t *testing.T) {
	type createDepartment struct {
		Name string `json:"name" validate:"required,max=100"`
		Code string `json:"code" validate:"omitempty,max=20"`
	}

	v := NewValidator()
	err := v.Validate(&createDepartment{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	ae := apperr.From(err)
	if ae.Status != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", ae.Status)
	}
	if len(ae.Fields) != 1 {
		t.Fatalf("expected 1 field error, got %d", len(ae.Fields))
	}
	if ae.Fields[0].Field != "name" {
		t.Errorf("expected field name, got %q", ae.Fields[0].Field)
	}
}

func TestValidator_Passes(t *testing.T) {
	type login struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}
	v := NewValidator()
	if err := v.Validate(&login{Username: "admin", Password: "secret"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
