package middleware

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestRequestIDGenerated(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}

	rid, _ := c.Get(RequestIDKey).(string)
	uuidRe := regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}$`)
	if !uuidRe.MatchString(rid) {
		t.Errorf("request id %q is not a UUID", rid)
	}
	if got := rec.Header().Get(echo.HeaderXRequestID); got != rid {
		t.Errorf("response header = %q, want %q", got, rid)
	}
}

func TestRequestIDHonorsInbound(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "inbound-id")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := RequestID()(func(c echo.Context) error { return nil })
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rid, _ := c.Get(RequestIDKey).(string); rid != "inbound-id" {
		t.Errorf("request id = %q, want inbound-id", rid)
	}
}

func TestRecoveryConvertsPanic(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	h := Recovery(zerolog.Nop())(func(c echo.Context) error { panic("boom") })
	err := h(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusInternalServerError {
		t.Errorf("err = %v, want 500 HTTPError", err)
	}
}

func TestRateLimiterBurstThenRefill(t *testing.T) {
	rl := NewRateLimiter(10, 3)
	now := time.Now()
	rl.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		if !rl.Allow("1.2.3.4") {
			t.Fatalf("request %d denied within burst", i)
		}
	}
	if rl.Allow("1.2.3.4") {
		t.Fatal("request over burst allowed")
	}

	// another client has its own bucket
	if !rl.Allow("5.6.7.8") {
		t.Fatal("independent client denied")
	}

	now = now.Add(200 * time.Millisecond) // 10 rps refills 2 tokens
	if !rl.Allow("1.2.3.4") {
		t.Fatal("request denied after refill")
	}
}

func TestRateLimitMiddleware429(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	fixed := time.Now()
	rl.now = func() time.Time { return fixed }
	h := RateLimit(rl)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	call := func() error {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "9.9.9.9:1234"
		return h(e.NewContext(req, httptest.NewRecorder()))
	}

	if err := call(); err != nil {
		t.Fatalf("first request: %v", err)
	}
	err := call()
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusTooManyRequests {
		t.Errorf("second request err = %v, want 429", err)
	}
}

func TestClientMetaCapture(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("User-Agent", "test-agent/1.0")
	c := e.NewContext(req, httptest.NewRecorder())

	var got ClientMeta
	h := CaptureClientMeta()(func(c echo.Context) error {
		m, ok := ClientMetaFromContext(c.Request().Context())
		if !ok {
			t.Fatal("no client meta on context")
		}
		got = m
		return nil
	})
	if err := h(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if got.IP != "10.0.0.1" || got.UserAgent != "test-agent/1.0" {
		t.Errorf("meta = %+v", got)
	}
}

func TestCacheResponseHitAndExpiry(t *testing.T) {
	e := echo.New()
	store := NewTTLCache()
	now := time.Now()
	store.now = func() time.Time { return now }

	calls := 0
	h := CacheResponse(store, time.Minute)(func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"n": calls})
	})

	do := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		if err := h(e.NewContext(req, rec)); err != nil {
			t.Fatalf("handler: %v", err)
		}
		return rec
	}

	first := do("/stats?days=7")
	second := do("/stats?days=7")
	if calls != 1 {
		t.Fatalf("handler called %d times, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Error("cached body differs from original")
	}
	if second.Header().Get("X-Cache") != "HIT" {
		t.Errorf("X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}

	// different query is a different key
	do("/stats?days=30")
	if calls != 2 {
		t.Fatalf("handler called %d times, want 2", calls)
	}

	now = now.Add(2 * time.Minute)
	do("/stats?days=7")
	if calls != 3 {
		t.Fatalf("handler called %d times after expiry, want 3", calls)
	}
}

func TestCacheResponseSkipsNonGET(t *testing.T) {
	e := echo.New()
	store := NewTTLCache()
	calls := 0
	h := CacheResponse(store, time.Minute)(func(c echo.Context) error {
		calls++
		return c.NoContent(http.StatusOK)
	})
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/stats", nil)
		if err := h(e.NewContext(req, httptest.NewRecorder())); err != nil {
			t.Fatalf("handler: %v", err)
		}
	}
	if calls != 2 {
		t.Errorf("handler called %d times, want 2", calls)
	}
}
