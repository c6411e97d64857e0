package middleware

import (
	"bytes"
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
)

// cacheEntry holds a cached response body and its expiration time.
type cacheEntry struct {
	data        []byte
	contentType string
	expiresAt   time.Time
}

// TTLCache is a thread-safe in-memory response cache with lazy expiration.
// It backs the statistics endpoints, where results are expensive aggregates
// that tolerate short staleness.
type TTLCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	now     func() time.Time
}

func NewTTLCache() *TTLCache {
	return &TTLCache{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

func (s *TTLCache) get(key string) (*cacheEntry, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, false
	}
	return entry, true
}

func (s *TTLCache) set(key string, entry *cacheEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
}

// Clear drops every cached entry.
func (s *TTLCache) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]*cacheEntry)
}

// StartCleanup periodically removes expired entries. Blocks until ctx is
// cancelled, so call it in a goroutine.
func (s *TTLCache) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			now := s.now()
			for k, v := range s.entries {
				if now.After(v.expiresAt) {
					delete(s.entries, k)
				}
			}
			s.mu.Unlock()
		}
	}
}

// bufferedWriter captures the response body so it can be stored after the
// handler runs.
type bufferedWriter struct {
	writer     http.ResponseWriter
	buf        *bytes.Buffer
	statusCode int
}

func newBufferedWriter(w http.ResponseWriter) *bufferedWriter {
	return &bufferedWriter{writer: w, buf: &bytes.Buffer{}, statusCode: http.StatusOK}
}

func (w *bufferedWriter) Header() http.Header         { return w.writer.Header() }
func (w *bufferedWriter) Write(b []byte) (int, error) { return w.buf.Write(b) }
func (w *bufferedWriter) WriteHeader(code int)        { w.statusCode = code }

func (w *bufferedWriter) flushTo() error {
	w.writer.WriteHeader(w.statusCode)
	if w.buf.Len() > 0 {
		_, err := w.writer.Write(w.buf.Bytes())
		return err
	}
	return nil
}

// CacheResponse serves successful GET responses from the cache for ttl,
// keyed by path and query string. Non-GET requests bypass the cache.
func CacheResponse(store *TTLCache, ttl time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			if req.Method != http.MethodGet {
				return next(c)
			}

			key := req.URL.Path + "?" + req.URL.RawQuery
			if entry, ok := store.get(key); ok {
				c.Response().Header().Set("X-Cache", "HIT")
				if entry.contentType != "" {
					c.Response().Header().Set(echo.HeaderContentType, entry.contentType)
				}
				c.Response().WriteHeader(http.StatusOK)
				_, err := c.Response().Write(entry.data)
				return err
			}

			res := c.Response()
			origWriter := res.Writer
			buf := newBufferedWriter(origWriter)
			res.Writer = buf

			err := next(c)
			res.Writer = origWriter
			if err != nil {
				return err
			}

			if buf.statusCode == http.StatusOK {
				store.set(key, &cacheEntry{
					data:        append([]byte(nil), buf.buf.Bytes()...),
					contentType: res.Header().Get(echo.HeaderContentType),
					expiresAt:   store.now().Add(ttl),
				})
			}

			res.Header().Set("X-Cache", "MISS")
			return buf.flushTo()
		}
	}
}
