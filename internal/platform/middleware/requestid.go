// Package middleware holds the HTTP middleware chain shared by every route:
// request IDs, request logging, panic recovery, per-client rate limiting,
// client metadata capture, and a small TTL response cache.
package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// RequestIDKey is the echo context key carrying the request ID.
const RequestIDKey = "request_id"

// RequestID assigns a UUID to every request, honoring an inbound
// X-Request-ID header when present, and echoes it back in the response.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rid := c.Request().Header.Get(echo.HeaderXRequestID)
			if rid == "" {
				rid = uuid.NewString()
			}
			c.Set(RequestIDKey, rid)
			c.Response().Header().Set(echo.HeaderXRequestID, rid)
			return next(c)
		}
	}
}
