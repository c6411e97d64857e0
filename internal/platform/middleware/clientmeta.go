package middleware

import (
	"context"

	"github.com/labstack/echo/v4"
)

type metaKey struct{}

// ClientMeta is the request metadata recorded alongside audited operations.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// WithClientMeta stores request metadata on the context.
func WithClientMeta(ctx context.Context, m ClientMeta) context.Context {
	return context.WithValue(ctx, metaKey{}, m)
}

// ClientMetaFromContext returns the request metadata captured for this
// request, if any.
func ClientMetaFromContext(ctx context.Context) (ClientMeta, bool) {
	m, ok := ctx.Value(metaKey{}).(ClientMeta)
	return m, ok
}

// CaptureClientMeta records the caller's IP and user agent on the request
// context so deeper layers can log them without touching echo.
func CaptureClientMeta() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m := ClientMeta{
				IP:        c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}
			ctx := WithClientMeta(c.Request().Context(), m)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
