package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
)

// RoleAdmin always passes role checks.
const RoleAdmin = "admin"

// RequireRole guards a route group so that only the listed roles (or an
// admin) may pass. Requests without an identity are rejected.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := IdentityFromContext(c.Request().Context())
			if !ok {
				return apperr.Unauthorized("Authentication required")
			}
			if id.Role == RoleAdmin {
				return next(c)
			}
			if _, ok := allowed[id.Role]; !ok {
				return apperr.Forbidden("Insufficient permissions")
			}
			return next(c)
		}
	}
}
