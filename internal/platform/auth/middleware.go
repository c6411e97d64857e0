package auth

import (
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
)

// Middleware validates the Authorization bearer token and stores the
// resulting identity on the request context. Paths matched by skip are
// let through unauthenticated.
func Middleware(tm *TokenManager, skip ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, s := range skip {
				if path == s || strings.HasPrefix(path, s+"/") {
					return next(c)
				}
			}

			token, err := bearerToken(c)
			if err != nil {
				return err
			}
			claims, err := tm.ParseAccess(token)
			if err != nil {
				if errors.Is(err, ErrTokenExpired) {
					return apperr.Unauthorized("Token expired")
				}
				return apperr.Unauthorized("Invalid token")
			}

			id := Identity{UserID: claims.UserID, Username: claims.Username, Role: claims.Role}
			ctx := WithIdentity(c.Request().Context(), id)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, error) {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if header == "" {
		return "", apperr.Unauthorized("Authentication required")
	}
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", apperr.Unauthorized("Invalid authorization header")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	if token == "" {
		return "", apperr.Unauthorized("Invalid authorization header")
	}
	return token, nil
}
