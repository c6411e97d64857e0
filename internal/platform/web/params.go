package web

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
)

// PathID parses the named path parameter as a positive entity id.
func PathID(c echo.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.Validation(apperr.FieldError{Field: name, Message: name + " must be a positive integer"})
	}
	return id, nil
}

// QueryInt64 parses an optional positive integer query parameter, returning
// 0 when absent or malformed.
func QueryInt64(c echo.Context, name string) int64 {
	v := c.QueryParam(name)
	if v == "" {
		return 0
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
