package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/hrms/hrms/internal/platform/apperr"
)

// ErrorHandler returns an echo HTTPErrorHandler that renders every error as
// the standard envelope with data set to null. Domain errors keep their
// status and message; anything else is logged in full and rendered as a
// generic 500 unless the server runs in development mode.
func ErrorHandler(logger zerolog.Logger, dev bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Internal server error"
		var fields []apperr.FieldError

		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			status = ae.Status
			message = ae.Message
			fields = ae.Fields
		case errors.As(err, &he):
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(he.Code)
			}
		default:
			rid, _ := c.Get("request_id").(string)
			logger.Error().
				Err(err).
				Str("request_id", rid).
				Str("path", c.Request().URL.Path).
				Msg("unexpected error")
			if dev {
				message = err.Error()
			}
		}

		writeErr := c.JSON(status, Envelope{
			Code:      status,
			Message:   message,
			Data:      nil,
			Timestamp: timestamp(),
			Errors:    fields,
		})
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
