// Package web provides the uniform JSON response envelope, the echo error
// handler, and request validation plumbing shared by all HTTP handlers.
package web

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
	"github.com/hrms/hrms/pkg/pagination"
)

// Envelope is the uniform response shape for both success and error payloads.
type Envelope struct {
	Code      int                `json:"code"`
	Message   string             `json:"message"`
	Data      interface{}        `json:"data"`
	Timestamp string             `json:"timestamp"`
	Errors    []apperr.FieldError `json:"errors,omitempty"`
}

// PageData nests a list and its pagination block inside the envelope data.
type PageData struct {
	List       interface{}           `json:"list"`
	Pagination pagination.Pagination `json:"pagination"`
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// OK writes a 200 envelope.
func OK(c echo.Context, data interface{}) error {
	return Success(c, http.StatusOK, "Success", data)
}

// Created writes a 201 envelope.
func Created(c echo.Context, data interface{}) error {
	return Success(c, http.StatusCreated, "Created successfully", data)
}

// Success writes an envelope with an explicit status and message.
func Success(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{
		Code:      status,
		Message:   message,
		Data:      data,
		Timestamp: timestamp(),
	})
}

// Paginated writes a 200 envelope with a {list, pagination} payload.
func Paginated(c echo.Context, list interface{}, pg pagination.Pagination) error {
	return Success(c, http.StatusOK, "Success", PageData{List: list, Pagination: pg})
}
