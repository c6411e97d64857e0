package web

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/hrms/hrms/internal/platform/apperr"
)

// Validator adapts go-playground/validator to echo's Validator interface.
// Struct-tag checks run at the boundary so malformed input never reaches
// service logic.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	return &Validator{validate: v}
}

// Validate implements echo.Validator. Tag violations are converted into a
// ValidationError with one message per offending field.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.Validation(apperr.FieldError{Field: "", Message: err.Error()})
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fieldName(fe),
			Message: fieldMessage(fe),
		})
	}
	return apperr.Validation(fields...)
}

// Bind binds and validates the request body in one step. Both bind failures
// and tag violations surface as ValidationError.
func Bind(c echo.Context, i interface{}) error {
	if err := c.Bind(i); err != nil {
		return apperr.Validation(apperr.FieldError{Field: "", Message: "malformed request body"})
	}
	return c.Validate(i)
}

func fieldName(fe validator.FieldError) string {
	// Namespace is Struct.Field; drop the struct prefix and lower the first rune.
	parts := strings.SplitN(fe.Namespace(), ".", 2)
	name := fe.Field()
	if len(parts) == 2 {
		name = parts[1]
	}
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	name := fieldName(fe)
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
	case "email":
		return name + " must be a valid email address"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", name, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
	}
}
