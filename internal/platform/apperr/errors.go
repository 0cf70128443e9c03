package apperr

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrNotFound marks a lookup whose target does not exist or belongs to a
// different clinic/patient/tooth scope. Wrap it with context:
// fmt.Errorf("patient %s: %w", id, apperr.ErrNotFound).
var ErrNotFound = errors.New("not found")

// NotFound builds a wrapped ErrNotFound naming the missing resource.
func NotFound(format string, args ...interface{}) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// IsNotFound reports whether err is (or wraps) ErrNotFound.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ValidationError is a client-input failure with a field-level message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Validation builds a ValidationError for the given field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// AsValidation unwraps err into a ValidationError, if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// HTTP translates a service error into the echo.HTTPError handlers return.
// NotFound -> 404, ValidationError -> 400 with a field map, anything else is a
// generic 500 so persistence details never leak to callers.
func HTTP(err error) error {
	if err == nil {
		return nil
	}
	if IsNotFound(err) {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	if ve, ok := AsValidation(err); ok {
		if ve.Field != "" {
			return echo.NewHTTPError(http.StatusBadRequest, map[string]string{ve.Field: ve.Message})
		}
		return echo.NewHTTPError(http.StatusBadRequest, ve.Message)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
}
