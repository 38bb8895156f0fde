// Package httperr maps domain errors onto HTTP responses.
package httperr

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/wellnest/messaging/internal/domain"
)

// Status returns the HTTP status and error code for err.
func Status(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrAuthorization):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "upstream_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// Write renders err as the JSON error envelope. Internal failures never leak
// their cause to the caller.
func Write(c echo.Context, err error) error {
	status, code := Status(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	return c.JSON(status, domain.ErrorBody{
		Error: domain.ErrorDetail{Code: code, Message: message},
	})
}

// BadRequest renders a validation error with message.
func BadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, domain.ErrorBody{
		Error: domain.ErrorDetail{Code: "validation_error", Message: message},
	})
}
