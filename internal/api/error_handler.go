package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/identato/auth-service/internal/api/response"
	"github.com/identato/auth-service/internal/core/domain"
)

// NewHTTPErrorHandler returns the error translator: every failure kind maps
// to a deterministic status code and the uniform response envelope. Nothing
// here ever exposes stack traces, raw causes or key material.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := translate(err, log, c)
		_ = c.JSON(code, response.Fail(code, msg))
	}
}

func translate(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from the router, middleware
	// rejections raised as echo.HTTPError).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	// Input defects are business rules here, not authentication failures.
	case errors.Is(err, domain.ErrPasswordMismatch):
		return http.StatusBadRequest, "passwords do not match"
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusBadRequest, "user not found"
	case errors.Is(err, domain.ErrUserExists):
		return http.StatusConflict, "user already exists"

	// The credentials message is a fixed generic string so responses never
	// reveal whether the email or the password was wrong.
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid username or password"

	case errors.Is(err, domain.ErrTokenMalformed), errors.Is(err, domain.ErrTokenInvalid):
		return http.StatusUnauthorized, "token is invalid"

	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"

	case errors.Is(err, domain.ErrTooManyAttempts):
		return http.StatusTooManyRequests, "too many login attempts"
	}

	// Unexpected error: log the real cause, answer with a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
