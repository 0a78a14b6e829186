package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/antifraud/antifraud-system/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

// domainStatus lists the status for every caller-correctable domain error.
var domainStatus = []struct {
	err  error
	code int
}{
	{domain.ErrDuplicateUsername, http.StatusConflict},
	{domain.ErrAccountNotFound, http.StatusNotFound},
	{domain.ErrUnknownRole, http.StatusBadRequest},
	{domain.ErrInvalidRoleTarget, http.StatusBadRequest},
	{domain.ErrRoleUnchanged, http.StatusConflict},
	{domain.ErrInvalidLockTarget, http.StatusBadRequest},
	{domain.ErrAccountConflict, http.StatusConflict},
	{domain.ErrInvalidAmount, http.StatusBadRequest},
	{domain.ErrInvalidCredentials, http.StatusUnauthorized},
	{domain.ErrAccountLocked, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrEntryExists, http.StatusConflict},
	{domain.ErrEntryNotFound, http.StatusNotFound},
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	for _, ds := range domainStatus {
		if errors.Is(err, ds.err) {
			return ds.code, err.Error()
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
