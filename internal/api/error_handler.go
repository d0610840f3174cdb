package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/api/handler"
	"github.com/carjai/marketplace-client/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope:
//     {"success": false, "message", "code", "error_code", "field"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(resp.Code)
			return
		}
		_ = c.JSON(resp.Code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) handler.ErrorResponse {
	resp := func(status int, code, msg, field string) handler.ErrorResponse {
		return handler.ErrorResponse{Message: msg, Code: status, ErrorCode: code, Field: field}
	}

	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return resp(he.Code, errorCode(he.Code), fmt.Sprintf("%v", he.Message), "")
	}

	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return resp(http.StatusBadRequest, "VALIDATION_FAILED", fe.Message, fe.Field)
	}

	var named interface{ ErrorField() string }
	field := ""
	if errors.As(err, &named) {
		field = named.ErrorField()
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return resp(http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid credentials", "")
	case errors.Is(err, domain.ErrUnauthorized):
		return resp(http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required", "")
	case errors.Is(err, domain.ErrForbidden):
		return resp(http.StatusForbidden, "IP_NOT_AUTHORIZED", "IP address not authorized", "")
	case errors.Is(err, domain.ErrInvalidIP):
		return resp(http.StatusBadRequest, "INVALID_IP", "Invalid IP address format", "ip_address")
	case errors.Is(err, domain.ErrNotFound):
		return resp(http.StatusNotFound, "NOT_FOUND", "Resource not found", "")
	case errors.Is(err, domain.ErrConflict):
		return resp(http.StatusConflict, "ALREADY_EXISTS", err.Error(), field)
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return resp(http.StatusInternalServerError, "INTERNAL", "Internal Server Error", "")
}

func errorCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusUnauthorized:
		return "UNAUTHORIZED"
	case http.StatusForbidden:
		return "FORBIDDEN"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusTooManyRequests:
		return "RATE_LIMITED"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL"
	}
	return "ERROR"
}
