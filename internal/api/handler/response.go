package handler

import (
	"github.com/labstack/echo/v4"
)

// envelope is the success shape every mock endpoint answers with.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

func respondMessage(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: true, Message: message})
}

// ErrorResponse is the failure shape. Code repeats the HTTP status and
// ErrorCode is a stable machine-readable reason.
type ErrorResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Code      int    `json:"code"`
	ErrorCode string `json:"error_code"`
	Field     string `json:"field,omitempty"`
}
