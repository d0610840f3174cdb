package domain

import "errors"

var (
	ErrUnauthorized       = errors.New("not authenticated")
	ErrForbidden          = errors.New("access forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("already exists")
	ErrRateLimited        = errors.New("too many requests")
	ErrInvalidInput       = errors.New("invalid input")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidIP          = errors.New("invalid IP address format")
	ErrWouldBlockSession  = errors.New("removing this entry would block the current admin session")
)

// FieldError is the inline form error kept by the auth state machines.
// Field is "general" when the failure is not tied to a single input.
type FieldError struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

const FieldGeneral = "general"

func (e *FieldError) Error() string {
	return e.Message
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidInput
}
