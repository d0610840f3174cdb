package handler

import (
	"github.com/carjai/marketplace-client/internal/core/domain"
)

// echoValidator lets handlers call c.Validate(req) with the same rules the
// client applies before sending.
type echoValidator struct{}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
func NewValidator() *echoValidator {
	return &echoValidator{}
}

// Validate satisfies the echo.Validator interface. Failures are
// *domain.FieldError so the error handler can report the field.
func (ev *echoValidator) Validate(i any) error {
	return domain.Validate(i)
}
