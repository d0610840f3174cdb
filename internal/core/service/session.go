package service

import (
	"context"
	"errors"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// SessionMachine is the capability both identity state machines expose to
// route guards and the CLI.
type SessionMachine interface {
	Identity() domain.Identity
	Validate(ctx context.Context)
	Signout(ctx context.Context)
}

// SessionClearer signs out the opposite identity before a sign-in commits.
type SessionClearer interface {
	ClearAdminSession(ctx context.Context)
	ClearUserSession(ctx context.Context)
}

// fieldError converts any sign-in failure into the inline form error.
func fieldError(err error) *domain.FieldError {
	var fe *domain.FieldError
	if errors.As(err, &fe) {
		return fe
	}
	out := &domain.FieldError{Message: err.Error(), Field: domain.FieldGeneral}
	var named interface{ ErrorField() string }
	if errors.As(err, &named) && named.ErrorField() != "" {
		out.Field = named.ErrorField()
	}
	return out
}
