package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/api/metrics"
	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/ports"
)

// UserState is a point-in-time copy of the buyer/seller session.
type UserState struct {
	User          *domain.User
	Roles         *domain.Roles
	Profiles      *domain.Profiles
	Loading       bool
	Authenticated bool
	Error         *domain.FieldError
}

// UserAuth owns the user identity. All mutation goes through its methods;
// network calls run outside the lock.
type UserAuth struct {
	api    ports.UserAuthAPI
	others SessionClearer
	log    zerolog.Logger

	mu    sync.RWMutex
	state UserState
	gen   generation
}

// NewUserAuth returns a UserAuth in the initial loading state.
func NewUserAuth(api ports.UserAuthAPI, others SessionClearer, log zerolog.Logger) *UserAuth {
	return &UserAuth{
		api:    api,
		others: others,
		log:    log,
		state:  UserState{Loading: true},
	}
}

func (a *UserAuth) Snapshot() UserState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	if s.Roles != nil {
		r := *s.Roles
		s.Roles = &r
	}
	if s.Profiles != nil {
		p := *s.Profiles
		s.Profiles = &p
	}
	if s.Error != nil {
		e := *s.Error
		s.Error = &e
	}
	return s
}

func (a *UserAuth) Identity() domain.Identity {
	s := a.Snapshot()
	if !s.Authenticated {
		return domain.Identity{Kind: domain.IdentityAnonymous}
	}
	return domain.Identity{Kind: domain.IdentityUser, User: s.User, Roles: s.Roles, Profiles: s.Profiles}
}

// Signin authenticates with an email or username. Roles and profile flags
// always come from the follow-up validation, never from the sign-in reply.
func (a *UserAuth) Signin(ctx context.Context, req domain.SigninRequest) error {
	return a.authenticate(ctx, req, func() error {
		_, err := a.api.Signin(ctx, req)
		return err
	})
}

func (a *UserAuth) Signup(ctx context.Context, req domain.SignupRequest) error {
	return a.authenticate(ctx, req, func() error {
		_, err := a.api.Signup(ctx, req)
		return err
	})
}

func (a *UserAuth) GoogleSignin(ctx context.Context, idToken string) error {
	req := domain.GoogleSigninRequest{IDToken: idToken}
	return a.authenticate(ctx, req, func() error {
		_, err := a.api.GoogleSignin(ctx, req)
		return err
	})
}

func (a *UserAuth) authenticate(ctx context.Context, form any, call func() error) error {
	tok := a.gen.issue()

	a.mu.Lock()
	a.state.Error = nil
	a.state.Loading = true
	a.mu.Unlock()

	err := domain.Validate(form)
	if err == nil {
		err = call()
	}
	if err != nil {
		a.fail(tok, err)
		return err
	}

	a.others.ClearAdminSession(ctx)
	a.Validate(ctx)
	return nil
}

func (a *UserAuth) fail(tok uint64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen.admit(tok) {
		a.clearLocked()
	} else {
		metrics.StaleCommitsDroppedTotal.WithLabelValues("user").Inc()
	}
	a.state.Error = fieldError(err)
	a.state.Loading = false
}

// Signout revokes the session server-side on a best-effort basis and always
// clears local state.
func (a *UserAuth) Signout(ctx context.Context) {
	tok := a.gen.issue()
	if err := a.api.Signout(ctx); err != nil {
		a.log.Debug().Err(err).Msg("user signout failed, clearing local state anyway")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gen.admit(tok) {
		metrics.StaleCommitsDroppedTotal.WithLabelValues("user").Inc()
		return
	}
	a.clearLocked()
	a.state.Error = nil
	a.state.Loading = false
}

// Validate asks the backend who the cookie belongs to. Every failure is
// treated as "not signed in"; nothing is returned to the caller.
func (a *UserAuth) Validate(ctx context.Context) {
	tok := a.gen.issue()
	sess, err := a.api.Me(ctx)

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gen.admit(tok) {
		metrics.StaleCommitsDroppedTotal.WithLabelValues("user").Inc()
		a.log.Debug().Uint64("token", tok).Msg("dropped stale user validation")
		return
	}
	a.state.Loading = false

	if err != nil || sess == nil {
		if err != nil {
			a.log.Debug().Err(err).Msg("user session validation failed")
		}
		a.clearLocked()
		metrics.SessionValidationsTotal.WithLabelValues("user", "anonymous").Inc()
		return
	}

	user, roles, profiles := sess.User, sess.Roles, sess.Profiles
	a.state.User = &user
	a.state.Roles = &roles
	a.state.Profiles = &profiles
	a.state.Authenticated = true
	metrics.SessionValidationsTotal.WithLabelValues("user", "authenticated").Inc()
}

// Refresh extends the session cookie and re-reads the identity.
func (a *UserAuth) Refresh(ctx context.Context) error {
	err := a.api.Refresh(ctx)
	a.Validate(ctx)
	return err
}

// Reset drops the local identity without contacting the backend, for when
// the session was revoked by another flow sharing the cookie jar.
func (a *UserAuth) Reset() {
	tok := a.gen.issue()
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gen.admit(tok) {
		return
	}
	a.clearLocked()
	a.state.Loading = false
}

func (a *UserAuth) ClearError() {
	a.mu.Lock()
	a.state.Error = nil
	a.mu.Unlock()
}

func (a *UserAuth) clearLocked() {
	a.state.User = nil
	a.state.Roles = nil
	a.state.Profiles = nil
	a.state.Authenticated = false
}
