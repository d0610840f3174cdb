package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/carjai/marketplace-client/internal/api/metrics"
	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/ports"
)

const whitelistTaskKey = "admin:ip-whitelist"

// AdminState is a point-in-time copy of the admin console session.
type AdminState struct {
	Admin         *domain.Admin
	Session       *domain.AdminSession
	Whitelist     []domain.IPWhitelistEntry
	Loading       bool
	Authenticated bool
	Error         *domain.FieldError
}

// RemovalImpact describes what deleting a whitelist entry would do to the
// admin's own access.
type RemovalImpact struct {
	WouldBlockSession bool   `json:"would_block_session"`
	SessionIP         string `json:"session_ip,omitempty"`
}

// AdminAuth owns the admin identity, its session metadata and the IP
// whitelist cache.
type AdminAuth struct {
	api    ports.AdminAuthAPI
	others SessionClearer
	tasks  ports.TaskQueue
	log    zerolog.Logger

	mu    sync.RWMutex
	state AdminState
	gen   generation
}

func NewAdminAuth(api ports.AdminAuthAPI, others SessionClearer, tasks ports.TaskQueue, log zerolog.Logger) *AdminAuth {
	return &AdminAuth{
		api:    api,
		others: others,
		tasks:  tasks,
		log:    log,
		state:  AdminState{Loading: true},
	}
}

func (a *AdminAuth) Snapshot() AdminState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.state
	if s.Admin != nil {
		adm := *s.Admin
		s.Admin = &adm
	}
	if s.Session != nil {
		sess := *s.Session
		s.Session = &sess
	}
	if s.Error != nil {
		e := *s.Error
		s.Error = &e
	}
	s.Whitelist = append([]domain.IPWhitelistEntry(nil), s.Whitelist...)
	return s
}

func (a *AdminAuth) Identity() domain.Identity {
	s := a.Snapshot()
	if !s.Authenticated {
		return domain.Identity{Kind: domain.IdentityAnonymous}
	}
	return domain.Identity{Kind: domain.IdentityAdmin, Admin: s.Admin, Session: s.Session}
}

// Signin authenticates the admin, signs out any user session sharing the
// cookie jar, then loads session metadata and the whitelist in parallel.
// Failures of the follow-up fetches are ignored.
func (a *AdminAuth) Signin(ctx context.Context, req domain.AdminSigninRequest) error {
	tok := a.gen.issue()

	a.mu.Lock()
	a.state.Error = nil
	a.state.Loading = true
	a.mu.Unlock()

	if err := domain.Validate(req); err != nil {
		a.fail(tok, err)
		return err
	}
	admin, err := a.api.Signin(ctx, req)
	if err == nil && admin == nil {
		err = errors.New("signin failed")
	}
	if err != nil {
		a.fail(tok, err)
		return err
	}

	a.others.ClearUserSession(ctx)

	a.mu.Lock()
	if a.gen.admit(tok) {
		a.state.Admin = admin
		a.state.Authenticated = true
	} else {
		metrics.StaleCommitsDroppedTotal.WithLabelValues("admin").Inc()
	}
	a.state.Loading = false
	a.mu.Unlock()

	metaTok := a.gen.issue()
	var (
		me        *domain.AdminMe
		whitelist []domain.IPWhitelistEntry
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		me, err = a.api.Me(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		whitelist, err = a.api.ListIPWhitelist(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		a.log.Debug().Err(err).Msg("post-signin admin fetch failed")
	}

	if me != nil && me.Session == nil {
		a.log.Warn().Int("admin_id", me.Admin.ID).Msg("admin me response carried no session data")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	// Admin and session commit together; a session never outlives its admin.
	if me != nil {
		if a.gen.admit(metaTok) {
			confirmed := me.Admin
			a.state.Admin = &confirmed
			a.state.Session = me.Session
			a.state.Authenticated = true
		} else {
			metrics.StaleCommitsDroppedTotal.WithLabelValues("admin").Inc()
		}
	}
	if whitelist != nil && a.state.Authenticated {
		a.state.Whitelist = whitelist
	}
	return nil
}

func (a *AdminAuth) fail(tok uint64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gen.admit(tok) {
		a.clearLocked()
	} else {
		metrics.StaleCommitsDroppedTotal.WithLabelValues("admin").Inc()
	}
	a.state.Error = fieldError(err)
	a.state.Loading = false
}

// Signout revokes the admin session and any user session in parallel,
// ignoring both outcomes, and clears local state.
func (a *AdminAuth) Signout(ctx context.Context) {
	tok := a.gen.issue()

	var g errgroup.Group
	g.Go(func() error { return a.api.Signout(ctx) })
	g.Go(func() error {
		a.others.ClearUserSession(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		a.log.Debug().Err(err).Msg("admin signout failed, clearing local state anyway")
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gen.admit(tok) {
		metrics.StaleCommitsDroppedTotal.WithLabelValues("admin").Inc()
		return
	}
	a.clearLocked()
	a.state.Error = nil
	a.state.Loading = false
}

// Validate re-reads the admin session. On success the whitelist is
// refreshed in the background.
func (a *AdminAuth) Validate(ctx context.Context) {
	tok := a.gen.issue()
	me, err := a.api.Me(ctx)

	a.mu.Lock()
	if !a.gen.admit(tok) {
		a.mu.Unlock()
		metrics.StaleCommitsDroppedTotal.WithLabelValues("admin").Inc()
		a.log.Debug().Uint64("token", tok).Msg("dropped stale admin validation")
		return
	}
	a.state.Loading = false

	if err != nil || me == nil {
		if err != nil {
			a.log.Debug().Err(err).Msg("admin session validation failed")
		}
		a.clearLocked()
		a.mu.Unlock()
		metrics.SessionValidationsTotal.WithLabelValues("admin", "anonymous").Inc()
		return
	}

	admin := me.Admin
	a.state.Admin = &admin
	a.state.Session = me.Session
	a.state.Authenticated = true
	a.mu.Unlock()

	if me.Session == nil {
		a.log.Warn().Int("admin_id", admin.ID).Msg("admin me response carried no session data")
	}
	metrics.SessionValidationsTotal.WithLabelValues("admin", "authenticated").Inc()

	a.tasks.Enqueue(ports.Task{Key: whitelistTaskKey, Run: func(ctx context.Context) error {
		a.FetchIPWhitelist(ctx)
		return nil
	}})
}

// FetchIPWhitelist refreshes the cached whitelist. Failures leave the cache
// untouched.
func (a *AdminAuth) FetchIPWhitelist(ctx context.Context) {
	list, err := a.api.ListIPWhitelist(ctx)
	if err != nil {
		a.log.Debug().Err(err).Msg("ip whitelist fetch failed")
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.state.Authenticated {
		a.state.Whitelist = list
	}
}

// AddIP whitelists a single address or CIDR range and refreshes the cache.
func (a *AdminAuth) AddIP(ctx context.Context, ip, description string) error {
	req := domain.AddIPRequest{IPAddress: ip, Description: description}
	if err := domain.Validate(req); err != nil {
		return err
	}
	if _, err := domain.ParseIPRange(ip); err != nil {
		return &domain.FieldError{Message: err.Error(), Field: "ip_address"}
	}
	if err := a.api.AddIP(ctx, req); err != nil {
		return fmt.Errorf("add ip %s: %w", ip, err)
	}
	a.FetchIPWhitelist(ctx)
	return nil
}

// CheckRemoval compares the entry with the current session IP locally, and
// also honours the backend's verdict when it can be reached.
func (a *AdminAuth) CheckRemoval(ctx context.Context, ip string) RemovalImpact {
	a.mu.RLock()
	var sessionIP string
	if a.state.Session != nil {
		sessionIP = a.state.Session.IPAddress
	}
	a.mu.RUnlock()

	impact := RemovalImpact{
		WouldBlockSession: domain.WouldBlockCurrentSession(ip, sessionIP),
		SessionIP:         sessionIP,
	}
	if impact.WouldBlockSession {
		return impact
	}
	remote, err := a.api.CheckIP(ctx, ip)
	if err != nil {
		a.log.Debug().Err(err).Str("ip", ip).Msg("whitelist removal check failed")
		return impact
	}
	impact.WouldBlockSession = remote
	return impact
}

// RemoveIP deletes a whitelist entry. Unless force is set, an entry that
// covers the admin's own session IP is refused with ErrWouldBlockSession.
func (a *AdminAuth) RemoveIP(ctx context.Context, ip string, force bool) error {
	if !force && a.CheckRemoval(ctx, ip).WouldBlockSession {
		return domain.ErrWouldBlockSession
	}
	if err := a.api.RemoveIP(ctx, ip); err != nil {
		return fmt.Errorf("remove ip %s: %w", ip, err)
	}
	a.FetchIPWhitelist(ctx)
	return nil
}

// Reset drops the local identity without contacting the backend, for when
// the session was revoked by another flow sharing the cookie jar.
func (a *AdminAuth) Reset() {
	tok := a.gen.issue()
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gen.admit(tok) {
		return
	}
	a.clearLocked()
	a.state.Loading = false
}

func (a *AdminAuth) ClearError() {
	a.mu.Lock()
	a.state.Error = nil
	a.mu.Unlock()
}

func (a *AdminAuth) clearLocked() {
	a.state.Admin = nil
	a.state.Session = nil
	a.state.Whitelist = nil
	a.state.Authenticated = false
}
