// Package app wires the client together: storage, the cookie jar, the
// backend client, the background dispatcher and the session services.
package app

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/service"
	"github.com/carjai/marketplace-client/internal/infrastructure/backend"
	"github.com/carjai/marketplace-client/internal/infrastructure/queue"
	"github.com/carjai/marketplace-client/internal/infrastructure/session"
	"github.com/carjai/marketplace-client/internal/infrastructure/storage"
	"github.com/carjai/marketplace-client/internal/pkg/config"
	"github.com/carjai/marketplace-client/pkg/logger"
)

const (
	lastPathKey  = "carjai_last_path"
	clientIDFile = "client_id"
)

// App is one running client. Build it with New, call Start before reading
// identities and Close before exiting so the session survives the process.
type App struct {
	Config *config.Config
	Client *backend.Client

	Users      *service.UserAuth
	Admins     *service.AdminAuth
	Routes     *service.RouteTrigger
	Comparison *service.Comparison
	Recent     *service.RecentViews

	jar   *session.Jar
	store storage.Store
	tasks *queue.Dispatcher
	log   zerolog.Logger

	closeOnce sync.Once
	closeErr  error
}

// New opens storage, restores the cookie jar and constructs the services.
// Nothing is sent to the backend until Start.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	clientID, err := ensureClientID(cfg)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(ctx, storage.Config{
		Backend:  cfg.Storage,
		StateDir: cfg.StateDir,
		ClientID: clientID,
		Redis:    storage.RedisConfig{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB},
		Mongo:    storage.MongoConfig{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database},
	})
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	storage.PurgeLegacy(ctx, store, log)

	jar, err := session.Load(cfg.APIURL, cfg.StateDir)
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}

	client := backend.New(backend.Options{
		BaseURL:     cfg.APIURL,
		AdminPrefix: cfg.AdminPrefix,
		Jar:         jar,
		Timeout:     cfg.HTTPTimeout,
	}, logger.Component(log, "backend"))

	tasks := queue.NewDispatcher(0, logger.Component(log, "dispatcher"))
	tasks.Start(context.WithoutCancel(ctx))

	link := &sessionLink{
		logout: service.NewMutualLogout(client.UserAuth(), client.AdminAuth(), cfg.ForeignSignoutTimeout, logger.Component(log, "mutual_logout")),
	}
	users := service.NewUserAuth(client.UserAuth(), link, logger.Component(log, "user_auth"))
	admins := service.NewAdminAuth(client.AdminAuth(), link, tasks, logger.Component(log, "admin_auth"))
	link.users, link.admins = users, admins

	a := &App{
		Config:     cfg,
		Client:     client,
		Users:      users,
		Admins:     admins,
		Comparison: service.NewComparison(ctx, store, tasks, logger.Component(log, "comparison")),
		Recent: service.NewRecentViews(store, client.RecentViews(), func() bool {
			return users.Snapshot().Authenticated
		}, logger.Component(log, "recent_views")),
		jar:   jar,
		store: store,
		tasks: tasks,
		log:   log,
	}

	protected := domain.PrefixBoundary(cfg.ProtectedRoutes)
	if len(protected) == 0 {
		protected = domain.DefaultProtectedRoutes
	}
	a.Routes = service.NewRouteTrigger(logger.Component(log, "routes"),
		service.Watcher{Name: "user", Boundary: protected, Validate: users.Validate},
		service.Watcher{Name: "admin", Boundary: domain.PrefixBoundary{cfg.AdminRoute}, Validate: admins.Validate},
	)
	if path, ok := a.lastPath(ctx); ok {
		a.Routes.Resume(path)
	}
	return a, nil
}

// Start validates both identities concurrently against the backend.
func (a *App) Start(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Go(func() { a.Users.Validate(ctx) })
	wg.Go(func() { a.Admins.Validate(ctx) })
	wg.Wait()

	id := a.Identity()
	a.log.Debug().Str("identity", string(id.Kind)).Int("cookies", a.jar.Len()).Msg("session restored")
}

// Identity is the effective identity; an admin session takes precedence.
func (a *App) Identity() domain.Identity {
	return service.ResolveIdentity(a.Users.Snapshot(), a.Admins.Snapshot())
}

// Navigate moves to path and returns the identities that were re-validated.
func (a *App) Navigate(ctx context.Context, path string) []string {
	return a.Routes.Navigate(ctx, path)
}

// Close drains background work, then persists the cookie jar and the
// current path. It is safe to call more than once.
func (a *App) Close(ctx context.Context) error {
	a.closeOnce.Do(func() {
		a.tasks.Close()

		var errs []error
		if path := a.Routes.Current(); path != "" {
			if raw, err := json.Marshal(path); err == nil {
				if err := a.store.Set(ctx, lastPathKey, raw); err != nil {
					errs = append(errs, fmt.Errorf("persist last path: %w", err))
				}
			}
		}
		if err := a.jar.Save(); err != nil {
			errs = append(errs, err)
		}
		if err := a.store.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("close storage: %w", err))
		}
		a.closeErr = errors.Join(errs...)
	})
	return a.closeErr
}

// ForgetSession drops every stored cookie, for when the backend is gone and
// a normal signout cannot reach it.
func (a *App) ForgetSession() error {
	a.Users.Reset()
	a.Admins.Reset()
	return a.jar.Forget()
}

func (a *App) lastPath(ctx context.Context) (string, bool) {
	raw, ok, err := a.store.Get(ctx, lastPathKey)
	if err != nil || !ok {
		return "", false
	}
	var path string
	if json.Unmarshal(raw, &path) != nil || path == "" {
		return "", false
	}
	return path, true
}

// sessionLink revokes the opposite session server-side and drops its local
// state so the two machines never both report a signed-in identity.
type sessionLink struct {
	logout *service.MutualLogout
	users  *service.UserAuth
	admins *service.AdminAuth
}

func (l *sessionLink) ClearAdminSession(ctx context.Context) {
	l.logout.ClearAdminSession(ctx)
	if l.admins != nil {
		l.admins.Reset()
	}
}

func (l *sessionLink) ClearUserSession(ctx context.Context) {
	l.logout.ClearUserSession(ctx)
	if l.users != nil {
		l.users.Reset()
	}
}

// ensureClientID returns the configured client id, or the one persisted in
// the state directory, generating it on first use.
func ensureClientID(cfg *config.Config) (string, error) {
	if cfg.ClientID != "" {
		return cfg.ClientID, nil
	}
	path := filepath.Join(cfg.StateDir, clientIDFile)
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if id, perr := uuid.ParseBytes(bytes.TrimSpace(raw)); perr == nil {
			return id.String(), nil
		}
	case !os.IsNotExist(err):
		return "", fmt.Errorf("read client id: %w", err)
	}

	id := uuid.NewString()
	if err := os.MkdirAll(cfg.StateDir, 0o700); err != nil {
		return "", fmt.Errorf("state dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("write client id: %w", err)
	}
	return id, nil
}
