package app

import (
	"context"
	"net/http/httptest"
	"slices"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/carjai/marketplace-client/internal/api"
	"github.com/carjai/marketplace-client/internal/api/handler"
	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/pkg/config"
)

func newBackend(t *testing.T) *httptest.Server {
	t.Helper()
	store := handler.NewStore(bcrypt.MinCost)
	err := api.Seed(store, api.SeedOptions{
		AdminUsername: "admin",
		AdminPassword: "admin123",
		AdminIPs:      []string{"127.0.0.0/8", "::1"},
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	srv := httptest.NewServer(api.NewRouter(api.Options{
		Store:     store,
		JWTSecret: "test-secret",
		Log:       zerolog.Nop(),
		Registry:  prometheus.NewRegistry(),
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(apiURL, stateDir string) *config.Config {
	return &config.Config{
		APIURL:                apiURL,
		AdminPrefix:           "/admin",
		StateDir:              stateDir,
		Storage:               "file",
		ForeignSignoutTimeout: 2 * time.Second,
		ProtectedRoutes:       []string{"/settings", "/favorites", "/listings", "/sell"},
		AdminRoute:            "/admin",
	}
}

func newApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func signup(t *testing.T, a *App) {
	t.Helper()
	err := a.Users.Signup(context.Background(), domain.SignupRequest{
		Email:    "buyer@example.com",
		Password: "secret1",
		Username: "buyer",
		Name:     "Buyer",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
}

func TestApp_StartsAnonymous(t *testing.T) {
	srv := newBackend(t)
	a := newApp(t, testConfig(srv.URL, t.TempDir()))

	a.Start(context.Background())

	if got := a.Identity().Kind; got != domain.IdentityAnonymous {
		t.Fatalf("expected anonymous, got %q", got)
	}
	if a.Users.Snapshot().Loading || a.Admins.Snapshot().Loading {
		t.Fatal("both machines should have finished loading")
	}
}

func TestApp_AlternatingSigninsKeepOneIdentity(t *testing.T) {
	srv := newBackend(t)
	a := newApp(t, testConfig(srv.URL, t.TempDir()))
	ctx := context.Background()
	a.Start(ctx)

	signup(t, a)
	if got := a.Identity().Kind; got != domain.IdentityUser {
		t.Fatalf("after signup: expected user, got %q", got)
	}

	if err := a.Admins.Signin(ctx, domain.AdminSigninRequest{Username: "admin", Password: "admin123"}); err != nil {
		t.Fatalf("admin signin: %v", err)
	}
	if a.Users.Snapshot().Authenticated {
		t.Fatal("user state should be cleared by admin signin")
	}
	if got := a.Identity().Kind; got != domain.IdentityAdmin {
		t.Fatalf("after admin signin: expected admin, got %q", got)
	}
	a.Users.Validate(ctx)
	if a.Users.Snapshot().Authenticated {
		t.Fatal("user session should have been revoked server-side")
	}

	err := a.Users.Signin(ctx, domain.SigninRequest{EmailOrUsername: "buyer", Password: "secret1"})
	if err != nil {
		t.Fatalf("user signin: %v", err)
	}
	if a.Admins.Snapshot().Authenticated {
		t.Fatal("admin state should be cleared by user signin")
	}
	a.Admins.Validate(ctx)
	if a.Admins.Snapshot().Authenticated {
		t.Fatal("admin session should have been revoked server-side")
	}
	if got := a.Identity().Kind; got != domain.IdentityUser {
		t.Fatalf("expected user, got %q", got)
	}
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	srv := newBackend(t)
	cfg := testConfig(srv.URL, t.TempDir())
	ctx := context.Background()

	first, err := New(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	first.Start(ctx)
	signup(t, first)
	first.Navigate(ctx, "/cars")
	first.Navigate(ctx, "/favorites")
	if err := first.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := newApp(t, cfg)
	if got := second.Routes.Current(); got != "/favorites" {
		t.Fatalf("expected resumed path /favorites, got %q", got)
	}
	second.Start(ctx)
	id := second.Identity()
	if id.Kind != domain.IdentityUser || id.User == nil || id.User.Username != "buyer" {
		t.Fatalf("expected restored user session, got %+v", id)
	}
}

func TestApp_NavigateRevalidatesOnBoundary(t *testing.T) {
	srv := newBackend(t)
	a := newApp(t, testConfig(srv.URL, t.TempDir()))
	ctx := context.Background()
	a.Start(ctx)

	if got := a.Navigate(ctx, "/"); got != nil {
		t.Fatalf("mount should not validate, got %v", got)
	}
	if got := a.Navigate(ctx, "/cars/1"); len(got) != 0 {
		t.Fatalf("public to public should not validate, got %v", got)
	}
	if got := a.Navigate(ctx, "/settings/profile"); !slices.Equal(got, []string{"user"}) {
		t.Fatalf("expected user revalidation, got %v", got)
	}
	if got := a.Navigate(ctx, "/admin/users"); !slices.Equal(got, []string{"user", "admin"}) {
		t.Fatalf("expected both revalidations, got %v", got)
	}
}

func TestApp_ClientIDIsStable(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.Config{StateDir: dir}

	first, err := ensureClientID(cfg)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	second, err := ensureClientID(cfg)
	if err != nil {
		t.Fatalf("ensure: %v", err)
	}
	if first == "" || first != second {
		t.Fatalf("expected stable id, got %q and %q", first, second)
	}

	cfg.ClientID = "fixed"
	if got, _ := ensureClientID(cfg); got != "fixed" {
		t.Fatalf("configured id should win, got %q", got)
	}
}

func TestApp_ComparisonPersistsAcrossRuns(t *testing.T) {
	srv := newBackend(t)
	cfg := testConfig(srv.URL, t.TempDir())
	ctx := context.Background()

	first, err := New(ctx, cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	if !first.Comparison.Add(domain.CarListing{ID: 7}) {
		t.Fatal("add should succeed")
	}
	if err := first.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	second := newApp(t, cfg)
	if !second.Comparison.IsPresent(7) {
		t.Fatalf("expected car 7 after restart, got %+v", second.Comparison.List())
	}
}
