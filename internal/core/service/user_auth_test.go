package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

func newTestUserAuth(api *stubUserAPI, clearer SessionClearer) *UserAuth {
	return NewUserAuth(api, clearer, zerolog.Nop())
}

func TestUserAuth_InitialStateIsLoading(t *testing.T) {
	auth := newTestUserAuth(&stubUserAPI{backend: &fakeBackend{}}, &stubClearer{})
	s := auth.Snapshot()
	if !s.Loading || s.Authenticated {
		t.Fatalf("expected loading and unauthenticated, got %+v", s)
	}
}

func TestUserAuth_Signin_PopulatesFromValidation(t *testing.T) {
	api := &stubUserAPI{backend: &fakeBackend{}}
	clearer := &stubClearer{}
	auth := newTestUserAuth(api, clearer)

	if err := auth.Signin(context.Background(), domain.SigninRequest{EmailOrUsername: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}
	s := auth.Snapshot()
	if !s.Authenticated || s.Loading {
		t.Fatalf("expected authenticated and not loading, got %+v", s)
	}
	if s.Roles == nil || !s.Roles.Buyer {
		t.Fatalf("expected roles from me endpoint, got %+v", s.Roles)
	}
	if s.Profiles == nil || !s.Profiles.BuyerComplete {
		t.Fatalf("expected profiles from me endpoint, got %+v", s.Profiles)
	}
	if clearer.adminCleared != 1 {
		t.Fatalf("expected one admin session clear, got %d", clearer.adminCleared)
	}
}

func TestUserAuth_Signin_ClientValidation(t *testing.T) {
	api := &stubUserAPI{backend: &fakeBackend{}}
	auth := newTestUserAuth(api, &stubClearer{})

	err := auth.Signin(context.Background(), domain.SigninRequest{EmailOrUsername: "alice", Password: "123"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if api.signins != 0 {
		t.Fatalf("backend must not be called on invalid input")
	}
	s := auth.Snapshot()
	if s.Error == nil || s.Error.Field != "password" {
		t.Fatalf("expected password field error, got %+v", s.Error)
	}
	if s.Loading || s.Authenticated {
		t.Fatalf("expected unauthenticated and not loading, got %+v", s)
	}
}

func TestUserAuth_Signin_BackendFailure(t *testing.T) {
	api := &stubUserAPI{backend: &fakeBackend{}, signinErr: errors.New("Invalid credentials")}
	clearer := &stubClearer{}
	auth := newTestUserAuth(api, clearer)

	if err := auth.Signin(context.Background(), domain.SigninRequest{EmailOrUsername: "alice", Password: "secret1"}); err == nil {
		t.Fatalf("expected error")
	}
	s := auth.Snapshot()
	if s.Error == nil || s.Error.Message != "Invalid credentials" || s.Error.Field != domain.FieldGeneral {
		t.Fatalf("unexpected error state: %+v", s.Error)
	}
	if clearer.adminCleared != 0 {
		t.Fatalf("failed signin must not clear the admin session")
	}

	auth.ClearError()
	if auth.Snapshot().Error != nil {
		t.Fatalf("expected error cleared")
	}
}

type fieldErr struct{ field string }

func (e fieldErr) Error() string      { return "Email already exists" }
func (e fieldErr) ErrorField() string { return e.field }

func TestUserAuth_Signup_FieldFromBackend(t *testing.T) {
	api := &stubUserAPI{backend: &fakeBackend{}, signinErr: fieldErr{field: "email"}}
	auth := newTestUserAuth(api, &stubClearer{})

	req := domain.SignupRequest{Email: "a@b.co", Password: "secret1", Username: "alice", Name: "Alice"}
	if err := auth.Signup(context.Background(), req); err == nil {
		t.Fatalf("expected error")
	}
	if s := auth.Snapshot(); s.Error == nil || s.Error.Field != "email" {
		t.Fatalf("expected email field error, got %+v", s.Error)
	}
}

func TestUserAuth_Validate_NeverFails(t *testing.T) {
	failures := []error{
		domain.ErrUnauthorized,
		domain.ErrBackendUnavailable,
		errors.New("invalid character '<' looking for beginning of value"),
		context.DeadlineExceeded,
	}
	for _, failure := range failures {
		backend := &fakeBackend{user: true}
		api := &stubUserAPI{backend: backend}
		auth := newTestUserAuth(api, &stubClearer{})
		auth.Validate(context.Background())
		if !auth.Snapshot().Authenticated {
			t.Fatalf("expected authenticated before failure")
		}

		api.meErr = failure
		auth.Validate(context.Background())
		s := auth.Snapshot()
		if s.Authenticated || s.User != nil || s.Roles != nil || s.Profiles != nil || s.Loading {
			t.Fatalf("failure %v: expected cleared state, got %+v", failure, s)
		}
	}
}

func TestUserAuth_Signout_ClearsEvenWhenBackendFails(t *testing.T) {
	backend := &fakeBackend{user: true}
	api := &stubUserAPI{backend: backend, signoutErr: errors.New("HTTP 500")}
	auth := newTestUserAuth(api, &stubClearer{})
	auth.Validate(context.Background())

	auth.Signout(context.Background())
	s := auth.Snapshot()
	if s.Authenticated || s.User != nil {
		t.Fatalf("expected cleared state after failed signout, got %+v", s)
	}
	if api.signouts != 1 {
		t.Fatalf("expected one signout call, got %d", api.signouts)
	}
}

// blockingUserAPI lets a test hold the first Me call open while a later
// validation completes.
type blockingUserAPI struct {
	stubUserAPI
	mu      sync.Mutex
	calls   int
	started chan struct{}
	release chan struct{}
}

func (b *blockingUserAPI) Me(ctx context.Context) (*domain.UserSession, error) {
	b.mu.Lock()
	b.calls++
	first := b.calls == 1
	b.mu.Unlock()
	if first {
		close(b.started)
		<-b.release
		return &domain.UserSession{User: domain.User{ID: 1, Username: "stale"}}, nil
	}
	return nil, domain.ErrUnauthorized
}

func TestUserAuth_StaleValidationDoesNotOverwrite(t *testing.T) {
	api := &blockingUserAPI{
		stubUserAPI: stubUserAPI{backend: &fakeBackend{}},
		started:     make(chan struct{}),
		release:     make(chan struct{}),
	}
	auth := NewUserAuth(api, &stubClearer{}, zerolog.Nop())

	done := make(chan struct{})
	go func() {
		auth.Validate(context.Background())
		close(done)
	}()
	<-api.started

	auth.Validate(context.Background())
	if auth.Snapshot().Authenticated {
		t.Fatalf("newer validation should have cleared the identity")
	}

	close(api.release)
	<-done
	if s := auth.Snapshot(); s.Authenticated || s.User != nil {
		t.Fatalf("stale response overwrote newer state: %+v", s)
	}
}

func TestUserAuth_Reset_ClearsWithoutBackendCall(t *testing.T) {
	api := &stubUserAPI{backend: &fakeBackend{}}
	auth := newTestUserAuth(api, &stubClearer{})
	ctx := context.Background()

	if err := auth.Signin(ctx, domain.SigninRequest{EmailOrUsername: "alice", Password: "secret1"}); err != nil {
		t.Fatalf("Signin returned error: %v", err)
	}
	auth.Reset()

	if s := auth.Snapshot(); s.Authenticated || s.User != nil || s.Loading {
		t.Fatalf("expected cleared state, got %+v", s)
	}
	if api.signouts != 0 {
		t.Fatalf("Reset must not call the backend, got %d signouts", api.signouts)
	}
}
