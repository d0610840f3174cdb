package service

import (
	"context"
	"errors"
	"sync"

	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stubs
// ---------------------------------------------------------------------------

var errBackendDown = errors.New("backend down")

// fakeBackend models the server side of one cookie jar: which sessions the
// jar currently holds.
type fakeBackend struct {
	mu    sync.Mutex
	user  bool
	admin bool
	ip    string
}

func (b *fakeBackend) set(user, admin *bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if user != nil {
		b.user = *user
	}
	if admin != nil {
		b.admin = *admin
	}
}

func boolp(v bool) *bool { return &v }

type stubUserAPI struct {
	backend    *fakeBackend
	signinErr  error
	signoutErr error
	meErr      error
	signins    int
	signouts   int
}

func (s *stubUserAPI) Signin(_ context.Context, req domain.SigninRequest) (*domain.User, error) {
	s.signins++
	if s.signinErr != nil {
		return nil, s.signinErr
	}
	s.backend.set(boolp(true), nil)
	return &domain.User{ID: 1, Username: req.EmailOrUsername}, nil
}

func (s *stubUserAPI) Signup(_ context.Context, req domain.SignupRequest) (*domain.User, error) {
	if s.signinErr != nil {
		return nil, s.signinErr
	}
	s.backend.set(boolp(true), nil)
	return &domain.User{ID: 2, Username: req.Username, Email: req.Email, Name: req.Name}, nil
}

func (s *stubUserAPI) GoogleSignin(_ context.Context, _ domain.GoogleSigninRequest) (*domain.User, error) {
	if s.signinErr != nil {
		return nil, s.signinErr
	}
	s.backend.set(boolp(true), nil)
	return &domain.User{ID: 3}, nil
}

func (s *stubUserAPI) Signout(_ context.Context) error {
	s.signouts++
	if s.signoutErr != nil {
		return s.signoutErr
	}
	s.backend.set(boolp(false), nil)
	return nil
}

func (s *stubUserAPI) Me(_ context.Context) (*domain.UserSession, error) {
	if s.meErr != nil {
		return nil, s.meErr
	}
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if !s.backend.user {
		return nil, domain.ErrUnauthorized
	}
	return &domain.UserSession{
		User:     domain.User{ID: 1, Username: "alice"},
		Roles:    domain.Roles{Buyer: true},
		Profiles: domain.Profiles{BuyerComplete: true},
	}, nil
}

func (s *stubUserAPI) Refresh(_ context.Context) error { return nil }

type stubAdminAPI struct {
	backend    *fakeBackend
	signinErr  error
	signoutErr error
	noSession  bool
	whitelist  []domain.IPWhitelistEntry
	listErr    error
	checkIP    bool
	removed    []string
	added      []domain.AddIPRequest
	listCalls  int
}

func (s *stubAdminAPI) Signin(_ context.Context, req domain.AdminSigninRequest) (*domain.Admin, error) {
	if s.signinErr != nil {
		return nil, s.signinErr
	}
	s.backend.set(nil, boolp(true))
	return &domain.Admin{ID: 9, Username: req.Username}, nil
}

func (s *stubAdminAPI) Signout(_ context.Context) error {
	if s.signoutErr != nil {
		return s.signoutErr
	}
	s.backend.set(nil, boolp(false))
	return nil
}

func (s *stubAdminAPI) Me(_ context.Context) (*domain.AdminMe, error) {
	s.backend.mu.Lock()
	defer s.backend.mu.Unlock()
	if !s.backend.admin {
		return nil, domain.ErrUnauthorized
	}
	me := &domain.AdminMe{Admin: domain.Admin{ID: 9, Username: "root"}}
	if !s.noSession {
		me.Session = &domain.AdminSession{IPAddress: s.backend.ip}
	}
	return me, nil
}

func (s *stubAdminAPI) ListIPWhitelist(_ context.Context) ([]domain.IPWhitelistEntry, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	return append([]domain.IPWhitelistEntry(nil), s.whitelist...), nil
}

func (s *stubAdminAPI) AddIP(_ context.Context, req domain.AddIPRequest) error {
	s.added = append(s.added, req)
	s.whitelist = append(s.whitelist, domain.IPWhitelistEntry{ID: len(s.whitelist) + 1, IPAddress: req.IPAddress})
	return nil
}

func (s *stubAdminAPI) CheckIP(_ context.Context, _ string) (bool, error) {
	return s.checkIP, nil
}

func (s *stubAdminAPI) RemoveIP(_ context.Context, ip string) error {
	s.removed = append(s.removed, ip)
	return nil
}

type stubClearer struct {
	adminCleared int
	userCleared  int
}

func (c *stubClearer) ClearAdminSession(context.Context) { c.adminCleared++ }
func (c *stubClearer) ClearUserSession(context.Context)  { c.userCleared++ }

// inlineQueue runs tasks synchronously so tests observe their effects.
type inlineQueue struct {
	keys []string
}

func (q *inlineQueue) Enqueue(task ports.Task) {
	q.keys = append(q.keys, task.Key)
	_ = task.Run(context.Background())
}

type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	getErr error
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
