package handler

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(bcrypt.MinCost)
}

func TestStore_UserLifecycle(t *testing.T) {
	s := newTestStore(t)
	u, err := s.CreateUser(domain.SignupRequest{Email: "a@example.com", Password: "secret1", Username: "alice", Name: "Alice"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = s.CreateUser(domain.SignupRequest{Email: "A@example.com", Password: "secret1", Username: "other", Name: "Other"})
	var named interface{ ErrorField() string }
	if !errors.Is(err, domain.ErrConflict) || !errors.As(err, &named) || named.ErrorField() != "email" {
		t.Fatalf("expected email conflict, got %v", err)
	}

	if _, err := s.AuthenticateUser("alice", "wrong-pass"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	got, err := s.AuthenticateUser("a@example.com", "secret1")
	if err != nil || got.ID != u.ID {
		t.Fatalf("signin by email: %+v %v", got, err)
	}

	_ = s.SetUserRoles(u.ID, domain.Roles{Buyer: true}, domain.Profiles{BuyerComplete: true})
	sess, err := s.UserSession(u.ID)
	if err != nil || !sess.Roles.Buyer || sess.Roles.Seller {
		t.Fatalf("unexpected session %+v %v", sess, err)
	}
}

func TestStore_AdminRequiresWhitelistedIP(t *testing.T) {
	s := newTestStore(t)
	admin, err := s.SeedAdmin("root", "admin123", "Root")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := s.AuthenticateAdmin("root", "admin123", "198.51.100.1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("empty whitelist must reject, got %v", err)
	}
	if _, err := s.AddIP(admin.ID, "198.51.100.0/24", "office"); err != nil {
		t.Fatalf("add ip: %v", err)
	}
	got, err := s.AuthenticateAdmin("root", "admin123", "198.51.100.1")
	if err != nil || got.LastLoginAt == nil {
		t.Fatalf("expected signin with last login recorded, got %+v %v", got, err)
	}
	if _, err := s.AuthenticateAdmin("root", "nope-nope", "198.51.100.1"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestStore_WhitelistRules(t *testing.T) {
	s := newTestStore(t)
	admin, _ := s.SeedAdmin("root", "admin123", "Root")

	if _, err := s.AddIP(admin.ID, "not-an-ip", ""); !errors.Is(err, domain.ErrInvalidIP) {
		t.Fatalf("expected ErrInvalidIP, got %v", err)
	}
	_, _ = s.AddIP(admin.ID, "203.0.113.0/24", "vpn")
	if _, err := s.AddIP(admin.ID, "203.0.113.0/24", "dup"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected duplicate conflict, got %v", err)
	}

	if !s.WouldBlock(admin.ID, "203.0.113.0/24", "203.0.113.42") {
		t.Fatalf("removing the only covering range must block")
	}
	_, _ = s.AddIP(admin.ID, "203.0.113.42", "laptop")
	if s.WouldBlock(admin.ID, "203.0.113.0/24", "203.0.113.42") {
		t.Fatalf("another entry still covers the session")
	}
	if s.WouldBlock(admin.ID, "10.0.0.0/8", "203.0.113.42") {
		t.Fatalf("unrelated entry must not block")
	}

	if err := s.RemoveIP(admin.ID, "10.0.0.0/8"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := s.RemoveIP(admin.ID, "203.0.113.0/24"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := s.Whitelist(admin.ID); len(got) != 1 || got[0].IPAddress != "203.0.113.42" {
		t.Fatalf("unexpected whitelist %+v", got)
	}
	if !s.IPAllowed("203.0.113.42") || s.IPAllowed("203.0.113.43") {
		t.Fatalf("IPAllowed does not reflect the whitelist")
	}
}

func TestStore_SearchAndRecentViews(t *testing.T) {
	s := newTestStore(t)
	price := func(v int) *int { return &v }
	s.AddCar(domain.CarDetail{Car: domain.CarData{Status: "active", BrandName: "Toyota", ModelName: "Yaris", Price: price(400000)}})
	s.AddCar(domain.CarDetail{Car: domain.CarData{Status: "active", BrandName: "Honda", ModelName: "City", Price: price(600000)}})
	s.AddCar(domain.CarDetail{Car: domain.CarData{Status: "sold", BrandName: "Toyota", ModelName: "Camry"}})

	page := s.SearchCars(domain.CarSearch{Query: "toyota"})
	if page.Total != 1 || page.Cars[0].ModelName != "Yaris" {
		t.Fatalf("unexpected search result %+v", page)
	}
	if page := s.SearchCars(domain.CarSearch{MinPrice: 500000}); page.Total != 1 || page.Cars[0].BrandName != "Honda" {
		t.Fatalf("unexpected price filter result %+v", page)
	}
	if page := s.SearchCars(domain.CarSearch{Page: 5, Limit: 1}); len(page.Cars) != 0 || page.Total != 2 {
		t.Fatalf("unexpected out-of-range page %+v", page)
	}

	if err := s.RecordView(1, 99); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found for unknown car, got %v", err)
	}
	_ = s.RecordView(1, 1)
	_ = s.RecordView(1, 2)
	_ = s.RecordView(1, 1)
	views := s.RecentViews(1, 0)
	if len(views) != 2 || views[0].ID != 1 || views[1].ID != 2 {
		t.Fatalf("expected [1 2], got %+v", views)
	}
	if got := s.RecentViews(2, 5); len(got) != 0 {
		t.Fatalf("views are per user, got %+v", got)
	}
}
