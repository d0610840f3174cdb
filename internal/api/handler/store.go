package handler

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

const maxRecentViews = 20

type userAccount struct {
	user     domain.User
	hash     []byte
	roles    domain.Roles
	profiles domain.Profiles
}

type adminAccount struct {
	admin domain.Admin
	hash  []byte
}

type recentView struct {
	carID    int
	viewedAt time.Time
}

// Store is the in-memory state of the mock backend.
type Store struct {
	cost int
	now  func() time.Time

	mu        sync.RWMutex
	users     []*userAccount
	admins    []*adminAccount
	whitelist []domain.IPWhitelistEntry
	nextIPID  int
	cars      []domain.CarDetail
	recent    map[int][]recentView
}

// NewStore returns an empty store. cost is the bcrypt cost used for new
// passwords; values below bcrypt.MinCost fall back to bcrypt.DefaultCost.
func NewStore(cost int) *Store {
	if cost < bcrypt.MinCost {
		cost = bcrypt.DefaultCost
	}
	return &Store{
		cost:     cost,
		now:      time.Now,
		nextIPID: 1,
		recent:   make(map[int][]recentView),
	}
}

// CreateUser registers a buyer/seller account. Usernames and emails are
// unique, case-insensitively.
func (s *Store) CreateUser(req domain.SignupRequest) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if strings.EqualFold(u.user.Email, req.Email) {
			return nil, &conflictError{field: "email", message: "Email already exists"}
		}
		if strings.EqualFold(u.user.Username, req.Username) {
			return nil, &conflictError{field: "username", message: "Username already exists"}
		}
	}
	acc := &userAccount{
		user: domain.User{
			ID:        len(s.users) + 1,
			Email:     req.Email,
			Username:  req.Username,
			Name:      req.Name,
			CreatedAt: s.now().UTC(),
		},
		hash: hash,
	}
	s.users = append(s.users, acc)
	u := acc.user
	return &u, nil
}

// SetUserRoles marks which profiles exist for a user. Used for seeding.
func (s *Store) SetUserRoles(userID int, roles domain.Roles, profiles domain.Profiles) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := s.userLocked(userID)
	if acc == nil {
		return domain.ErrNotFound
	}
	acc.roles, acc.profiles = roles, profiles
	return nil
}

// AuthenticateUser accepts an email or a username as login.
func (s *Store) AuthenticateUser(login, password string) (*domain.User, error) {
	s.mu.RLock()
	var acc *userAccount
	for _, u := range s.users {
		if strings.EqualFold(u.user.Email, login) || strings.EqualFold(u.user.Username, login) {
			acc = u
			break
		}
	}
	s.mu.RUnlock()
	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	u := acc.user
	return &u, nil
}

func (s *Store) UserSession(userID int) (*domain.UserSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc := s.userLocked(userID)
	if acc == nil {
		return nil, domain.ErrUnauthorized
	}
	return &domain.UserSession{User: acc.user, Roles: acc.roles, Profiles: acc.profiles}, nil
}

func (s *Store) userLocked(id int) *userAccount {
	for _, u := range s.users {
		if u.user.ID == id {
			return u
		}
	}
	return nil
}

// SeedAdmin creates the console account.
func (s *Store) SeedAdmin(username, password, name string) (*domain.Admin, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acc := &adminAccount{
		admin: domain.Admin{
			ID:        len(s.admins) + 1,
			Username:  username,
			Name:      name,
			Role:      "admin",
			CreatedAt: s.now().UTC(),
		},
		hash: hash,
	}
	s.admins = append(s.admins, acc)
	a := acc.admin
	return &a, nil
}

// AuthenticateAdmin verifies the password and the client IP, then records
// the sign-in time.
func (s *Store) AuthenticateAdmin(username, password, ip string) (*domain.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var acc *adminAccount
	for _, a := range s.admins {
		if a.admin.Username == username {
			acc = a
			break
		}
	}
	if acc == nil || bcrypt.CompareHashAndPassword(acc.hash, []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !s.allowedLocked(acc.admin.ID, ip) {
		return nil, domain.ErrForbidden
	}
	now := s.now().UTC()
	acc.admin.LastLoginAt = &now
	a := acc.admin
	return &a, nil
}

func (s *Store) Admin(adminID int) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.admins {
		if a.admin.ID == adminID {
			adm := a.admin
			return &adm, nil
		}
	}
	return nil, domain.ErrUnauthorized
}

// Whitelist returns the entries of one admin.
func (s *Store) Whitelist(adminID int) []domain.IPWhitelistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.IPWhitelistEntry{}
	for _, e := range s.whitelist {
		if e.AdminID == adminID {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) AddIP(adminID int, ip, description string) (*domain.IPWhitelistEntry, error) {
	if _, err := domain.ParseIPRange(ip); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.whitelist {
		if e.AdminID == adminID && e.IPAddress == ip {
			return nil, &conflictError{field: "ip_address", message: "IP address already whitelisted"}
		}
	}
	entry := domain.IPWhitelistEntry{
		ID:          s.nextIPID,
		AdminID:     adminID,
		IPAddress:   ip,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	s.nextIPID++
	s.whitelist = append(s.whitelist, entry)
	return &entry, nil
}

func (s *Store) RemoveIP(adminID int, ip string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.whitelist, func(e domain.IPWhitelistEntry) bool {
		return e.AdminID == adminID && e.IPAddress == ip
	})
	if i < 0 {
		return domain.ErrNotFound
	}
	s.whitelist = slices.Delete(s.whitelist, i, i+1)
	return nil
}

// WouldBlock reports whether removing ip from the admin's whitelist would
// leave sessionIP without any covering entry.
func (s *Store) WouldBlock(adminID int, ip, sessionIP string) bool {
	if !domain.WouldBlockCurrentSession(ip, sessionIP) {
		return false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.whitelist {
		if e.AdminID == adminID && e.IPAddress != ip && domain.IPInRange(sessionIP, e.IPAddress) {
			return false
		}
	}
	return true
}

// IPAllowed reports whether any admin whitelists ip.
func (s *Store) IPAllowed(ip string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.whitelist {
		if domain.IPInRange(ip, e.IPAddress) {
			return true
		}
	}
	return false
}

func (s *Store) allowedLocked(adminID int, ip string) bool {
	for _, e := range s.whitelist {
		if e.AdminID == adminID && domain.IPInRange(ip, e.IPAddress) {
			return true
		}
	}
	return false
}

// AddCar appends a listing to the catalog.
func (s *Store) AddCar(car domain.CarDetail) {
	s.mu.Lock()
	defer s.mu.Unlock()
	car.Car.ID = len(s.cars) + 1
	s.cars = append(s.cars, car)
}

func (s *Store) Car(carID int) (*domain.CarDetail, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.cars {
		if c.Car.ID == carID {
			car := c
			return &car, nil
		}
	}
	return nil, domain.ErrNotFound
}

// SearchCars filters active listings and pages the result. Page and limit
// default to 1 and 20.
func (s *Store) SearchCars(q domain.CarSearch) domain.CarPage {
	page, limit := max(q.Page, 1), q.Limit
	if limit <= 0 {
		limit = 20
	}
	s.mu.RLock()
	var matched []domain.CarListing
	for _, c := range s.cars {
		if matchesSearch(c.Car, q) {
			matched = append(matched, c.Listing())
		}
	}
	s.mu.RUnlock()

	out := domain.CarPage{Cars: []domain.CarListing{}, Total: len(matched), Page: page, Limit: limit}
	start := (page - 1) * limit
	if start < len(matched) {
		out.Cars = matched[start:min(start+limit, len(matched))]
	}
	return out
}

func matchesSearch(c domain.CarData, q domain.CarSearch) bool {
	if c.Status != "active" {
		return false
	}
	if q.Query != "" {
		text := strings.ToLower(strings.Join([]string{c.BrandName, c.ModelName, c.SubmodelName}, " "))
		if !strings.Contains(text, strings.ToLower(q.Query)) {
			return false
		}
	}
	if q.Province != "" && !strings.EqualFold(c.Province, q.Province) {
		return false
	}
	if c.Price != nil {
		if (q.MinPrice > 0 && *c.Price < q.MinPrice) || (q.MaxPrice > 0 && *c.Price > q.MaxPrice) {
			return false
		}
	}
	if c.Year != nil {
		if (q.MinYear > 0 && *c.Year < q.MinYear) || (q.MaxYear > 0 && *c.Year > q.MaxYear) {
			return false
		}
	}
	return true
}

// RecordView moves carID to the front of the user's history.
func (s *Store) RecordView(userID, carID int) error {
	if _, err := s.Car(carID); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	views := slices.DeleteFunc(s.recent[userID], func(v recentView) bool { return v.carID == carID })
	views = append([]recentView{{carID: carID, viewedAt: s.now().UTC()}}, views...)
	if len(views) > maxRecentViews {
		views = views[:maxRecentViews]
	}
	s.recent[userID] = views
	return nil
}

// RecentViews returns the user's viewed cars, newest first.
func (s *Store) RecentViews(userID, limit int) []domain.CarListing {
	if limit <= 0 || limit > maxRecentViews {
		limit = maxRecentViews
	}
	s.mu.RLock()
	views := slices.Clone(s.recent[userID])
	s.mu.RUnlock()

	out := []domain.CarListing{}
	for _, v := range views {
		if len(out) == limit {
			break
		}
		if car, err := s.Car(v.carID); err == nil {
			out = append(out, car.Listing())
		}
	}
	return out
}

// conflictError is a uniqueness violation tied to one request field.
type conflictError struct {
	field   string
	message string
}

func (e *conflictError) Error() string      { return e.message }
func (e *conflictError) ErrorField() string { return e.field }
func (e *conflictError) Is(target error) bool {
	return errors.Is(target, domain.ErrConflict)
}
