// Package session persists the backend session between CLI runs. The session
// is an opaque set of cookies; nothing here reads or exposes their values.
package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const fileName = "cookies.json"

type storedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitzero"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"http_only,omitempty"`
}

// Jar is an http.CookieJar for a single backend that can be saved to and
// restored from the state directory.
type Jar struct {
	base *url.URL
	path string
	now  func() time.Time

	mu      sync.Mutex
	inner   *cookiejar.Jar
	cookies map[string]storedCookie
}

// Load restores the jar for baseURL from stateDir. A missing or malformed
// file yields an empty jar.
func Load(baseURL, stateDir string) (*Jar, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("session: parse base url: %w", err)
	}
	inner, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	j := &Jar{
		base:    base,
		path:    filepath.Join(stateDir, fileName),
		now:     time.Now,
		inner:   inner,
		cookies: make(map[string]storedCookie),
	}

	raw, err := os.ReadFile(j.path)
	if os.IsNotExist(err) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", j.path, err)
	}
	var stored []storedCookie
	if json.Unmarshal(raw, &stored) != nil {
		return j, nil
	}
	restored := make([]*http.Cookie, 0, len(stored))
	for _, c := range stored {
		if !c.Expires.IsZero() && !c.Expires.After(j.now()) {
			continue
		}
		j.cookies[cookieKey(c.Name, c.Path)] = c
		restored = append(restored, &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		})
	}
	j.inner.SetCookies(base, restored)
	return j, nil
}

// SetCookies implements http.CookieJar.
func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.inner.SetCookies(u, cookies)
	if u.Host != j.base.Host {
		return
	}
	now := j.now()
	for _, c := range cookies {
		key := cookieKey(c.Name, c.Path)
		expires := c.Expires
		switch {
		case c.MaxAge < 0:
			delete(j.cookies, key)
			continue
		case c.MaxAge > 0:
			expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		}
		if !expires.IsZero() && !expires.After(now) {
			delete(j.cookies, key)
			continue
		}
		j.cookies[key] = storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Domain:   c.Domain,
			Expires:  expires,
			Secure:   c.Secure,
			HttpOnly: c.HttpOnly,
		}
	}
}

// Cookies implements http.CookieJar.
func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Len reports how many backend cookies are held.
func (j *Jar) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.cookies)
}

// Save writes the backend cookies to the state directory with owner-only
// permissions.
func (j *Jar) Save() error {
	j.mu.Lock()
	stored := make([]storedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		stored = append(stored, c)
	}
	j.mu.Unlock()

	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(j.path), 0o700); err != nil {
		return fmt.Errorf("session: state dir: %w", err)
	}
	tmp := j.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("session: write: %w", err)
	}
	if err := os.Rename(tmp, j.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("session: write: %w", err)
	}
	return nil
}

// Forget drops every cookie and removes the saved file.
func (j *Jar) Forget() error {
	inner, err := cookiejar.New(nil)
	if err != nil {
		return err
	}
	j.mu.Lock()
	j.inner = inner
	j.cookies = make(map[string]storedCookie)
	j.mu.Unlock()

	if err := os.Remove(j.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session: remove: %w", err)
	}
	return nil
}

func cookieKey(name, path string) string {
	return name + ";" + path
}
