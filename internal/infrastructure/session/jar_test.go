package session

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
)

func cookieServer(t *testing.T) *httptest.Server {
	t.Helper()
	e := echo.New()
	e.POST("/signin", func(c echo.Context) error {
		c.SetCookie(&http.Cookie{Name: "jwt", Value: "opaque", Path: "/", HttpOnly: true, MaxAge: 3600})
		return c.NoContent(http.StatusOK)
	})
	e.POST("/signout", func(c echo.Context) error {
		c.SetCookie(&http.Cookie{Name: "jwt", Value: "", Path: "/", MaxAge: -1})
		return c.NoContent(http.StatusOK)
	})
	e.GET("/me", func(c echo.Context) error {
		if _, err := c.Cookie("jwt"); err != nil {
			return c.NoContent(http.StatusUnauthorized)
		}
		return c.NoContent(http.StatusOK)
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func status(t *testing.T, client *http.Client, method, url string) int {
	t.Helper()
	req, _ := http.NewRequest(method, url, nil)
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestJar_SurvivesSaveAndLoad(t *testing.T) {
	srv := cookieServer(t)
	dir := t.TempDir()

	jar, err := Load(srv.URL, dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	client := &http.Client{Jar: jar}
	status(t, client, http.MethodPost, srv.URL+"/signin")
	if err := jar.Save(); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(filepath.Join(dir, fileName))
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected 0600, got %v", info.Mode().Perm())
	}

	restored, err := Load(srv.URL, dir)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got := status(t, &http.Client{Jar: restored}, http.MethodGet, srv.URL+"/me"); got != http.StatusOK {
		t.Fatalf("expected restored session, got %d", got)
	}
}

func TestJar_ExpiredCookieIsNotPersisted(t *testing.T) {
	srv := cookieServer(t)
	dir := t.TempDir()

	jar, _ := Load(srv.URL, dir)
	client := &http.Client{Jar: jar}
	status(t, client, http.MethodPost, srv.URL+"/signin")
	status(t, client, http.MethodPost, srv.URL+"/signout")
	if jar.Len() != 0 {
		t.Fatalf("expected deletion cookie to clear the jar, have %d", jar.Len())
	}
	_ = jar.Save()

	restored, _ := Load(srv.URL, dir)
	if got := status(t, &http.Client{Jar: restored}, http.MethodGet, srv.URL+"/me"); got != http.StatusUnauthorized {
		t.Fatalf("expected no session after signout, got %d", got)
	}
}

func TestJar_Forget(t *testing.T) {
	srv := cookieServer(t)
	dir := t.TempDir()

	jar, _ := Load(srv.URL, dir)
	client := &http.Client{Jar: jar}
	status(t, client, http.MethodPost, srv.URL+"/signin")
	_ = jar.Save()

	if err := jar.Forget(); err != nil {
		t.Fatalf("forget: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, fileName)); !os.IsNotExist(err) {
		t.Fatalf("expected cookie file to be removed, err=%v", err)
	}
	if got := status(t, client, http.MethodGet, srv.URL+"/me"); got != http.StatusUnauthorized {
		t.Fatalf("expected forgotten session, got %d", got)
	}
}

func TestLoad_MalformedFileYieldsEmptyJar(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("seed: %v", err)
	}
	jar, err := Load("http://localhost:8080", dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if jar.Len() != 0 {
		t.Fatalf("expected empty jar")
	}
}
