package domain

import "strings"

// Boundary classifies navigation paths as inside or outside an area whose
// entry or exit requires re-validating a session.
type Boundary interface {
	Contains(path string) bool
}

// PrefixBoundary contains every path starting with one of its prefixes.
type PrefixBoundary []string

func (b PrefixBoundary) Contains(path string) bool {
	for _, prefix := range b {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// DefaultProtectedRoutes are the user-only areas of the marketplace.
var DefaultProtectedRoutes = PrefixBoundary{"/settings", "/favorites", "/listings", "/sell"}

// DefaultAdminRoute prefixes the whole admin console.
const DefaultAdminRoute = "/admin"

// CanonicalPath strips the query and fragment, collapses duplicate slashes
// and drops a trailing slash so "/admin//users/?x=1" compares as "/admin/users".
func CanonicalPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	var b strings.Builder
	b.Grow(len(p))
	prevSlash := false
	for _, r := range p {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > 1 {
		out = strings.TrimSuffix(out, "/")
	}
	return out
}
