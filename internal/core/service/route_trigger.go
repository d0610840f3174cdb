package service

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// Watcher re-validates one identity whenever navigation crosses its boundary.
type Watcher struct {
	Name     string
	Boundary domain.Boundary
	Validate func(ctx context.Context)
}

// RouteTrigger decides, per navigation, which identities need re-validation.
// Moving between two paths on the same side of a boundary never validates.
type RouteTrigger struct {
	watchers []Watcher
	log      zerolog.Logger

	mu      sync.Mutex
	current string
	mounted bool
}

func NewRouteTrigger(log zerolog.Logger, watchers ...Watcher) *RouteTrigger {
	return &RouteTrigger{watchers: watchers, log: log}
}

// Resume seeds the previous path, e.g. from the last run, so the next
// Navigate is compared against it instead of being treated as the mount.
func (r *RouteTrigger) Resume(path string) {
	r.mu.Lock()
	r.current = domain.CanonicalPath(path)
	r.mounted = true
	r.mu.Unlock()
}

func (r *RouteTrigger) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Navigate records path and runs the validations whose boundary was crossed.
// The first call only records the path. It returns the names of the
// identities that were re-validated.
func (r *RouteTrigger) Navigate(ctx context.Context, path string) []string {
	path = domain.CanonicalPath(path)

	r.mu.Lock()
	prev, mounted := r.current, r.mounted
	r.current, r.mounted = path, true
	r.mu.Unlock()

	if !mounted {
		return nil
	}

	var crossed []Watcher
	for _, w := range r.watchers {
		if w.Boundary.Contains(prev) != w.Boundary.Contains(path) {
			crossed = append(crossed, w)
		}
	}

	names := make([]string, 0, len(crossed))
	for _, w := range crossed {
		r.log.Debug().Str("identity", w.Name).Str("from", prev).Str("to", path).Msg("boundary crossed, revalidating")
		w.Validate(ctx)
		names = append(names, w.Name)
	}
	return names
}
