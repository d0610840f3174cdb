package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

type countingValidator struct{ calls int }

func (c *countingValidator) Validate(context.Context) { c.calls++ }

func newTestTrigger() (*RouteTrigger, *countingValidator, *countingValidator) {
	user, admin := &countingValidator{}, &countingValidator{}
	trigger := NewRouteTrigger(zerolog.Nop(),
		Watcher{Name: "user", Boundary: domain.DefaultProtectedRoutes, Validate: user.Validate},
		Watcher{Name: "admin", Boundary: domain.PrefixBoundary{domain.DefaultAdminRoute}, Validate: admin.Validate},
	)
	return trigger, user, admin
}

func TestRouteTrigger_FirstNavigationOnlyRecords(t *testing.T) {
	trigger, user, admin := newTestTrigger()
	if got := trigger.Navigate(context.Background(), "/admin/dashboard"); len(got) != 0 {
		t.Fatalf("expected no validation on mount, got %v", got)
	}
	if user.calls+admin.calls != 0 {
		t.Fatalf("expected no validation on mount")
	}
	if trigger.Current() != "/admin/dashboard" {
		t.Fatalf("unexpected current path %q", trigger.Current())
	}
}

func TestRouteTrigger_OnlyBoundaryCrossingsValidate(t *testing.T) {
	trigger, user, admin := newTestTrigger()
	ctx := context.Background()

	trigger.Navigate(ctx, "/admin/dashboard")
	trigger.Navigate(ctx, "/admin/users")
	if admin.calls != 0 {
		t.Fatalf("moving inside /admin must not validate, got %d", admin.calls)
	}

	trigger.Navigate(ctx, "/browse")
	if admin.calls != 1 {
		t.Fatalf("leaving /admin must validate exactly once, got %d", admin.calls)
	}

	trigger.Navigate(ctx, "/favorites")
	trigger.Navigate(ctx, "/settings/profile")
	trigger.Navigate(ctx, "/listings")
	if user.calls != 1 {
		t.Fatalf("moving between protected routes must not validate again, got %d", user.calls)
	}

	trigger.Navigate(ctx, "/cars/12")
	if user.calls != 2 || admin.calls != 1 {
		t.Fatalf("unexpected counts user=%d admin=%d", user.calls, admin.calls)
	}
}

func TestRouteTrigger_CanonicalizesPaths(t *testing.T) {
	trigger, _, admin := newTestTrigger()
	ctx := context.Background()

	trigger.Navigate(ctx, "/admin/")
	trigger.Navigate(ctx, "/admin//users?tab=banned")
	if admin.calls != 0 {
		t.Fatalf("equivalent admin paths must not validate, got %d", admin.calls)
	}
}

func TestRouteTrigger_Resume(t *testing.T) {
	trigger, _, admin := newTestTrigger()
	trigger.Resume("/admin/reports")

	got := trigger.Navigate(context.Background(), "/")
	if len(got) != 1 || got[0] != "admin" || admin.calls != 1 {
		t.Fatalf("expected admin revalidation after resume, got %v", got)
	}
}
