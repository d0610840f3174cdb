package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

func car(id int) domain.CarListing {
	return domain.CarListing{ID: id, BrandName: "Toyota", ModelName: "Yaris"}
}

func ids(cars []domain.CarListing) []int {
	out := make([]int, 0, len(cars))
	for _, c := range cars {
		out = append(out, c.ID)
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestComparison_CapacityAndDuplicates(t *testing.T) {
	cmp := NewComparison(context.Background(), newMemStore(), &inlineQueue{}, zerolog.Nop())

	for i := 1; i <= 6; i++ {
		added := cmp.Add(car(i))
		if want := i <= MaxComparison; added != want {
			t.Fatalf("Add(%d) = %v, want %v", i, added, want)
		}
	}
	if got := ids(cmp.List()); !equalInts(got, []int{1, 2, 3, 4}) {
		t.Fatalf("unexpected set %v", got)
	}
	if cmp.CanAddMore() {
		t.Fatalf("full set must not accept more")
	}

	cmp.Remove(2)
	if cmp.Add(car(3)) {
		t.Fatalf("duplicate add must be a no-op")
	}
	if got := ids(cmp.List()); !equalInts(got, []int{1, 3, 4}) {
		t.Fatalf("duplicate add changed the set: %v", got)
	}
	if !cmp.IsPresent(3) || cmp.IsPresent(2) {
		t.Fatalf("unexpected presence results")
	}
}

func TestComparison_RehydratesInOrder(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	first := NewComparison(ctx, store, &inlineQueue{}, zerolog.Nop())
	first.Add(car(7))
	first.Add(car(3))
	first.Add(car(5))

	reloaded := NewComparison(ctx, store, &inlineQueue{}, zerolog.Nop())
	if got := ids(reloaded.List()); !equalInts(got, []int{7, 3, 5}) {
		t.Fatalf("expected order preserved, got %v", got)
	}

	reloaded.Clear()
	again := NewComparison(ctx, store, &inlineQueue{}, zerolog.Nop())
	if len(again.List()) != 0 {
		t.Fatalf("expected empty set after clear")
	}
}

func TestComparison_MalformedStorageYieldsEmpty(t *testing.T) {
	ctx := context.Background()
	for _, raw := range []string{"{not json", `{"id":1}`, `"text"`} {
		store := newMemStore()
		_ = store.Set(ctx, ComparisonKey, []byte(raw))
		cmp := NewComparison(ctx, store, &inlineQueue{}, zerolog.Nop())
		if len(cmp.List()) != 0 {
			t.Fatalf("expected empty set for %q", raw)
		}
	}

	failing := newMemStore()
	failing.getErr = errors.New("storage offline")
	if got := NewComparison(ctx, failing, &inlineQueue{}, zerolog.Nop()).List(); len(got) != 0 {
		t.Fatalf("expected empty set when storage fails")
	}
}

func TestComparison_HydrateTruncates(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	_ = store.Set(ctx, ComparisonKey, []byte(`[{"id":1},{"id":2},{"id":3},{"id":4},{"id":5},{"id":6}]`))
	cmp := NewComparison(ctx, store, &inlineQueue{}, zerolog.Nop())
	if got := ids(cmp.List()); !equalInts(got, []int{1, 2, 3, 4}) {
		t.Fatalf("expected truncation to 4, got %v", got)
	}
}
