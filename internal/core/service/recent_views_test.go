package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

type stubRecentAPI struct {
	cars     []domain.CarListing
	listErr  error
	recorded []int
}

func (s *stubRecentAPI) List(_ context.Context, _ int) ([]domain.CarListing, error) {
	return s.cars, s.listErr
}

func (s *stubRecentAPI) Record(_ context.Context, carID int) error {
	s.recorded = append(s.recorded, carID)
	return nil
}

func intp(v int) *int { return &v }

func TestRecentViews_AddDedupesAndCaps(t *testing.T) {
	api := &stubRecentAPI{}
	signedIn := false
	rv := NewRecentViews(newMemStore(), api, func() bool { return signedIn }, zerolog.Nop())
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rv.now = func() time.Time { clock = clock.Add(time.Second); return clock }
	ctx := context.Background()

	for i := 1; i <= MaxRecentViews+5; i++ {
		rv.Add(ctx, i, nil)
	}
	signedIn = true
	items := rv.Add(ctx, 10, &domain.RecentSnapshot{Title: "Honda Jazz"})

	if len(items) != MaxRecentViews {
		t.Fatalf("expected cap of %d, got %d", MaxRecentViews, len(items))
	}
	if items[0].CarID != 10 || items[0].Snapshot == nil {
		t.Fatalf("expected re-viewed car at the front, got %+v", items[0])
	}
	seen := map[int]bool{}
	for _, it := range items {
		if seen[it.CarID] {
			t.Fatalf("duplicate car %d in recent views", it.CarID)
		}
		seen[it.CarID] = true
	}
	if len(api.recorded) != 1 || api.recorded[0] != 10 {
		t.Fatalf("expected only signed-in views synced, got %v", api.recorded)
	}
}

func TestRecentViews_MergeRemote(t *testing.T) {
	store := newMemStore()
	api := &stubRecentAPI{cars: []domain.CarListing{
		{ID: 1, BrandName: "Mazda", ModelName: "2", Price: intp(450000), ThumbnailURL: "/img/1.jpg"},
		{ID: 2, BrandName: "Isuzu", ModelName: "D-Max"},
	}}
	rv := NewRecentViews(store, api, func() bool { return true }, zerolog.Nop())
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ctx := context.Background()

	rv.now = func() time.Time { return base }
	rv.Add(ctx, 1, &domain.RecentSnapshot{Title: "Mazda 2"})
	rv.now = func() time.Time { return base.Add(time.Hour) }

	items := rv.List(ctx, true)
	if len(items) != 2 {
		t.Fatalf("expected 2 merged items, got %d", len(items))
	}
	var one domain.RecentItem
	for _, it := range items {
		if it.CarID == 1 {
			one = it
		}
	}
	if !one.ViewedAt.Equal(base.Add(time.Hour)) {
		t.Fatalf("expected newer remote timestamp, got %s", one.ViewedAt)
	}
	if one.Snapshot == nil || one.Snapshot.ThumbnailURL != "/img/1.jpg" || one.Snapshot.Price == nil {
		t.Fatalf("expected merged snapshot, got %+v", one.Snapshot)
	}

	if got := rv.List(ctx, false); len(got) != 2 {
		t.Fatalf("expected merged list saved locally, got %d", len(got))
	}

	rv.Clear(ctx)
	if got := rv.List(ctx, false); len(got) != 0 {
		t.Fatalf("expected empty after clear, got %d", len(got))
	}
}

func TestRecentViews_MalformedStorage(t *testing.T) {
	store := newMemStore()
	_ = store.Set(context.Background(), RecentViewsKey, []byte("[{broken"))
	rv := NewRecentViews(store, &stubRecentAPI{}, nil, zerolog.Nop())
	if got := rv.List(context.Background(), false); len(got) != 0 {
		t.Fatalf("expected empty list, got %d", len(got))
	}
}
