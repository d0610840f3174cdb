package service

import (
	"cmp"
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carjai/marketplace-client/internal/core/domain"
	"github.com/carjai/marketplace-client/internal/core/ports"
)

const (
	RecentViewsKey = "carjai_recent_views"
	MaxRecentViews = 20
)

// RecentViews keeps the recently viewed cars locally and mirrors views to the
// backend while a user is signed in. Remote failures are ignored.
type RecentViews struct {
	store    ports.ClientStorage
	api      ports.RecentViewsAPI
	signedIn func() bool
	now      func() time.Time
	log      zerolog.Logger

	mu sync.Mutex
}

func NewRecentViews(store ports.ClientStorage, api ports.RecentViewsAPI, signedIn func() bool, log zerolog.Logger) *RecentViews {
	return &RecentViews{store: store, api: api, signedIn: signedIn, now: time.Now, log: log}
}

// Add moves carID to the front of the list and records the view remotely.
func (r *RecentViews) Add(ctx context.Context, carID int, snapshot *domain.RecentSnapshot) []domain.RecentItem {
	r.mu.Lock()
	items := r.load(ctx)
	items = slices.DeleteFunc(items, func(it domain.RecentItem) bool { return it.CarID == carID })
	items = append([]domain.RecentItem{{CarID: carID, ViewedAt: r.now().UTC(), Snapshot: snapshot}}, items...)
	if len(items) > MaxRecentViews {
		items = items[:MaxRecentViews]
	}
	r.save(ctx, items)
	r.mu.Unlock()

	if r.signedIn != nil && r.signedIn() {
		if err := r.api.Record(ctx, carID); err != nil {
			r.log.Debug().Err(err).Int("car_id", carID).Msg("recent view sync failed")
		}
	}
	return items
}

// List returns the newest views first. With mergeRemote the backend list is
// folded in by car id, keeping the newer view and filling snapshot gaps.
func (r *RecentViews) List(ctx context.Context, mergeRemote bool) []domain.RecentItem {
	r.mu.Lock()
	local := r.load(ctx)
	r.mu.Unlock()

	if !mergeRemote {
		if len(local) > MaxRecentViews {
			local = local[:MaxRecentViews]
		}
		return local
	}

	remote := r.fetchRemote(ctx)
	merged := mergeRecent(local, remote)

	r.mu.Lock()
	r.save(ctx, merged)
	r.mu.Unlock()
	return merged
}

func (r *RecentViews) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.save(ctx, []domain.RecentItem{})
}

func (r *RecentViews) fetchRemote(ctx context.Context) []domain.RecentItem {
	cars, err := r.api.List(ctx, MaxRecentViews)
	if err != nil {
		r.log.Debug().Err(err).Msg("remote recent views unavailable")
		return nil
	}
	now := r.now().UTC()
	items := make([]domain.RecentItem, 0, len(cars))
	for _, car := range cars {
		items = append(items, domain.RecentItem{
			CarID:    car.ID,
			ViewedAt: now,
			Snapshot: &domain.RecentSnapshot{
				Title:        car.Title(),
				Price:        car.Price,
				ThumbnailURL: car.ThumbnailURL,
			},
		})
	}
	return items
}

func mergeRecent(local, remote []domain.RecentItem) []domain.RecentItem {
	byID := make(map[int]domain.RecentItem, len(local)+len(remote))
	order := make([]int, 0, len(local)+len(remote))
	for _, item := range append(slices.Clone(local), remote...) {
		existing, ok := byID[item.CarID]
		if !ok {
			byID[item.CarID] = item
			order = append(order, item.CarID)
			continue
		}
		newer, older := existing, item
		if item.ViewedAt.After(existing.ViewedAt) {
			newer, older = item, existing
		}
		newer.Snapshot = mergeSnapshot(newer.Snapshot, older.Snapshot)
		byID[item.CarID] = newer
	}

	out := make([]domain.RecentItem, 0, len(order))
	for _, id := range order {
		out = append(out, byID[id])
	}
	slices.SortStableFunc(out, func(a, b domain.RecentItem) int {
		return cmp.Compare(b.ViewedAt.UnixNano(), a.ViewedAt.UnixNano())
	})
	if len(out) > MaxRecentViews {
		out = out[:MaxRecentViews]
	}
	return out
}

func mergeSnapshot(newer, older *domain.RecentSnapshot) *domain.RecentSnapshot {
	if newer == nil && older == nil {
		return nil
	}
	var n, o domain.RecentSnapshot
	if newer != nil {
		n = *newer
	}
	if older != nil {
		o = *older
	}
	out := n
	if out.Title == "" {
		out.Title = o.Title
	}
	if out.Price == nil {
		out.Price = o.Price
	}
	if out.ThumbnailID == nil {
		out.ThumbnailID = o.ThumbnailID
	}
	if out.ThumbnailURL == "" {
		out.ThumbnailURL = o.ThumbnailURL
	}
	return &out
}

func (r *RecentViews) load(ctx context.Context) []domain.RecentItem {
	raw, ok, err := r.store.Get(ctx, RecentViewsKey)
	if err != nil || !ok {
		if err != nil {
			r.log.Debug().Err(err).Msg("recent views load failed")
		}
		return nil
	}
	var items []domain.RecentItem
	if err := json.Unmarshal(raw, &items); err != nil {
		r.log.Debug().Err(err).Msg("discarding malformed recent views")
		return nil
	}
	return slices.DeleteFunc(items, func(it domain.RecentItem) bool { return it.CarID <= 0 })
}

func (r *RecentViews) save(ctx context.Context, items []domain.RecentItem) {
	raw, err := json.Marshal(items)
	if err != nil {
		r.log.Debug().Err(err).Msg("recent views encode failed")
		return
	}
	if err := r.store.Set(ctx, RecentViewsKey, raw); err != nil {
		r.log.Debug().Err(err).Msg("recent views save failed")
	}
}
