package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// Cars wraps catalog search and listing detail.
type Cars struct {
	c *Client
}

func (c *Client) Cars() *Cars {
	return &Cars{c: c}
}

func searchQuery(s domain.CarSearch) url.Values {
	q := url.Values{}
	set := func(k string, v int) {
		if v > 0 {
			q.Set(k, strconv.Itoa(v))
		}
	}
	if s.Query != "" {
		q.Set("q", s.Query)
	}
	set("page", s.Page)
	set("limit", s.Limit)
	set("minPrice", s.MinPrice)
	set("maxPrice", s.MaxPrice)
	set("minYear", s.MinYear)
	set("maxYear", s.MaxYear)
	if s.Province != "" {
		q.Set("province", s.Province)
	}
	set("bodyTypeId", s.BodyTypeID)
	set("fuelTypeId", s.FuelTypeID)
	return q
}

func (a *Cars) Search(ctx context.Context, s domain.CarSearch) (*domain.CarPage, error) {
	var page domain.CarPage
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: "/api/cars/search", query: searchQuery(s)}, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (a *Cars) Get(ctx context.Context, carID int) (*domain.CarDetail, error) {
	var detail domain.CarDetail
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("/api/cars/%d", carID)}, &detail); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (a *Cars) Mine(ctx context.Context) ([]domain.CarListing, error) {
	var cars []domain.CarListing
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: "/api/cars/my"}, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// Favorites wraps /api/favorites.
type Favorites struct {
	c *Client
}

func (c *Client) Favorites() *Favorites {
	return &Favorites{c: c}
}

func (f *Favorites) Add(ctx context.Context, carID int) error {
	_, err := f.c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("/api/favorites/%d", carID)}, nil)
	return err
}

func (f *Favorites) Remove(ctx context.Context, carID int) error {
	_, err := f.c.do(ctx, request{method: http.MethodDelete, path: fmt.Sprintf("/api/favorites/%d", carID)}, nil)
	return err
}

func (f *Favorites) List(ctx context.Context) ([]domain.CarListing, error) {
	var cars []domain.CarListing
	if _, err := f.c.do(ctx, request{method: http.MethodGet, path: "/api/favorites/my"}, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

// RecentViews wraps /api/recent-views.
type RecentViews struct {
	c *Client
}

func (c *Client) RecentViews() *RecentViews {
	return &RecentViews{c: c}
}

func (r *RecentViews) List(ctx context.Context, limit int) ([]domain.CarListing, error) {
	var cars []domain.CarListing
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if _, err := r.c.do(ctx, request{method: http.MethodGet, path: "/api/recent-views", query: q}, &cars); err != nil {
		return nil, err
	}
	return cars, nil
}

func (r *RecentViews) Record(ctx context.Context, carID int) error {
	body := map[string]int{"car_id": carID}
	_, err := r.c.do(ctx, request{method: http.MethodPost, path: "/api/recent-views", json: body}, nil)
	return err
}
