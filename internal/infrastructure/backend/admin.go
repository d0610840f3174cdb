package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/carjai/marketplace-client/internal/core/domain"
)

// Admin wraps the admin console endpoints: user and car moderation,
// reports, market prices and dashboard statistics.
type Admin struct {
	c *Client
}

func (c *Client) Admin() *Admin {
	return &Admin{c: c}
}

// listData accepts both a bare array and {items, total} for list endpoints
// that have returned either shape.
func listData[T any](raw json.RawMessage, key string) ([]T, int, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []T{}, 0, nil
	}
	var items []T
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, 0, decodeError(http.StatusOK, err)
		}
		return items, len(items), nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, 0, decodeError(http.StatusOK, err)
	}
	if v, ok := obj[key]; ok && string(v) != "null" {
		if err := json.Unmarshal(v, &items); err != nil {
			return nil, 0, decodeError(http.StatusOK, err)
		}
	}
	total := len(items)
	if v, ok := obj["total"]; ok {
		_ = json.Unmarshal(v, &total)
	}
	if items == nil {
		items = []T{}
	}
	return items, total, nil
}

func (a *Admin) Users(ctx context.Context) ([]domain.ManagedUser, int, error) {
	var raw json.RawMessage
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: a.c.admin("/users")}, &raw); err != nil {
		return nil, 0, err
	}
	return listData[domain.ManagedUser](raw, "users")
}

func (a *Admin) BanUser(ctx context.Context, userID int) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: a.c.admin(fmt.Sprintf("/users/%d/ban", userID))}, nil)
	return err
}

func (a *Admin) Cars(ctx context.Context) ([]domain.ManagedCar, int, error) {
	var raw json.RawMessage
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: a.c.admin("/cars")}, &raw); err != nil {
		return nil, 0, err
	}
	return listData[domain.ManagedCar](raw, "cars")
}

func (a *Admin) RemoveCar(ctx context.Context, carID int) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: a.c.admin(fmt.Sprintf("/cars/%d/remove", carID))}, nil)
	return err
}

// ReportFilter narrows the moderation queue; empty fields are ignored.
type ReportFilter struct {
	Type   string
	Status string
}

func (a *Admin) Reports(ctx context.Context, f ReportFilter) ([]domain.Report, int, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Status != "" {
		q.Set("status", f.Status)
	}
	var raw json.RawMessage
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: a.c.admin("/reports"), query: q}, &raw); err != nil {
		return nil, 0, err
	}
	return listData[domain.Report](raw, "reports")
}

func (a *Admin) ResolveReport(ctx context.Context, reportID int) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: a.c.admin(fmt.Sprintf("/reports/%d/resolve", reportID))}, nil)
	return err
}

func (a *Admin) DismissReport(ctx context.Context, reportID int) error {
	_, err := a.c.do(ctx, request{method: http.MethodPost, path: a.c.admin(fmt.Sprintf("/reports/%d/dismiss", reportID))}, nil)
	return err
}

func (a *Admin) MarketPrices(ctx context.Context) ([]domain.MarketPrice, error) {
	var raw json.RawMessage
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: a.c.admin("/market-price/data")}, &raw); err != nil {
		return nil, err
	}
	prices, _, err := listData[domain.MarketPrice](raw, "prices")
	return prices, err
}

// ImportMarketPrices uploads a price list PDF.
func (a *Admin) ImportMarketPrices(ctx context.Context, filename string, pdf io.Reader) (*domain.MarketPriceImport, error) {
	var out domain.MarketPriceImport
	_, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   a.c.admin("/market-price/upload"),
		file:   &filePart{field: "marketPricePdf", filename: filename, content: pdf},
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *Admin) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if _, err := a.c.do(ctx, request{method: http.MethodGet, path: a.c.admin("/dashboard/stats")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
