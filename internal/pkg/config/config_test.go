package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"CARJAI_STATE_DIR": "/tmp/carjai-test",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "http://localhost:8080" || cfg.AdminPrefix != "/admin" || cfg.Storage != "file" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.HTTPTimeout != 0 {
		t.Fatalf("no request timeout by default, got %v", cfg.HTTPTimeout)
	}
	if cfg.ForeignSignoutTimeout != 5*time.Second {
		t.Fatalf("unexpected signout timeout %v", cfg.ForeignSignoutTimeout)
	}
	if len(cfg.ProtectedRoutes) != 4 || cfg.ProtectedRoutes[0] != "/settings" {
		t.Fatalf("unexpected protected routes %v", cfg.ProtectedRoutes)
	}
	if cfg.Mock.AdminUsername != "admin" || cfg.Mongo.Database != "carjai_client" {
		t.Fatalf("unexpected nested defaults %+v %+v", cfg.Mock, cfg.Mongo)
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"CARJAI_API_URL":          "https://api.example.test",
		"CARJAI_STORAGE":          "redis",
		"CARJAI_HTTP_TIMEOUT":     "15s",
		"CARJAI_PROTECTED_ROUTES": "/garage,/sell",
		"REDIS_DB":                "3",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.APIURL != "https://api.example.test" || cfg.Storage != "redis" || cfg.Redis.DB != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.HTTPTimeout != 15*time.Second {
		t.Fatalf("unexpected timeout %v", cfg.HTTPTimeout)
	}
	if len(cfg.ProtectedRoutes) != 2 || cfg.ProtectedRoutes[1] != "/sell" {
		t.Fatalf("unexpected routes %v", cfg.ProtectedRoutes)
	}
	if cfg.StateDir == "" {
		t.Fatalf("state dir must default when unset")
	}
}

func TestLoad_Malformed(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"CARJAI_HTTP_TIMEOUT": "soon",
	}))
	if err == nil {
		t.Fatalf("expected error for malformed duration")
	}
}
