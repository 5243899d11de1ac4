package main

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "3000" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.CacheBackend != "memory" || cfg.CacheMaxEntries != 100 {
		t.Fatalf("unexpected cache config: %+v", cfg)
	}
	if cfg.EntityCacheTTL != 600*time.Second {
		t.Fatalf("unexpected entity ttl %s", cfg.EntityCacheTTL)
	}
	if cfg.PageSize != 10 || cfg.FanoutLimit != 10 || !cfg.CatalogDedup {
		t.Fatalf("unexpected catalog config: %+v", cfg)
	}
	if cfg.UpstreamMaxRetries != 0 {
		t.Fatalf("retries must be off by default, got %d", cfg.UpstreamMaxRetries)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("ENTITY_CACHE_TTL", "1m")
	t.Setenv("CATALOG_DEDUP", "false")
	t.Setenv("SWAPI_BASE_URL", "http://localhost:8000/api")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Port != "9090" || cfg.CacheBackend != "redis" {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if cfg.EntityCacheTTL != time.Minute || cfg.CatalogDedup {
		t.Fatalf("env not applied: %+v", cfg)
	}
	if got := cfg.swapiConfig().BaseURL; got != "http://localhost:8000/api" {
		t.Fatalf("unexpected base url %q", got)
	}
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memcached")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestLoadConfigRejectsBadDuration(t *testing.T) {
	t.Setenv("ENTITY_CACHE_TTL", "ten minutes")
	if _, err := LoadConfig(); err == nil {
		t.Fatalf("expected parse error")
	}
}
