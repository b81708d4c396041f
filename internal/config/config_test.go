package config

import (
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg := FromEnv()
	if cfg.Addr != ":8080" {
		t.Fatalf("Addr = %q", cfg.Addr)
	}
	if cfg.MaxRecDefault != 100 {
		t.Fatalf("MaxRecDefault = %d", cfg.MaxRecDefault)
	}
	if cfg.MaxRecLimit != 10000 {
		t.Fatalf("MaxRecLimit = %d", cfg.MaxRecLimit)
	}
	if cfg.SkyRes != 3 {
		t.Fatalf("SkyRes = %d", cfg.SkyRes)
	}
	if cfg.Cache.Enabled || cfg.Invalidation.Enabled {
		t.Fatalf("cache and invalidation must default off")
	}
	if cfg.Cache.TTL != 60*time.Second {
		t.Fatalf("Cache.TTL = %v", cfg.Cache.TTL)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("SKY_RES", "5")
	t.Setenv("MAXREC_DEFAULT", "50")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("INVALIDATION_ENABLED", "yes")

	cfg := FromEnv()
	if cfg.Addr != ":9999" || cfg.SkyRes != 5 || cfg.MaxRecDefault != 50 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if !cfg.Cache.Enabled || cfg.Cache.TTL != 5*time.Minute {
		t.Fatalf("cache config not applied: %+v", cfg.Cache)
	}
	if !cfg.Invalidation.Enabled {
		t.Fatalf("invalidation should be enabled")
	}
}

func TestSkyResClamped(t *testing.T) {
	t.Setenv("SKY_RES", "99")
	if got := FromEnv().SkyRes; got != 15 {
		t.Fatalf("SkyRes = %d, want 15", got)
	}
	t.Setenv("SKY_RES", "-1")
	if got := FromEnv().SkyRes; got != 0 {
		t.Fatalf("SkyRes = %d, want 0", got)
	}
}

func TestMaxRecLimitFloorsAtDefault(t *testing.T) {
	t.Setenv("MAXREC_DEFAULT", "500")
	t.Setenv("MAXREC_LIMIT", "10")
	cfg := FromEnv()
	if cfg.MaxRecLimit != 500 {
		t.Fatalf("MaxRecLimit = %d, want 500", cfg.MaxRecLimit)
	}
}
