package config

import (
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("JWT_SECRET", "testsecret123456789012345678901234")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000, https://example.com")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.MongoDB.Database != "goldData" {
		t.Fatalf("default database = %q, want goldData", cfg.MongoDB.Database)
	}
	if cfg.Server.Port != "3000" {
		t.Fatalf("default port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.JWT.RefreshSecret != cfg.JWT.Secret {
		t.Fatalf("refresh secret should fall back to JWT_SECRET")
	}
	if cfg.JWT.AccessTokenTTL != time.Hour {
		t.Fatalf("access ttl = %v, want 1h", cfg.JWT.AccessTokenTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://example.com" {
		t.Fatalf("unexpected origins: %v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.RateLimit.Enabled || cfg.RateLimit.Burst != 100 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
}

func TestLoadConfig_WithoutMongo(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	t.Setenv("MONGO_URI", "")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.MongoDB.URI != "" {
		t.Fatalf("expected empty mongo uri, got %q", cfg.MongoDB.URI)
	}
}
