package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(prev) })
}

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, k := range []string{"PORT", "DATABASE_URL", "EVENT_BROKER", "CACHE_TTL", "ENABLE_LEGACY_BALANCE_OVERWRITE", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
	}

	cfg := Load(Defaults{Port: "8083", DatabaseURL: "postgres://localhost/accounts"})
	if cfg.Port != "8083" || cfg.DatabaseURL != "postgres://localhost/accounts" {
		t.Errorf("service defaults not applied: %+v", cfg)
	}
	if cfg.EventBroker != "redis" {
		t.Errorf("expected redis broker by default, got %q", cfg.EventBroker)
	}
	if cfg.CacheTTL != 10*time.Minute {
		t.Errorf("expected 10m cache TTL, got %v", cfg.CacheTTL)
	}
	if !cfg.EnableLegacyBalanceOverwrite {
		t.Error("expected legacy balance overwrite enabled by default")
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Errorf("unexpected kafka brokers %v", cfg.KafkaBrokers)
	}
}

func TestLoadEnvironmentOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PORT", "9000")
	t.Setenv("EVENT_BROKER", "NATS")
	t.Setenv("CACHE_TTL", "30s")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ENABLE_LEGACY_BALANCE_OVERWRITE", "false")

	cfg := Load(Defaults{Port: "8083"})
	if cfg.Port != "9000" {
		t.Errorf("expected port override, got %q", cfg.Port)
	}
	if cfg.EventBroker != "nats" {
		t.Errorf("expected lowercased broker, got %q", cfg.EventBroker)
	}
	if cfg.CacheTTL != 30*time.Second || cfg.RedisDB != 2 {
		t.Errorf("unexpected ttl/db: %v %d", cfg.CacheTTL, cfg.RedisDB)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Errorf("unexpected kafka brokers %v", cfg.KafkaBrokers)
	}
	if cfg.EnableLegacyBalanceOverwrite {
		t.Error("expected legacy overwrite disabled")
	}
}

func TestLoadDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	// register restoration, then unset so godotenv is allowed to fill it
	t.Setenv("REDIS_ADDR", "")
	os.Unsetenv("REDIS_ADDR")
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("REDIS_ADDR=cache:6380\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg := Load(Defaults{})
	if cfg.RedisAddr != "cache:6380" {
		t.Errorf("expected REDIS_ADDR from .env, got %q", cfg.RedisAddr)
	}
}
