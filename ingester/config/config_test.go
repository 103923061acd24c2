package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("GENERATOR_URL", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := NewConfig()

	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Redis.Host != "localhost" || cfg.Redis.Port != 6379 {
		t.Errorf("Redis = %s:%d, want localhost:6379", cfg.Redis.Host, cfg.Redis.Port)
	}
	if cfg.Redis.TTL != 30*time.Second {
		t.Errorf("Redis.TTL = %v, want 30s", cfg.Redis.TTL)
	}
	if cfg.ETL.GeneratorURL != "http://localhost:9001" {
		t.Errorf("ETL.GeneratorURL = %q", cfg.ETL.GeneratorURL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
}

func TestNewConfig_Env(t *testing.T) {
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("GENERATOR_URL", "http://generator:9001")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := NewConfig()

	if cfg.Redis.Host != "redis" || cfg.Redis.Port != 6380 {
		t.Errorf("Redis = %s:%d, want redis:6380", cfg.Redis.Host, cfg.Redis.Port)
	}
	if cfg.ETL.GeneratorURL != "http://generator:9001" {
		t.Errorf("ETL.GeneratorURL = %q", cfg.ETL.GeneratorURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestNewConfig_BadPortKeepsDefault(t *testing.T) {
	t.Setenv("REDIS_PORT", "not-a-port")

	if got := NewConfig().Redis.Port; got != 6379 {
		t.Errorf("Redis.Port = %d, want 6379", got)
	}
}
