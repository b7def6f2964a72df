package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Gateway.Host != "127.0.0.1" {
		t.Fatalf("gateway host=%q", cfg.Gateway.Host)
	}
	if cfg.Gateway.RetryAttempts != 3 {
		t.Fatalf("retry attempts=%d want 3", cfg.Gateway.RetryAttempts)
	}
	if cfg.Gateway.ConnectTimeout != 10*time.Second {
		t.Fatalf("connect timeout=%s", cfg.Gateway.ConnectTimeout)
	}
	if cfg.Gateway.FetchTimeout != 30*time.Second {
		t.Fatalf("fetch timeout=%s", cfg.Gateway.FetchTimeout)
	}
	if cfg.DB.PriceChunkSize != 5000 {
		t.Fatalf("price chunk size=%d", cfg.DB.PriceChunkSize)
	}
	if cfg.Sync.HistoryDuration != "10 Y" {
		t.Fatalf("history duration=%q", cfg.Sync.HistoryDuration)
	}
	if cfg.Cron.PositionsSnapshot != "30 4 * * *" {
		t.Fatalf("snapshot spec=%q", cfg.Cron.PositionsSnapshot)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ST_GATEWAY_PORT", "4002")
	t.Setenv("ST_DB_PATH", "/tmp/alt.db")
	cfg, err := Load("does-not-exist.yaml", true)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if cfg.Gateway.Port != 4002 {
		t.Fatalf("gateway port=%d want 4002", cfg.Gateway.Port)
	}
	if cfg.DB.Path != "/tmp/alt.db" {
		t.Fatalf("db path=%q", cfg.DB.Path)
	}
}
