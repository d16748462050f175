package config

import (
	"errors"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("API_KEY_READ_WRITE", "rw-key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTP.Port != defaultPort {
		t.Errorf("expected port %d, got %d", defaultPort, cfg.HTTP.Port)
	}
	if cfg.Engine.QueryTimeout != defaultQueryTimeout {
		t.Errorf("expected query timeout %s, got %s", defaultQueryTimeout, cfg.Engine.QueryTimeout)
	}
	if cfg.Engine.BatchWorkers != defaultBatchWorkers {
		t.Errorf("expected %d batch workers, got %d", defaultBatchWorkers, cfg.Engine.BatchWorkers)
	}
	if cfg.Graph.URI != "" {
		t.Errorf("expected mirror disabled by default, got %q", cfg.Graph.URI)
	}
	if cfg.Auth.ReadWriteKey != "rw-key" {
		t.Errorf("read-write key mismatch: got %q", cfg.Auth.ReadWriteKey)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("API_KEY_READ_WRITE", "rw-key")
	t.Setenv("API_KEY_READ", "r-key")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ENGINE_QUERY_TIMEOUT", "250ms")
	t.Setenv("ENGINE_BATCH_WORKERS", "8")
	t.Setenv("MAP_SEED_PATH", "/etc/routemap/map.yaml")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Engine.QueryTimeout != 250*time.Millisecond {
		t.Errorf("expected 250ms query timeout, got %s", cfg.Engine.QueryTimeout)
	}
	if cfg.Engine.BatchWorkers != 8 {
		t.Errorf("expected 8 batch workers, got %d", cfg.Engine.BatchWorkers)
	}
	if cfg.Map.SeedPath != "/etc/routemap/map.yaml" {
		t.Errorf("seed path mismatch: got %q", cfg.Map.SeedPath)
	}
	if cfg.HTTP.ShutdownTimeout != 3*time.Second {
		t.Errorf("expected 3s shutdown timeout, got %s", cfg.HTTP.ShutdownTimeout)
	}
	if cfg.Auth.ReadKey != "r-key" {
		t.Errorf("read key mismatch: got %q", cfg.Auth.ReadKey)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing read-write key", func(t *testing.T) {
		t.Setenv("API_KEY_READ_WRITE", "")
		if _, err := Load(); !errors.Is(err, ErrMissingAPIKey) {
			t.Fatalf("expected ErrMissingAPIKey, got %v", err)
		}
	})

	t.Run("bad port", func(t *testing.T) {
		t.Setenv("API_KEY_READ_WRITE", "rw-key")
		t.Setenv("SERVER_PORT", "70000")
		if _, err := Load(); err == nil {
			t.Fatal("expected out of range port error")
		}
	})

	t.Run("bad duration", func(t *testing.T) {
		t.Setenv("API_KEY_READ_WRITE", "rw-key")
		t.Setenv("ENGINE_QUERY_TIMEOUT", "soon")
		if _, err := Load(); err == nil {
			t.Fatal("expected duration parse error")
		}
	})
}
