package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFromEnvPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
	  "fulfillment": {"host": "0.0.0.0", "port": 8090, "access_token": "file-token"},
	  "queue": {"backend": "memory"},
	  "stores": {"catalog_path": "stores.yaml"},
	  "notifications": {"enabled": false},
	  "logging": {"format": "json", "level": "debug", "add_source": true}
	}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("QWATCH_CONFIG", path)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Fulfillment.Port != 8090 {
		t.Fatalf("fulfillment.port = %d, want 8090", cfg.Fulfillment.Port)
	}
	if cfg.Queue.Backend != QueueBackendMemory {
		t.Fatalf("queue.backend = %q, want %q", cfg.Queue.Backend, QueueBackendMemory)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("logging.format = %q, want %q", cfg.Logging.Format, "json")
	}
	if !cfg.Logging.AddSource {
		t.Fatal("logging.add_source = false, want true")
	}
}

func TestLoadConfigEnvOverridesToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"fulfillment": {"port": 8090, "access_token": "file-token"}, "queue": {"backend": "memory"}}`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	t.Setenv("QWATCH_CONFIG", path)
	t.Setenv("QWATCH_ACCESS_TOKEN", "env-token")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Fulfillment.AccessToken != "env-token" {
		t.Fatalf("access token = %q, want env override", cfg.Fulfillment.AccessToken)
	}
}

func TestLoadConfigInvalidEnvPath(t *testing.T) {
	t.Setenv("QWATCH_CONFIG", filepath.Join(t.TempDir(), "missing.json"))

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for missing config path")
	}
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{Queue: QueueConfig{Backend: "redis"}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown queue backend")
	}
}

func TestValidateRequiresNotificationEndpoint(t *testing.T) {
	cfg := &Config{Notifications: NotificationsConfig{Enabled: true}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for enabled notifications without endpoint")
	}
}
