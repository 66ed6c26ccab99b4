package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	envAccessToken      = "QWATCH_ACCESS_TOKEN"
	envNotifyToken      = "QWATCH_NOTIFY_TOKEN"
	envStoreCatalogPath = "QWATCH_STORE_CATALOG"
)

// Config is the root runtime configuration loaded from config.json.
type Config struct {
	Fulfillment   FulfillmentConfig   `json:"fulfillment"`
	Queue         QueueConfig         `json:"queue"`
	Stores        StoresConfig        `json:"stores,omitempty"`
	Notifications NotificationsConfig `json:"notifications,omitempty"`
	Logging       LoggingConfig       `json:"logging,omitempty"`
}

// LoggingConfig controls structured log output format and verbosity.
type LoggingConfig struct {
	Format    string `json:"format,omitempty"`
	Level     string `json:"level,omitempty"`
	AddSource bool   `json:"add_source,omitempty"`
}

// FulfillmentConfig configures the webhook HTTP endpoint.
type FulfillmentConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
	// AccessToken overrides the token stored in global settings when non-empty.
	AccessToken string `json:"access_token,omitempty"`
}

// QueueConfig selects the queue storage backend.
type QueueConfig struct {
	// Backend is "memory" or "settings".
	Backend string `json:"backend"`
}

// StoresConfig points at the store catalog file.
type StoresConfig struct {
	CatalogPath string `json:"catalog_path,omitempty"`
}

// NotificationsConfig configures the push prompt delivery endpoint.
type NotificationsConfig struct {
	Enabled        bool   `json:"enabled"`
	Endpoint       string `json:"endpoint,omitempty"`
	Token          string `json:"token,omitempty"`
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

const (
	// QueueBackendMemory keeps lines in process memory.
	QueueBackendMemory = "memory"
	// QueueBackendSettings persists lines through the settings provider.
	QueueBackendSettings = "settings"
)

// Validate rejects configurations the service cannot start with.
func (c *Config) Validate() error {
	switch c.Queue.Backend {
	case "", QueueBackendMemory, QueueBackendSettings:
	default:
		return fmt.Errorf("unsupported queue backend %q", c.Queue.Backend)
	}
	if c.Fulfillment.Port < 0 || c.Fulfillment.Port > 65535 {
		return fmt.Errorf("fulfillment port %d out of range", c.Fulfillment.Port)
	}
	if c.Notifications.Enabled && strings.TrimSpace(c.Notifications.Endpoint) == "" {
		return fmt.Errorf("notifications.endpoint is required when notifications are enabled")
	}
	return nil
}

// LoadConfig resolves config.json, unmarshals it, and applies environment overrides.
func LoadConfig() (*Config, error) {
	configPath, err := findConfigPath()
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// applyEnvOverrides injects selected env-driven settings on top of file config.
func applyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}

	if token := strings.TrimSpace(os.Getenv(envAccessToken)); token != "" {
		cfg.Fulfillment.AccessToken = token
	}
	if token := strings.TrimSpace(os.Getenv(envNotifyToken)); token != "" {
		cfg.Notifications.Token = token
	}
	if path := strings.TrimSpace(os.Getenv(envStoreCatalogPath)); path != "" {
		cfg.Stores.CatalogPath = path
	}
}

// findConfigPath resolves the active config file location.
//
// Precedence is QWATCH_CONFIG first, then cwd-local fallback paths.
func findConfigPath() (string, error) {
	if value := strings.TrimSpace(os.Getenv("QWATCH_CONFIG")); value != "" {
		if info, err := os.Stat(value); err == nil && !info.IsDir() {
			return value, nil
		}
		return "", fmt.Errorf("QWATCH_CONFIG does not point to a file: %s", value)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get current working directory: %w", err)
	}

	candidates := []string{
		filepath.Join(cwd, "config.json"),
		filepath.Join(cwd, "config", "config.json"),
	}

	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("config.json not found (checked %s and %s)", candidates[0], candidates[1])
}
