// Package config resolves the effective client configuration: a runtime
// config file for the CLI, boot-time query parameters, and protocol
// overrides arriving during the session.
package config

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
)

// Config is the runtime configuration of the livelink client.
type Config struct {
	// ServerURL is the websocket endpoint of the build backend. Query
	// parameters on this URL carry the boot-time protocol options.
	ServerURL string `json:"server_url"`

	// WatchPaths are local files or directories whose changes force a full
	// reload, independent of backend notifications.
	WatchPaths []string `json:"watch_paths,omitempty"`

	// HotApplyCommand is run to apply a hot update. A non-zero exit falls
	// back to the reload command.
	HotApplyCommand []string `json:"hot_apply_command,omitempty"`

	// ReloadCommand is run to force a full reload.
	ReloadCommand []string `json:"reload_command,omitempty"`

	// AuthSecret, when set, is used to mint a bearer token for the
	// websocket handshake.
	AuthSecret string `json:"auth_secret,omitempty"`

	// LogLevel sets the initial logging verbosity. The backend may retune
	// it at runtime.
	LogLevel string `json:"log_level"`

	// LogFile mirrors structured logs to a file when set.
	LogFile string `json:"log_file,omitempty"`

	// ReportFile receives status events as NDJSON. Empty means stdout.
	ReportFile string `json:"report_file,omitempty"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "ws://127.0.0.1:8080/live",
		LogLevel:  "info",
	}
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, it returns DefaultConfig.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// applyDefaults fills in default values for any fields that are zero/empty.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.ServerURL == "" {
		c.ServerURL = defaults.ServerURL
	}
	if c.LogLevel == "" {
		c.LogLevel = defaults.LogLevel
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil {
		return fmt.Errorf("invalid server_url: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
		// Valid
	default:
		return fmt.Errorf("invalid server_url scheme: %s (must be ws or wss)", u.Scheme)
	}

	switch c.LogLevel {
	case "none", "error", "warn", "info", "log", "verbose", "debug":
		// Valid
	default:
		return fmt.Errorf("invalid log_level: %s", c.LogLevel)
	}

	return nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
