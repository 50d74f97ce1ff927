// Package config loads mesh engine configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment
// variables. GitHub credentials are required by the service; Slack and issue
// filing are optional and off by default.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	HTTPPort    int    `envconfig:"HTTP_PORT" default:"8080"` // health + metrics

	// GitHub — personal access token mode
	GitHubToken string `envconfig:"GITHUB_TOKEN"`
	GitHubOwner string `envconfig:"GITHUB_OWNER"`

	// GitHub App mode (overrides token mode when fully configured)
	GitHubAppID          int64  `envconfig:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `envconfig:"GITHUB_INSTALLATION_ID"`
	GitHubPrivateKeyPath string `envconfig:"GITHUB_PRIVATE_KEY_PATH"`

	// Analyzer
	ScanInterval     time.Duration `envconfig:"SCAN_INTERVAL" default:"1h"`
	FetchConcurrency int           `envconfig:"FETCH_CONCURRENCY" default:"5"`

	// RecentCommitLimit bounds the commit timestamps used for the strategic
	// value recency term; CommitFetchLimit bounds the count used for the
	// topology weight.
	RecentCommitLimit int `envconfig:"RECENT_COMMIT_LIMIT" default:"10"`
	CommitFetchLimit  int `envconfig:"COMMIT_FETCH_LIMIT" default:"100"`

	// ExecuteActions gates the write side: when false, recommendations are
	// produced and persisted but no issues are filed.
	ExecuteActions bool `envconfig:"EXECUTE_ACTIONS" default:"false"`

	// Persistence
	SnapshotPath string `envconfig:"SNAPSHOT_PATH" default:"mesh_map.json"`
	HistoryPath  string `envconfig:"HISTORY_PATH" default:"mesh_history.db"`
	RulesPath    string `envconfig:"RULES_PATH"` // optional YAML rule overrides

	// API server
	APIListenAddr string `envconfig:"API_LISTEN_ADDR" default:":8090"`

	// Slack (optional run-summary notification)
	SlackBotToken string `envconfig:"MESH_SLACK_BOT_TOKEN"`
	SlackChannel  string `envconfig:"MESH_SLACK_CHANNEL"`
}

// GitHubAppEnabled returns true if GitHub App credentials are configured.
func (c *Config) GitHubAppEnabled() bool {
	return c.GitHubAppID > 0 && c.GitHubInstallationID > 0 && c.GitHubPrivateKeyPath != ""
}

// GitHubEnabled returns true if any GitHub credential mode is usable.
// Token-less mode still works for public repositories.
func (c *Config) GitHubEnabled() bool {
	return c.GitHubOwner != ""
}

// SlackEnabled returns true if Slack notification is configured.
func (c *Config) SlackEnabled() bool {
	return c.SlackBotToken != "" && c.SlackChannel != ""
}

// Validate checks the invariants the analyzer relies on.
func (c *Config) Validate() error {
	if c.GitHubOwner == "" {
		return fmt.Errorf("GITHUB_OWNER is required")
	}
	if c.ScanInterval <= 0 {
		return fmt.Errorf("SCAN_INTERVAL must be positive")
	}
	if c.FetchConcurrency < 1 {
		return fmt.Errorf("FETCH_CONCURRENCY must be at least 1")
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &cfg, nil
}

// LoadWithPrefix reads configuration with a prefix (used in tests).
func LoadWithPrefix(prefix string) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return nil, fmt.Errorf("loading config with prefix %s: %w", prefix, err)
	}
	return &cfg, nil
}
