// Package config loads and validates WebStash configuration.
//
// Precedence, lowest to highest:
//  1. Built-in defaults
//  2. Config file (~/.webstash/config.yaml or --config)
//  3. Environment variables (WEBSTASH_*)
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete WebStash configuration.
type Config struct {
	Version int           `yaml:"version" json:"version"`
	Profile ProfileConfig `yaml:"profile" json:"profile"`
	Sources SourcesConfig `yaml:"sources" json:"sources"`
	History HistoryConfig `yaml:"history" json:"history"`
	Search  SearchConfig  `yaml:"search" json:"search"`
	Context ContextConfig `yaml:"context" json:"context"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// ProfileConfig locates the browser profile to index.
type ProfileConfig struct {
	// Path is the browser profile directory holding the Bookmarks file,
	// History database, and ReadingList file. Empty means auto-detect.
	Path string `yaml:"path" json:"path"`
}

// SourcesConfig enables or disables individual sources.
// Disabled sources are still searchable in the index but are filtered out
// of assembled context payloads.
type SourcesConfig struct {
	Bookmarks   bool `yaml:"bookmarks" json:"bookmarks"`
	History     bool `yaml:"history" json:"history"`
	ReadingList bool `yaml:"reading_list" json:"reading_list"`
}

// HistoryConfig bounds the history range query.
type HistoryConfig struct {
	// RangeDays is how far back the history query reaches.
	RangeDays int `yaml:"range_days" json:"range_days"`
	// MaxEntries caps the number of history rows fetched per rebuild.
	MaxEntries int `yaml:"max_entries" json:"max_entries"`
}

// SearchConfig configures query execution.
type SearchConfig struct {
	// DefaultLimit is the result count when the caller passes none.
	DefaultLimit int `yaml:"default_limit" json:"default_limit"`
	// MaxLimit is the maximum allowed result count.
	MaxLimit int `yaml:"max_limit" json:"max_limit"`
}

// ContextConfig bounds the assembled context payload.
type ContextConfig struct {
	// MaxItems is the maximum number of results forwarded to generation.
	MaxItems int `yaml:"max_items" json:"max_items"`
}

// StorageConfig configures the key-value persistence backend.
type StorageConfig struct {
	// Path is the SQLite database file. Empty means in-memory only.
	Path string `yaml:"path" json:"path"`
	// ReadTimeout bounds storage reads during lazy initialization.
	ReadTimeout Duration `yaml:"read_timeout" json:"read_timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level" json:"level"`
}

// WatchConfig configures the profile file watcher.
type WatchConfig struct {
	// Debounce is the window for coalescing file events before a rebuild.
	Debounce Duration `yaml:"debounce" json:"debounce"`
}

// Default returns the built-in default configuration.
func Default() *Config {
	return &Config{
		Version: 1,
		Sources: SourcesConfig{
			Bookmarks:   true,
			History:     true,
			ReadingList: true,
		},
		History: HistoryConfig{
			RangeDays:  90,
			MaxEntries: 5000,
		},
		Search: SearchConfig{
			DefaultLimit: 10,
			MaxLimit:     100,
		},
		Context: ContextConfig{
			MaxItems: 8,
		},
		Storage: StorageConfig{
			Path:        DefaultStoragePath(),
			ReadTimeout: Duration(2 * time.Second),
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Watch: WatchConfig{
			Debounce: Duration(2 * time.Second),
		},
	}
}

// DefaultStoragePath returns ~/.webstash/webstash.db, falling back to the
// temp directory when the home directory is unavailable.
func DefaultStoragePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".webstash", "webstash.db")
	}
	return filepath.Join(home, ".webstash", "webstash.db")
}

// DefaultConfigPath returns ~/.webstash/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".webstash", "config.yaml")
	}
	return filepath.Join(home, ".webstash", "config.yaml")
}

// Load reads configuration from path, applying defaults and env overrides.
// A missing file is not an error: defaults plus env are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies WEBSTASH_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("WEBSTASH_PROFILE_PATH"); v != "" {
		cfg.Profile.Path = v
	}
	if v := os.Getenv("WEBSTASH_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("WEBSTASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("WEBSTASH_MAX_CONTEXT_ITEMS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Context.MaxItems = n
		}
	}
	if v := os.Getenv("WEBSTASH_HISTORY_RANGE_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.History.RangeDays = n
		}
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Search.DefaultLimit <= 0 {
		return fmt.Errorf("search.default_limit must be positive, got %d", c.Search.DefaultLimit)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return fmt.Errorf("search.max_limit (%d) must be >= search.default_limit (%d)",
			c.Search.MaxLimit, c.Search.DefaultLimit)
	}
	if c.Context.MaxItems <= 0 {
		return fmt.Errorf("context.max_items must be positive, got %d", c.Context.MaxItems)
	}
	if c.History.RangeDays <= 0 {
		return fmt.Errorf("history.range_days must be positive, got %d", c.History.RangeDays)
	}
	if c.History.MaxEntries <= 0 {
		return fmt.Errorf("history.max_entries must be positive, got %d", c.History.MaxEntries)
	}
	if c.Storage.ReadTimeout <= 0 {
		return fmt.Errorf("storage.read_timeout must be positive, got %s", c.Storage.ReadTimeout)
	}
	if c.Watch.Debounce <= 0 {
		return fmt.Errorf("watch.debounce must be positive, got %s", c.Watch.Debounce)
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
