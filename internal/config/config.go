// ABOUTME: Lift configuration management with backend selection.
// ABOUTME: Loads config.json through viper with LIFT_* environment overrides.

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/harperreed/lift/internal/autoreg"
	"github.com/harperreed/lift/internal/charm"
	"github.com/harperreed/lift/internal/storage"
	"github.com/spf13/viper"
)

// Defaults applied when neither the config file nor the environment sets a key.
const (
	DefaultBackend       = "sqlite"
	DefaultTargetRPE     = 8.0
	DefaultRestSeconds   = 120
	DefaultHistoryWindow = 10
	DefaultLogLevel      = "info"
	envPrefix            = "LIFT"
	configFileName       = "config.json"
	sqliteFileName       = "lift.db"
)

// Config stores lift tool configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "charm".
	Backend string `json:"backend,omitempty" mapstructure:"backend"`

	// DataDir is the root directory for data storage. SQLite puts lift.db here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/lift.
	DataDir string `json:"data_dir,omitempty" mapstructure:"data_dir"`

	// CharmHost overrides the Charm server for the charm backend.
	CharmHost string `json:"charm_host,omitempty" mapstructure:"charm_host"`

	TargetRPE          float64 `json:"target_rpe,omitempty" mapstructure:"target_rpe"`
	DefaultRestSeconds int     `json:"default_rest_seconds,omitempty" mapstructure:"default_rest_seconds"`
	HistoryWindow      int     `json:"history_window,omitempty" mapstructure:"history_window"`

	LogLevel string `json:"log_level,omitempty" mapstructure:"log_level"`
	// LogFile is where the rotating log is written. Defaults to DataDir/lift.log.
	LogFile string `json:"log_file,omitempty" mapstructure:"log_file"`

	path string
}

// Default returns a config with every default applied.
func Default() *Config {
	return &Config{
		Backend:            DefaultBackend,
		TargetRPE:          DefaultTargetRPE,
		DefaultRestSeconds: DefaultRestSeconds,
		HistoryWindow:      DefaultHistoryWindow,
		LogLevel:           DefaultLogLevel,
		path:               GetConfigPath(),
	}
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return DefaultBackend
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogFile returns the log file path with ~ expanded.
func (c *Config) GetLogFile() string {
	if c.LogFile == "" {
		return filepath.Join(c.GetDataDir(), "lift.log")
	}
	return ExpandPath(c.LogFile)
}

// Path returns the file this config was loaded from and will be saved to.
func (c *Config) Path() string {
	if c.path == "" {
		return GetConfigPath()
	}
	return c.path
}

// Validate checks that the loaded values are usable.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case "sqlite", "charm":
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if c.TargetRPE <= 0 || c.TargetRPE > 10 {
		return fmt.Errorf("target_rpe must be in (0, 10], got %g", c.TargetRPE)
	}
	if c.DefaultRestSeconds < 0 {
		return fmt.Errorf("default_rest_seconds must not be negative, got %d", c.DefaultRestSeconds)
	}
	if c.HistoryWindow < autoreg.WindowSize {
		return fmt.Errorf("history_window must be at least %d, got %d", autoreg.WindowSize, c.HistoryWindow)
	}
	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	return c.OpenBackend(c.GetBackend())
}

// OpenBackend opens the named backend with this config's settings.
func (c *Config) OpenBackend(backend string) (storage.Repository, error) {
	switch backend {
	case "sqlite":
		return storage.Open(filepath.Join(c.GetDataDir(), sqliteFileName))
	case "charm":
		return charm.Open(charm.DefaultDBName, c.CharmHost)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "lift", configFileName)
}

// Load reads config from the default path.
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom reads config from path, or the default path when empty.
// A missing file yields defaults; LIFT_* environment variables override both.
func LoadFrom(path string) (*Config, error) {
	if path == "" {
		path = GetConfigPath()
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	v.SetDefault("backend", DefaultBackend)
	v.SetDefault("data_dir", "")
	v.SetDefault("charm_host", "")
	v.SetDefault("target_rpe", DefaultTargetRPE)
	v.SetDefault("default_rest_seconds", DefaultRestSeconds)
	v.SetDefault("history_window", DefaultHistoryWindow)
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := c.Path()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
