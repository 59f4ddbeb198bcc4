// Package config loads runtime configuration from pace.yaml and PACE_*
// environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the resolved runtime configuration.
type Config struct {
	// DataDir holds the local cache database and, with the sqlite3
	// driver, the remote store database.
	DataDir string `mapstructure:"data_dir"`

	// CatalogPath points at a CUE catalog file; empty selects the
	// compiled-in default catalog.
	CatalogPath string `mapstructure:"catalog_path"`

	// DailyGoal is the daily XP target applied to fresh learner state.
	DailyGoal int `mapstructure:"daily_goal"`

	// DebounceMS is the remote-sync quiescence window in milliseconds.
	DebounceMS int `mapstructure:"debounce_ms"`

	Remote RemoteConfig `mapstructure:"remote"`
	Serve  ServeConfig  `mapstructure:"serve"`
}

// RemoteConfig selects the remote store backend.
type RemoteConfig struct {
	// Driver is "sqlite3" or "postgres".
	Driver string `mapstructure:"driver"`
	// DSN is the connection string; for sqlite3 it defaults to
	// remote.db inside DataDir.
	DSN string `mapstructure:"dsn"`
}

// ServeConfig configures the pace serve HTTP API.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// Debounce returns the debounce window as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// CachePath is the local cache database file.
func (c *Config) CachePath() string {
	return filepath.Join(c.DataDir, "cache.db")
}

// Load reads configuration from the given file, or searches the working
// directory and ~/.config/pace for pace.yaml when path is empty. A missing
// config file is not an error: defaults and environment apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("data_dir", filepath.Join(home, ".pace"))
	v.SetDefault("catalog_path", "")
	v.SetDefault("daily_goal", 50)
	v.SetDefault("debounce_ms", 2000)
	v.SetDefault("remote.driver", "sqlite3")
	v.SetDefault("remote.dsn", "")
	v.SetDefault("serve.addr", ":8080")

	v.SetEnvPrefix("PACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("pace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(filepath.Join(home, ".config", "pace"))
		if err := v.ReadInConfig(); err != nil {
			// Defaults apply when no config file exists.
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.Remote.Driver != "sqlite3" && cfg.Remote.Driver != "postgres" {
		return nil, fmt.Errorf("unsupported remote driver %q (sqlite3 or postgres)", cfg.Remote.Driver)
	}
	if cfg.Remote.DSN == "" {
		if cfg.Remote.Driver == "postgres" {
			return nil, fmt.Errorf("remote driver postgres requires a DSN")
		}
		cfg.Remote.DSN = filepath.Join(cfg.DataDir, "remote.db")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	return &cfg, nil
}
