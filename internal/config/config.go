// Package config loads ~/.go-breathfree/config.toml and fills in defaults.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/penwyp/go-breathfree/internal/coach"
	"github.com/penwyp/go-breathfree/internal/core/constants"
	"github.com/penwyp/go-breathfree/internal/data/store"
	"github.com/penwyp/go-breathfree/internal/util"
)

const (
	DefaultHome       = "~/.go-breathfree"
	DefaultConfigFile = DefaultHome + "/config.toml"
	DefaultLogFile    = DefaultHome + "/logs/app.log"
	DefaultAPIKeyEnv  = "GEMINI_API_KEY"
)

type Config struct {
	DataDir   string          `toml:"data_dir"`
	Store     string          `toml:"store"`
	Timezone  string          `toml:"timezone"`
	Log       LogConfig       `toml:"log"`
	Coach     CoachConfig     `toml:"coach"`
	Live      LiveConfig      `toml:"live"`
	Breathing BreathingConfig `toml:"breathing"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

type CoachConfig struct {
	Enabled   bool   `toml:"enabled"`
	Model     string `toml:"model"`
	APIKeyEnv string `toml:"api_key_env"`
	Timeout   string `toml:"timeout"`
}

type LiveConfig struct {
	Refresh string `toml:"refresh"`
}

type BreathingConfig struct {
	Voice bool `toml:"voice"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataDir:  DefaultHome,
		Store:    store.BackendJSON,
		Timezone: "Local",
		Log: LogConfig{
			Level:  "info",
			Format: string(util.FormatText),
			File:   DefaultLogFile,
		},
		Coach: CoachConfig{
			Enabled:   true,
			Model:     coach.DefaultModel,
			APIKeyEnv: DefaultAPIKeyEnv,
			Timeout:   constants.DefaultCoachTimeout.String(),
		},
		Live:      LiveConfig{Refresh: constants.DefaultRefreshInterval.String()},
		Breathing: BreathingConfig{Voice: true},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultConfigFile
	}
	path = ExpandPath(path)

	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg.Normalize()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	if err := toml.NewDecoder(file).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.Normalize()
	return cfg, nil
}

// Normalize replaces empty or invalid fields with defaults and expands
// paths.
func (c *Config) Normalize() {
	def := Default()

	if strings.TrimSpace(c.DataDir) == "" {
		c.DataDir = def.DataDir
	}
	c.DataDir = ExpandPath(c.DataDir)

	c.Store = strings.ToLower(strings.TrimSpace(c.Store))
	if c.Store != store.BackendJSON && c.Store != store.BackendSQLite {
		c.Store = def.Store
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		c.Timezone = def.Timezone
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		c.Log.Level = def.Log.Level
	}
	if util.LogFormat(c.Log.Format) != util.FormatJSON {
		c.Log.Format = string(util.FormatText)
	}
	if c.Log.File == "" {
		c.Log.File = def.Log.File
	}
	c.Log.File = ExpandPath(c.Log.File)

	if c.Coach.Model == "" {
		c.Coach.Model = def.Coach.Model
	}
	if c.Coach.APIKeyEnv == "" {
		c.Coach.APIKeyEnv = def.Coach.APIKeyEnv
	}
	c.Coach.Timeout = normalizeDuration(c.Coach.Timeout, constants.DefaultCoachTimeout)
	c.Live.Refresh = normalizeDuration(c.Live.Refresh, constants.DefaultRefreshInterval)
}

func normalizeDuration(s string, def time.Duration) string {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil || d <= 0 {
		return def.String()
	}
	return d.String()
}

// CoachTimeout is the parsed coach timeout.
func (c *Config) CoachTimeout() time.Duration {
	d, err := time.ParseDuration(c.Coach.Timeout)
	if err != nil {
		return constants.DefaultCoachTimeout
	}
	return d
}

// RefreshInterval is the parsed live refresh interval.
func (c *Config) RefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Live.Refresh)
	if err != nil {
		return constants.DefaultRefreshInterval
	}
	return d
}

// ExpandPath resolves a leading ~/ and makes the path absolute.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return absPath
}
