package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/penwyp/go-breathfree/internal/data/store"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".go-breathfree"), cfg.DataDir)
	assert.Equal(t, store.BackendJSON, cfg.Store)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.True(t, cfg.Coach.Enabled)
	assert.Equal(t, DefaultAPIKeyEnv, cfg.Coach.APIKeyEnv)
	assert.Equal(t, time.Second, cfg.RefreshInterval())
	assert.Equal(t, 15*time.Second, cfg.CoachTimeout())
	assert.True(t, cfg.Breathing.Voice)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data_dir = "` + filepath.Join(dir, "data") + `"
store = "SQLite"
timezone = "Asia/Shanghai"

[log]
level = "debug"
format = "json"

[coach]
enabled = false
model = "gemini-2.5-flash"
api_key_env = "MY_KEY"
timeout = "3s"

[live]
refresh = "250ms"

[breathing]
voice = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "data"), cfg.DataDir)
	assert.Equal(t, store.BackendSQLite, cfg.Store)
	assert.Equal(t, "Asia/Shanghai", cfg.Timezone)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Coach.Enabled)
	assert.Equal(t, "gemini-2.5-flash", cfg.Coach.Model)
	assert.Equal(t, "MY_KEY", cfg.Coach.APIKeyEnv)
	assert.Equal(t, 3*time.Second, cfg.CoachTimeout())
	assert.Equal(t, 250*time.Millisecond, cfg.RefreshInterval())
	assert.False(t, cfg.Breathing.Voice)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("store = [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    Config
		check func(t *testing.T, c *Config)
	}{
		{
			name: "unknown store falls back to json",
			in:   Config{Store: "postgres"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, store.BackendJSON, c.Store)
			},
		},
		{
			name: "invalid durations fall back",
			in:   Config{Live: LiveConfig{Refresh: "soon"}, Coach: CoachConfig{Timeout: "-5s"}},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "1s", c.Live.Refresh)
				assert.Equal(t, "15s", c.Coach.Timeout)
			},
		},
		{
			name: "unknown timezone falls back to local",
			in:   Config{Timezone: "Mars/Olympus"},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "Local", c.Timezone)
			},
		},
		{
			name: "bad log settings",
			in:   Config{Log: LogConfig{Level: "LOUD", Format: "xml"}},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "info", c.Log.Level)
				assert.Equal(t, "text", c.Log.Format)
				assert.True(t, filepath.IsAbs(c.Log.File))
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.Normalize()
			tt.check(t, &c)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, ".go-breathfree"), ExpandPath("~/.go-breathfree"))
	assert.Equal(t, home, ExpandPath("~"))
	assert.True(t, filepath.IsAbs(ExpandPath("relative/dir")))
}
