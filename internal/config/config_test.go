package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathansso/locvista/internal/config"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "locvista.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, ""), nil)
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLocation, cfg.Source.Location)
	assert.True(t, cfg.Source.Watch)
	assert.Equal(t, 30*time.Second, cfg.Source.PollInterval)
	assert.Equal(t, "127.0.0.1:8080", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "cursor", cfg.View.Mode)
	assert.Equal(t, config.DefaultURLTemplate, cfg.View.URLTemplate)
	assert.Equal(t, 500*time.Millisecond, cfg.View.Transition)
	assert.Equal(t, 10, cfg.View.MaxPerColumn)
	assert.InDelta(t, 600.0, cfg.View.FilesWidth, 1e-9)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestLoadFile(t *testing.T) {
	t.Parallel()

	path := writeConfig(t, `
source:
  location: https://example.com/loc.csv
  poll_interval: 1m
server:
  port: 9090
log:
  level: debug
  json: true
view:
  mode: scroll
  timezone: America/Los_Angeles
`)
	cfg, err := config.Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/loc.csv", cfg.Source.Location)
	assert.Equal(t, time.Minute, cfg.Source.PollInterval)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Log.JSON)
	assert.Equal(t, "scroll", cfg.View.Mode)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Los_Angeles", loc.String())

	level, err := config.ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestEnvAndOverrides(t *testing.T) {
	t.Setenv("LOCVISTA_SERVER_PORT", "7070")
	t.Setenv("LOCVISTA_VIEW_MODE", "scroll")

	cfg, err := config.Load(writeConfig(t, "server:\n  port: 9090\n"), nil)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port, "env beats file")
	assert.Equal(t, "scroll", cfg.View.Mode)

	cfg, err = config.Load(writeConfig(t, ""), map[string]any{"server.port": 6060, "view.mode": "cursor"})
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port, "overrides beat env")
	assert.Equal(t, "cursor", cfg.View.Mode)
}

func TestValidation(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		overrides map[string]any
		want      error
	}{
		"port":     {map[string]any{"server.port": 0}, config.ErrInvalidPort},
		"source":   {map[string]any{"source.location": " "}, config.ErrEmptySource},
		"level":    {map[string]any{"log.level": "loud"}, config.ErrInvalidLogLevel},
		"mode":     {map[string]any{"view.mode": "timeline"}, config.ErrInvalidMode},
		"template": {map[string]any{"view.url_template": "https://example.com/"}, config.ErrInvalidURLTemplate},
		"zone":     {map[string]any{"view.timezone": "Mars/Olympus"}, config.ErrInvalidTimezone},
		"poll":     {map[string]any{"source.poll_interval": "-1s"}, config.ErrInvalidPollInterval},
		"size":     {map[string]any{"view.files_width": 0}, config.ErrInvalidSize},
		"column":   {map[string]any{"view.max_per_column": -2}, config.ErrInvalidMaxPerColumn},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := config.Load(writeConfig(t, ""), tc.overrides)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
	require.Error(t, err)
}
