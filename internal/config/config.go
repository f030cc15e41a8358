// Package config loads locvista settings from defaults, an optional YAML
// file, LOCVISTA_* environment variables and command-line overrides.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the top-level configuration.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Source SourceConfig `mapstructure:"source" yaml:"source"`
	Server ServerConfig `mapstructure:"server" yaml:"server"`
	Log    LogConfig    `mapstructure:"log" yaml:"log"`
	View   ViewConfig   `mapstructure:"view" yaml:"view"`
}

// SourceConfig locates the line table and controls reloading.
type SourceConfig struct {
	// Location is a file path or an http(s) URL.
	Location string `mapstructure:"location" yaml:"location"`
	// Watch reloads a local file when it changes.
	Watch bool `mapstructure:"watch" yaml:"watch"`
	// PollInterval re-fetches a URL source; zero disables polling.
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// ServerConfig is the HTTP listener.
type ServerConfig struct {
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	// AllowedOrigins restricts websocket upgrades. Empty allows same-host only.
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	JSON  bool   `mapstructure:"json" yaml:"json"`
}

// ViewConfig holds presentation settings.
type ViewConfig struct {
	Mode        string `mapstructure:"mode" yaml:"mode"`
	URLTemplate string `mapstructure:"url_template" yaml:"url_template"`
	// Timezone, when set, is the IANA zone commit times are shown in.
	Timezone     string        `mapstructure:"timezone" yaml:"timezone"`
	Transition   time.Duration `mapstructure:"transition" yaml:"transition"`
	Width        float64       `mapstructure:"width" yaml:"width"`
	Height       float64       `mapstructure:"height" yaml:"height"`
	FilesWidth   float64       `mapstructure:"files_width" yaml:"files_width"`
	MaxPerColumn int           `mapstructure:"max_per_column" yaml:"max_per_column"`
}

// Defaults.
const (
	DefaultLocation     = "loc.csv"
	DefaultWatch        = true
	DefaultPollInterval = 30 * time.Second
	DefaultTimeout      = 30 * time.Second
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8080
	DefaultLogLevel     = "info"
	DefaultLogJSON      = false
	DefaultMode         = "cursor"
	DefaultURLTemplate  = "https://github.com/vis-society/lab-7/commit/%s"
	DefaultTransition   = 500 * time.Millisecond
	DefaultWidth        = 1000
	DefaultHeight       = 600
	DefaultFilesWidth   = 600
	DefaultMaxPerColumn = 10
)

// Sentinel validation errors.
var (
	// ErrEmptySource indicates no source location was configured.
	ErrEmptySource = errors.New("source.location must be set")
	// ErrInvalidPollInterval indicates a negative poll interval.
	ErrInvalidPollInterval = errors.New("source.poll_interval must be non-negative")
	// ErrInvalidTimeout indicates a non-positive fetch timeout.
	ErrInvalidTimeout = errors.New("source.timeout must be positive")
	// ErrInvalidPort indicates the port is outside 1..65535.
	ErrInvalidPort = errors.New("server.port must be between 1 and 65535")
	// ErrInvalidLogLevel indicates an unknown log level.
	ErrInvalidLogLevel = errors.New("log.level must be debug, info, warn or error")
	// ErrInvalidMode indicates a view mode other than cursor or scroll.
	ErrInvalidMode = errors.New("view.mode must be cursor or scroll")
	// ErrInvalidURLTemplate indicates the template has no %s verb.
	ErrInvalidURLTemplate = errors.New("view.url_template must contain exactly one %s")
	// ErrInvalidTimezone indicates an unknown IANA zone name.
	ErrInvalidTimezone = errors.New("view.timezone is not a known zone")
	// ErrInvalidSize indicates a non-positive plot or files width.
	ErrInvalidSize = errors.New("view.width, view.height and view.files_width must be positive")
	// ErrInvalidMaxPerColumn indicates a non-positive column height.
	ErrInvalidMaxPerColumn = errors.New("view.max_per_column must be positive")
)

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source.Location) == "" {
		return ErrEmptySource
	}
	if c.Source.PollInterval < 0 {
		return ErrInvalidPollInterval
	}
	if c.Source.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return ErrInvalidPort
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.View.Mode != "cursor" && c.View.Mode != "scroll" {
		return fmt.Errorf("%w: %q", ErrInvalidMode, c.View.Mode)
	}
	if strings.Count(c.View.URLTemplate, "%s") != 1 || strings.Count(c.View.URLTemplate, "%") != 1 {
		return ErrInvalidURLTemplate
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.View.Width <= 0 || c.View.Height <= 0 || c.View.FilesWidth <= 0 {
		return ErrInvalidSize
	}
	if c.View.MaxPerColumn <= 0 {
		return ErrInvalidMaxPerColumn
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Location returns the configured display zone, or nil to keep each
// commit's recorded offset.
func (c *Config) Location() (*time.Location, error) {
	if c.View.Timezone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(c.View.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, c.View.Timezone)
	}
	return loc, nil
}

// ParseLevel maps a level name onto a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidLogLevel, s)
	}
}
