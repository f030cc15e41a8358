package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".locvista"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix, e.g. LOCVISTA_SERVER_PORT.
const envPrefix = "LOCVISTA"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// Load resolves configuration from defaults, the config file, the
// environment and overrides, in increasing precedence. If configPath is
// empty the file is searched for in the working directory and $HOME; a
// missing file is not an error. Overrides are keyed like "server.port".
func Load(configPath string, overrides map[string]any) (*Config, error) {
	v := viper.New()

	applyDefaults(v)

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("source.location", DefaultLocation)
	v.SetDefault("source.watch", DefaultWatch)
	v.SetDefault("source.poll_interval", DefaultPollInterval)
	v.SetDefault("source.timeout", DefaultTimeout)

	v.SetDefault("server.host", DefaultHost)
	v.SetDefault("server.port", DefaultPort)
	v.SetDefault("server.allowed_origins", []string{})

	v.SetDefault("log.level", DefaultLogLevel)
	v.SetDefault("log.json", DefaultLogJSON)

	v.SetDefault("view.mode", DefaultMode)
	v.SetDefault("view.url_template", DefaultURLTemplate)
	v.SetDefault("view.timezone", "")
	v.SetDefault("view.transition", DefaultTransition)
	v.SetDefault("view.width", DefaultWidth)
	v.SetDefault("view.height", DefaultHeight)
	v.SetDefault("view.files_width", DefaultFilesWidth)
	v.SetDefault("view.max_per_column", DefaultMaxPerColumn)
}
