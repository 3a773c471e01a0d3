package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fractalqb/logfilter"
)

const appName = "logfilter"

// config stores the settings of the scan command. The values are read by
// viper from a config file, environment variables and command line flags.
type config struct {
	MaxLine    int    `mapstructure:"max-line"`
	Limit      int    `mapstructure:"limit"`
	Jobs       int    `mapstructure:"jobs"`
	LineNumber bool   `mapstructure:"line-number"`
	WindowSize int    `mapstructure:"window-size"`
	LogLevel   string `mapstructure:"log-level"`
}

func loadConfig(cmd *cobra.Command) (*config, error) {
	v := viper.New()
	if file, _ := cmd.Flags().GetString("config"); file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(appName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", appName))
		}
	}

	v.SetDefault("max-line", logfilter.DefaultBufferSize)
	v.SetDefault("limit", 0)
	v.SetDefault("jobs", 1)
	v.SetDefault("line-number", false)
	v.SetDefault("window-size", 0)
	v.SetDefault("log-level", "warn")

	v.SetEnvPrefix(appName)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return nil, err
	}
	var cfg config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if cfg.MaxLine <= 0 {
		return nil, fmt.Errorf("max-line must be positive, have %d", cfg.MaxLine)
	}
	lvl, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log = log.Level(lvl)
	log.Debug().Str("config", v.ConfigFileUsed()).Msg("configuration loaded")
	return &cfg, nil
}
