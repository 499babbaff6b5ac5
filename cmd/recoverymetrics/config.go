// Configuration for the recoverymetrics command
// Defaults, then config file and RECOVERYMETRICS_* environment, then explicit flags
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SimbaWei/RAMCloud/pkg/analysis"
	"github.com/SimbaWei/RAMCloud/pkg/metrics"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultRecoveryDir = "recovery/latest"
	defaultFormat      = "text"
)

var validFormats = map[string]bool{
	"text":  true,
	"table": true,
	"yaml":  true,
}

// appConfig is everything the report and export commands read from config
// files, RECOVERYMETRICS_* environment variables, and flags.
type appConfig struct {
	RecoveryDir     string  `mapstructure:"recovery-dir"`
	LogGlob         string  `mapstructure:"log-glob"`
	Format          string  `mapstructure:"format"`
	NetworkCapacity float64 `mapstructure:"network-capacity"`
	Raw             bool    `mapstructure:"raw"`
	All             bool    `mapstructure:"all"`
	Seed            uint64  `mapstructure:"seed"`
	Verbose         bool    `mapstructure:"verbose"`
}

func loadConfig(configPath string) (appConfig, error) {
	var cfg appConfig

	v := viper.New()
	v.SetEnvPrefix("RECOVERYMETRICS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	v.SetDefault("recovery-dir", defaultRecoveryDir)
	v.SetDefault("log-glob", metrics.DefaultLogGlob)
	v.SetDefault("format", defaultFormat)
	v.SetDefault("network-capacity", analysis.DefaultNetworkCapacityGbps)
	v.SetDefault("raw", false)
	v.SetDefault("all", false)
	v.SetDefault("seed", 0)
	v.SetDefault("verbose", false)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("finding home directory: %w", err)
		}
		v.SetConfigFile(filepath.Join(home, ".config", "recoverymetrics", "config.yml"))
	}

	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFound) && !os.IsNotExist(err) {
			return cfg, fmt.Errorf("reading config: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}

// applyFlags overrides cfg with every flag the user set explicitly.
func applyFlags(cfg *appConfig, flags *pflag.FlagSet) error {
	var err error
	flags.Visit(func(f *pflag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "log-glob":
			cfg.LogGlob = f.Value.String()
		case "format":
			cfg.Format = f.Value.String()
		case "network-capacity":
			cfg.NetworkCapacity, err = flags.GetFloat64(f.Name)
		case "raw":
			cfg.Raw, err = flags.GetBool(f.Name)
		case "all":
			cfg.All, err = flags.GetBool(f.Name)
		case "seed":
			cfg.Seed, err = flags.GetUint64(f.Name)
		case "verbose":
			cfg.Verbose, err = flags.GetBool(f.Name)
		}
	})
	return err
}

func (c appConfig) validate() error {
	if !validFormats[c.Format] {
		return fmt.Errorf("unsupported format %q, supported: text, table, yaml", c.Format)
	}
	if c.NetworkCapacity <= 0 {
		return fmt.Errorf("network capacity must be positive, got %v", c.NetworkCapacity)
	}
	if c.LogGlob == "" {
		return errors.New("log glob must not be empty")
	}
	return nil
}
