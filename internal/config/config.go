// Package config loads application settings with viper.
//
// Precedence, highest first: command line flags bound by the CLI,
// CITAS_* environment variables, the optional config file, defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CITAS"

// Config holds the application settings.
type Config struct {
	Database    string `mapstructure:"db"`
	LogLevel    string `mapstructure:"log_level"`
	LogFormat   string `mapstructure:"log_format"`
	SeedFile    string `mapstructure:"seed_file"`
	SeedDoctors bool   `mapstructure:"seed_doctors"`
}

// ValidLogFormats lists the accepted log_format values.
var ValidLogFormats = []string{"console", "json"}

// NewViper returns a viper instance with defaults and environment binding
// applied. The CLI binds its flags onto it before calling Load.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	v.SetDefault("db", "citas_medicas.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("seed_file", "")
	v.SetDefault("seed_doctors", true)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{"db", "log_level", "log_format", "seed_file", "seed_doctors"} {
		_ = v.BindEnv(key)
	}
	return v
}

// Load reads the optional config file into v and decodes the result.
// A missing file is an error only when file was given explicitly.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the settings that have a closed set of values.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("db is required")
	}
	for _, f := range ValidLogFormats {
		if c.LogFormat == f {
			return nil
		}
	}
	return fmt.Errorf("invalid log_format %q: must be one of %v", c.LogFormat, ValidLogFormats)
}
