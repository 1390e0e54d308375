// Package config loads the lattice.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the settings file looked up in the working directory.
const DefaultFile = "lattice.yaml"

// Config holds every setting of the lattice command.
type Config struct {
	// Source is the page file or Loam directory.
	Source       string  `mapstructure:"source"`
	Root         string  `mapstructure:"root"`
	Mode         string  `mapstructure:"mode"`
	Language     string  `mapstructure:"language"`
	ScrollOffset float64 `mapstructure:"scroll_offset"`

	Log   LogConfig   `mapstructure:"log"`
	HTTP  HTTPConfig  `mapstructure:"http"`
	Redis RedisConfig `mapstructure:"redis"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type HTTPConfig struct {
	Addr    string `mapstructure:"addr"`
	Metrics bool   `mapstructure:"metrics"`
}

// RedisConfig enables the shared store when Addr is set.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Prefix   string        `mapstructure:"prefix"`
	TTL      time.Duration `mapstructure:"ttl"`
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	return Config{
		Source:       ".",
		ScrollOffset: 120,
		Log:          LogConfig{Level: "info", Format: "text"},
		HTTP:         HTTPConfig{Addr: ":8080", Metrics: true},
		Redis:        RedisConfig{Prefix: "lattice:page:", LockTTL: 10 * time.Second},
	}
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}
	if err := Decode(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Decode merges a YAML document into cfg.
func Decode(data []byte, cfg *Config) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if raw == nil {
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	return nil
}

// Validate checks values that cannot be expressed by types alone.
func (c Config) Validate() error {
	var errs []error
	if c.Mode != "" {
		if _, err := domain.ParseMode(c.Mode); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	if c.ScrollOffset < 0 {
		errs = append(errs, fmt.Errorf("scroll_offset must not be negative"))
	}
	return errors.Join(errs...)
}

// InitialMode returns the configured mode, if any.
func (c Config) InitialMode() domain.Mode {
	m, err := domain.ParseMode(c.Mode)
	if err != nil {
		return ""
	}
	return m
}
