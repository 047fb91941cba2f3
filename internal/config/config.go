// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Ledgerdash Contributors

// Package config loads Ledgerdash configuration from an optional YAML file
// with command-line flag overrides.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	yamlv3 "gopkg.in/yaml.v3"
)

// Config holds all runtime configuration.
type Config struct {
	Database DatabaseConfig `koanf:"database" yaml:"database"`
	Auth     AuthConfig     `koanf:"auth" yaml:"auth"`
	HTTP     HTTPConfig     `koanf:"http" yaml:"http"`
	Metrics  MetricsConfig  `koanf:"metrics" yaml:"metrics"`
	Log      LogConfig      `koanf:"log" yaml:"log"`
}

// DatabaseConfig configures the Postgres connection.
type DatabaseConfig struct {
	URL            string        `koanf:"url" yaml:"url"`
	ConnectTimeout time.Duration `koanf:"connect_timeout" yaml:"connect_timeout"`
}

// AuthConfig configures the credential workflows.
type AuthConfig struct {
	BcryptCost int           `koanf:"bcrypt_cost" yaml:"bcrypt_cost"`
	SessionTTL time.Duration `koanf:"session_ttl" yaml:"session_ttl"`
}

// HTTPConfig configures the web server.
type HTTPConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// MetricsConfig configures the observability server. Empty Addr disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr" yaml:"addr"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Format string `koanf:"format" yaml:"format"` // "json" or "text"
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			URL:            os.Getenv("DATABASE_URL"),
			ConnectTimeout: 15 * time.Second,
		},
		Auth: AuthConfig{
			BcryptCost: 10,
			SessionTTL: 24 * time.Hour,
		},
		HTTP:    HTTPConfig{Addr: ":8080"},
		Metrics: MetricsConfig{Addr: "127.0.0.1:9100"},
		Log:     LogConfig{Format: "json"},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// non-empty), then any changed flags from flags (if non-nil). Flag names use
// the dotted key form, e.g. --database.url.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
		}
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, oops.Code("CONFIG_UNMARSHAL_FAILED").Wrap(err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that would otherwise fail deep inside a
// workflow.
func (c *Config) Validate() error {
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return oops.Code("CONFIG_INVALID").
			With("auth.bcrypt_cost", c.Auth.BcryptCost).
			Errorf("auth.bcrypt_cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if c.Auth.SessionTTL <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("auth.session_ttl", c.Auth.SessionTTL.String()).
			Errorf("auth.session_ttl must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return oops.Code("CONFIG_INVALID").
			With("log.format", c.Log.Format).
			Errorf("log.format must be json or text")
	}
	return nil
}

// YAML renders the effective configuration for `ledgerdash config`.
// The database URL is redacted: it can carry credentials.
func (c *Config) YAML() ([]byte, error) {
	clone := *c
	if clone.Database.URL != "" {
		clone.Database.URL = "<redacted>"
	}
	out, err := yamlv3.Marshal(&clone)
	if err != nil {
		return nil, oops.Code("CONFIG_MARSHAL_FAILED").Wrap(err)
	}
	return out, nil
}
