/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/suparena/docstore/storagemodels"
)

// Environment variables that override file settings.
const (
	EnvEndpoint     = "DOCSTORE_ENDPOINT"
	EnvCredential   = "DOCSTORE_CREDENTIAL"
	EnvRegion       = "DOCSTORE_REGION"
	EnvLogLevel     = "DOCSTORE_LOG_LEVEL"
	EnvPageSizeHint = "DOCSTORE_PAGE_SIZE_HINT"
	EnvDiagnostics  = "DOCSTORE_DIAGNOSTICS"
)

// Config holds client settings loaded from YAML, a .env file and the environment.
type Config struct {
	Endpoint   string `yaml:"endpoint" validate:"required,uri"`
	Credential string `yaml:"credential"`
	LogLevel   string `yaml:"logLevel" validate:"oneof=trace debug info warn error disabled"`
	// PageSizeHint of -1 lets the backend choose.
	PageSizeHint int32             `yaml:"pageSizeHint" validate:"gte=-1,ne=0"`
	Diagnostics  bool              `yaml:"diagnostics"`
	Driver       map[string]string `yaml:"driver"`
}

// DefaultConfig returns the settings used before any source is applied.
func DefaultConfig() Config {
	return Config{
		LogLevel:     zerolog.LevelInfoValue,
		PageSizeHint: storagemodels.Unbounded,
		Driver:       map[string]string{},
	}
}

// LoadConfig applies, in order, the defaults, the YAML file at path (skipped
// when path is empty), a .env file in the working directory if present, and
// DOCSTORE_* environment variables, then validates the result.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
		if cfg.Driver == nil {
			cfg.Driver = map[string]string{}
		}
	}

	if err := godotenv.Load(); err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv(EnvEndpoint); ok {
		c.Endpoint = v
	}
	if v, ok := os.LookupEnv(EnvCredential); ok {
		c.Credential = v
	}
	if v, ok := os.LookupEnv(EnvRegion); ok {
		c.Driver["region"] = v
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvPageSizeHint); ok {
		size, err := cast.ToInt32E(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvPageSizeHint, err)
		}
		c.PageSizeHint = size
	}
	if v, ok := os.LookupEnv(EnvDiagnostics); ok {
		diagnostics, err := cast.ToBoolE(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvDiagnostics, err)
		}
		c.Diagnostics = diagnostics
	}
	return nil
}

// Validate checks the config.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return validationError(err)
	}
	return nil
}

// Logger returns base at the configured level.
func (c Config) Logger(base zerolog.Logger) zerolog.Logger {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	return base.Level(level)
}

// Options turns the config into client options.
func (c Config) Options() []Option {
	var pageOpts []storagemodels.PageOption
	if c.PageSizeHint > 0 {
		pageOpts = append(pageOpts, storagemodels.WithPageSizeHint(c.PageSizeHint))
	}
	if c.Diagnostics {
		pageOpts = append(pageOpts, storagemodels.WithDiagnostics())
	}
	return []Option{
		WithDriverSettings(c.Driver),
		WithPageOptions(pageOpts...),
	}
}
