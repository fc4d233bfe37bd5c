/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package docstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/docstore/errors"
	"github.com/suparena/docstore/storagemodels"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "docstore.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("file", func(t *testing.T) {
		path := writeConfig(t, `
endpoint: mongodb://localhost:27017
credential: user:secret
logLevel: debug
pageSizeHint: 50
driver:
  appName: tests
`)
		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "mongodb://localhost:27017", cfg.Endpoint)
		assert.Equal(t, "user:secret", cfg.Credential)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, int32(50), cfg.PageSizeHint)
		assert.Equal(t, "tests", cfg.Driver["appName"])
		assert.False(t, cfg.Diagnostics)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "endpoint: mongodb://localhost:27017\n")
		t.Setenv(EnvEndpoint, "dynamodb://localhost:8000")
		t.Setenv(EnvRegion, "eu-west-1")
		t.Setenv(EnvPageSizeHint, "25")
		t.Setenv(EnvDiagnostics, "true")
		t.Setenv(EnvLogLevel, "warn")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, "dynamodb://localhost:8000", cfg.Endpoint)
		assert.Equal(t, "eu-west-1", cfg.Driver["region"])
		assert.Equal(t, int32(25), cfg.PageSizeHint)
		assert.True(t, cfg.Diagnostics)
		assert.Equal(t, zerolog.WarnLevel, cfg.Logger(zerolog.Nop()).GetLevel())
	})

	t.Run("environment only", func(t *testing.T) {
		t.Setenv(EnvEndpoint, "mock://config")
		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, int32(storagemodels.Unbounded), cfg.PageSizeHint)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("bad environment value", func(t *testing.T) {
		t.Setenv(EnvEndpoint, "mock://config")
		t.Setenv(EnvPageSizeHint, "many")
		_, err := LoadConfig("")
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "endpoint: [unterminated"))
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	valid := DefaultConfig()
	valid.Endpoint = "mock://validate"
	require.NoError(t, valid.Validate())

	cases := map[string]func(*Config){
		"missing endpoint": func(c *Config) { c.Endpoint = "" },
		"unknown level":    func(c *Config) { c.LogLevel = "loud" },
		"zero page size":   func(c *Config) { c.PageSizeHint = 0 },
		"negative size":    func(c *Config) { c.PageSizeHint = -5 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid
			mutate(&cfg)
			assert.True(t, errors.IsValidationError(cfg.Validate()))
		})
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Endpoint = "mock://options"
	cfg.PageSizeHint = 10
	cfg.Diagnostics = true
	cfg.Driver["pageSize"] = "5"

	c := NewClient(nil, cfg.Options()...)
	assert.Equal(t, "5", c.driverSettings["pageSize"])
	opts := storagemodels.ApplyPageOptions(storagemodels.DefaultPageOptions(), c.pageOptions...)
	assert.Equal(t, int32(10), opts.PageSizeHint)
	assert.True(t, opts.Diagnostics)
}
