// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.WorkDir)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, runtime.GOMAXPROCS(0), cfg.Concurrency)
	assert.Empty(t, cfg.Sources)
}

func TestInit_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoref.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`sources:
  - example.com/lib
  - example.com/lib/sub.Client
log-level: debug
concurrency: 2
`), 0o644))

	v := viper.New()
	require.NoError(t, Init(v, path))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"example.com/lib", "example.com/lib/sub.Client"}, cfg.Sources)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2, cfg.Concurrency)
}

func TestInit_MissingExplicitFile(t *testing.T) {
	err := Init(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestInit_Environment(t *testing.T) {
	t.Setenv("AUTOREF_LOG_LEVEL", "info")
	t.Setenv("AUTOREF_WORKDIR", "/tmp/docs")
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	v := viper.New()
	require.NoError(t, Init(v, ""))

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "/tmp/docs", cfg.WorkDir)
}

func TestLoad_InvalidConcurrency(t *testing.T) {
	v := viper.New()
	SetDefaults(v)
	v.Set(KeyConcurrency, 0)

	_, err := Load(v)
	assert.ErrorIs(t, err, ErrInvalid)
}
