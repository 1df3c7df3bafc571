// Copyright (c) 2026 Petar Djukic. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config reads CLI settings from flags, AUTOREF_* environment
// variables, and an optional .autoref.yaml file through viper.
package config

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/spf13/viper"
)

// Keys shared by flags, environment variables, and the config file.
const (
	KeySources     = "sources"
	KeyWorkDir     = "workdir"
	KeyLogLevel    = "log-level"
	KeyConcurrency = "concurrency"
)

// EnvPrefix prefixes environment variables, as in AUTOREF_WORKDIR.
const EnvPrefix = "AUTOREF"

// FileName is the config file name looked up in the working directory.
const FileName = ".autoref"

// ErrInvalid is returned by Load when a setting is out of range.
var ErrInvalid = errors.New("invalid configuration")

// Config holds the CLI settings.
type Config struct {
	Sources     []string `mapstructure:"sources"`
	WorkDir     string   `mapstructure:"workdir"`
	LogLevel    string   `mapstructure:"log-level"`
	Concurrency int      `mapstructure:"concurrency"`
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyWorkDir, ".")
	v.SetDefault(KeyLogLevel, "warn")
	v.SetDefault(KeyConcurrency, runtime.GOMAXPROCS(0))
}

// Init wires environment variables and the config file into v. file may
// be empty, in which case .autoref.yaml is looked up in the current
// directory and its absence is not an error.
func Init(v *viper.Viper, file string) error {
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", file, err)
		}
		return nil
	}

	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}
	return nil
}

// Load decodes the settings held by v.
func Load(v *viper.Viper) (Config, error) {
	cfg := Config{
		Sources:     v.GetStringSlice(KeySources),
		WorkDir:     v.GetString(KeyWorkDir),
		LogLevel:    v.GetString(KeyLogLevel),
		Concurrency: v.GetInt(KeyConcurrency),
	}
	if cfg.Concurrency < 1 {
		return Config{}, fmt.Errorf("%w: concurrency must be at least 1, got %d", ErrInvalid, cfg.Concurrency)
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	return cfg, nil
}
