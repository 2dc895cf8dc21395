// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package config loads server configuration from an optional YAML file and
// LINKRACE_* environment variables, env winning.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the fully resolved server configuration.
type Config struct {
	// Port the HTTP/WebSocket server listens on.
	Port int `mapstructure:"port"`

	// DatabasePath is the read-only SQLite corpus file.
	DatabasePath string `mapstructure:"database_path"`

	// LogLevel is debug, info, warn, or error.
	LogLevel string `mapstructure:"log_level"`

	// LogDir receives the JSON log file; empty disables file logging.
	LogDir string `mapstructure:"log_dir"`

	// OTLPEndpoint is the gRPC collector for traces; empty disables
	// tracing export.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`

	// ReapInterval is how often abandoned rooms are swept.
	ReapInterval time.Duration `mapstructure:"reap_interval"`

	// CommandRate caps WebSocket commands per second per connection;
	// CommandBurst is the bucket size.
	CommandRate  float64 `mapstructure:"command_rate"`
	CommandBurst int     `mapstructure:"command_burst"`
}

// Load reads configuration, resolving in order: defaults, the config file
// at path (skipped when path is empty and no linkrace.yaml is present),
// then LINKRACE_* environment variables.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "sdow.sqlite")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_dir", "")
	v.SetDefault("otlp_endpoint", "")
	v.SetDefault("reap_interval", time.Minute)
	v.SetDefault("command_rate", 20.0)
	v.SetDefault("command_burst", 40)

	v.SetEnvPrefix("LINKRACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("linkrace")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/linkrace")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.ReapInterval <= 0 {
		return nil, fmt.Errorf("reap_interval must be positive")
	}
	return &cfg, nil
}
