// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// The Config struct also builds the adapters and use cases which are
// described by its settings, so the cmd layer only needs to wire them.
package cfg1

import (
	"fmt"
	"log/slog"

	"github.com/momeni/car-rental/pkg/adapter/config/vers"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/migration"
	"github.com/momeni/car-rental/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Config contains all settings which are required by different parts
// of the crweb following the v1.x.y format. It is implemented with
// primitive fields or locally defined structs (instead of the models
// from lower layers), so the configuration format can be versioned and
// kept intact while other layers change freely.
//
// Optional settings are kept as pointers, so their absence can be
// detected and replaced by the defaults in ValidateAndNormalize.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Redis    Redis    // Redis server of the refresh tokens
	Auth     Auth     // Access and refresh tokens settings
	Usecases Usecases // Configuration settings for supported use cases
	Metrics  Metrics  // Prometheus metrics exposition settings
	Logging  Logging  // Structured logging settings

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. Thereafter, loaded Config will be validated and normalized
// in order to ensure that provided settings are acceptable (for example
// the major version which is reported by data settings must match
// with number 1 which is the major version of this config package).
//
// Environment variables are expected to be expanded by the caller
// (see config.Load), so data is taken as the final settings.
func Load(data []byte) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	if _, err := migration.LatestVersion(c.Vers.Versions.Database); err != nil {
		return fmt.Errorf("unsupported database schema version: %w", err)
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	c.Gin.normalize()
	if err := c.Redis.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating redis settings: %w", err)
	}
	if err := c.Auth.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if err := c.Usecases.Bookings.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating bookings settings: %w", err)
	}
	c.Metrics.normalize()
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	return nil
}

// Redacted returns a copy of the `c` settings which hides the secrets,
// so it may be printed or logged safely.
func (c *Config) Redacted() *Config {
	r := *c
	if r.Redis.Password != "" {
		r.Redis.Password = redacted
	}
	if r.Auth.JWTSecret != "" {
		r.Auth.JWTSecret = redacted
	}
	return &r
}

const redacted = "<redacted>"

// Marshal serializes the `c` settings (without their secrets) as a
// YAML document.
func (c *Config) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(c.Redacted())
	if err != nil {
		return nil, fmt.Errorf("marshalling yaml: %w", err)
	}
	return out, nil
}

// LogValue implements slog.LogValuer, reporting the main settings which
// help to diagnose a deployment. Secrets are never included.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("config", c.Vers.Versions.Config.String()),
		slog.String("database", c.Vers.Versions.Database.String()),
		slog.String("db-host", c.Database.Host),
		slog.String("db-name", c.Database.Name),
		slog.String("redis", c.Redis.Addr),
		slog.Any("access-ttl", c.Auth.AccessTTL),
		slog.String("completion", c.Usecases.Bookings.CompletionSchedule),
		slog.Bool("metrics", *c.Metrics.Enabled),
	)
}

var _ slog.LogValuer = (*Config)(nil)
