// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/momeni/car-rental/pkg/adapter/config/settings"
	"github.com/momeni/car-rental/pkg/adapter/db/redis/sessionsrp"
	"github.com/momeni/car-rental/pkg/adapter/metrics/prom"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin"
	"github.com/momeni/car-rental/pkg/adapter/scheduler"
	"github.com/momeni/car-rental/pkg/adapter/token/jwttk"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
)

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized.
type Gin struct {
	Logger   *bool // Whether to register a request logging middleware
	Recovery *bool // Whether to register a panic recovery middleware

	// Slog selects the structured (ginslog) variants of the logger and
	// recovery middleware instead of the plain gin ones.
	Slog *bool

	// Release switches gin to its release mode.
	Release *bool

	// Addr is the listening address of the HTTP server, like :8080.
	Addr string
}

func (g *Gin) normalize() {
	settings.Nil2Zero(&g.Logger)
	settings.Nil2Zero(&g.Recovery)
	settings.Nil2Zero(&g.Slog)
	settings.Nil2Zero(&g.Release)
	if g.Addr == "" {
		g.Addr = ":8080"
	}
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings. The `l` logger is used by the structured logging
// and recovery middleware.
func (g Gin) NewEngine(l *slog.Logger) *gin.Engine {
	if *g.Release {
		gin.ReleaseMode()
	}
	middlewares := make([]gin.HandlerFunc, 0, 2)
	switch {
	case *g.Logger && *g.Slog:
		middlewares = append(middlewares, gin.SlogLogger(l))
	case *g.Logger:
		middlewares = append(middlewares, gin.Logger())
	}
	switch {
	case *g.Recovery && *g.Slog:
		middlewares = append(middlewares, gin.SlogRecovery(l))
	case *g.Recovery:
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Redis contains the connection settings of the Redis server which
// keeps the refresh tokens.
type Redis struct {
	Addr     string // host:port of the Redis server
	Password string `yaml:",omitempty"`
	DB       int    `yaml:"db,omitempty"`

	// Prefix is prepended to the refresh tokens for making the keys.
	Prefix string `yaml:",omitempty"`
}

// ValidateAndNormalize validates the Redis settings and fills the
// default key prefix.
func (r *Redis) ValidateAndNormalize() error {
	if r.Addr == "" {
		return errors.New("addr is empty")
	}
	if r.DB < 0 {
		return fmt.Errorf("db (%d) is negative", r.DB)
	}
	if r.Prefix == "" {
		r.Prefix = sessionsrp.DefaultPrefix
	}
	return nil
}

// NewClient creates a Redis client. Its connections are established
// lazily, so the caller may Ping it in order to fail fast.
func (r Redis) NewClient() redis.UniversalClient {
	return redis.NewUniversalClient(&redis.UniversalOptions{
		Addrs:    []string{r.Addr},
		Password: r.Password,
		DB:       r.DB,
	})
}

// NewSessions wraps client by a refresh tokens repository.
func (r Redis) NewSessions(client redis.UniversalClient) *sessionsrp.Repo {
	return sessionsrp.New(client, r.Prefix)
}

// Default and acceptable range of the access tokens lifetime.
const (
	DefaultAccessTTL  = 15 * time.Minute
	MinAccessTTL      = time.Minute
	MaxAccessTTL      = 24 * time.Hour
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// Auth contains the access and refresh tokens settings.
type Auth struct {
	// JWTSecret is the HMAC key of the access tokens. It must have at
	// least 32 bytes and is usually passed as ${CRWEB_JWT_SECRET}.
	JWTSecret string `yaml:"jwt-secret"`

	// AccessTTL is the lifetime of the access tokens. Values outside
	// of [1m, 24h] are clamped into that range.
	AccessTTL *settings.Duration `yaml:"access-token-ttl,omitempty"`

	// RefreshTTL is the lifetime of the refresh tokens.
	RefreshTTL *settings.Duration `yaml:"refresh-token-ttl,omitempty"`

	// HashIterations is the SCRAM iterations count of the new user
	// passwords hashes.
	HashIterations *int `yaml:"hash-iterations,omitempty"`
}

// ValidateAndNormalize validates the auth settings and fills their
// defaults. An out of range access TTL is logged and clamped.
func (a *Auth) ValidateAndNormalize() error {
	if l := len(a.JWTSecret); l < 32 {
		return fmt.Errorf("jwt-secret has %d bytes, expected 32+", l)
	}
	settings.OverwriteNil(&a.AccessTTL, settings.Duration(DefaultAccessTTL))
	settings.OverwriteNil(
		&a.RefreshTTL, settings.Duration(DefaultRefreshTTL),
	)
	minb := settings.Duration(MinAccessTTL)
	maxb := settings.Duration(MaxAccessTTL)
	if err := settings.VerifyRange(&a.AccessTTL, &minb, &maxb); err != nil {
		log.Warn(
			context.Background(), "access token TTL is clamped",
			log.Valuer("configured", &err.Value),
			log.Valuer("clamped", a.AccessTTL),
		)
	}
	if *a.RefreshTTL <= 0 {
		return fmt.Errorf(
			"refresh-token-ttl (%v) is not positive", a.RefreshTTL.Std(),
		)
	}
	if a.HashIterations != nil && *a.HashIterations < 4096 {
		return fmt.Errorf(
			"hash-iterations (%d) is less than 4096", *a.HashIterations,
		)
	}
	return nil
}

// NewTokens creates the access tokens issuer and verifier.
func (a Auth) NewTokens() (*jwttk.Tokens, error) {
	return jwttk.New([]byte(a.JWTSecret), a.AccessTTL.Std())
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Bookings Bookings // bookings use cases related settings
}

// Bookings contains the configuration settings of the bookings use
// cases and their completion job.
type Bookings struct {
	// CompletionSchedule is a cron expression (or descriptor, like
	// @every 5m) which triggers the completion of the bookings which
	// their rental period is over. An empty value disables the job.
	CompletionSchedule string `yaml:"completion-schedule,omitempty"`

	// CompletionTimeout limits each completion run. It defaults to 1m.
	CompletionTimeout *settings.Duration `yaml:"completion-timeout,omitempty"`

	// MaxRentalDays is the maximum length of a booking in days.
	// A nil value lets the use cases layer select its default.
	MaxRentalDays *int `yaml:"max-rental-days,omitempty"`
}

// ValidateAndNormalize validates the bookings settings.
func (b *Bookings) ValidateAndNormalize() error {
	if b.CompletionSchedule != "" {
		if _, err := cron.ParseStandard(b.CompletionSchedule); err != nil {
			return fmt.Errorf(
				"parsing completion-schedule %q: %w",
				b.CompletionSchedule, err,
			)
		}
	}
	settings.OverwriteNil(&b.CompletionTimeout, settings.Duration(time.Minute))
	if *b.CompletionTimeout <= 0 {
		return fmt.Errorf(
			"completion-timeout (%v) is not positive",
			b.CompletionTimeout.Std(),
		)
	}
	if b.MaxRentalDays != nil && *b.MaxRentalDays <= 0 {
		return fmt.Errorf(
			"max-rental-days (%d) is not positive", *b.MaxRentalDays,
		)
	}
	return nil
}

// NewScheduler creates the completion job scheduler, or returns nil if
// the job is disabled.
func (b Bookings) NewScheduler(c scheduler.Completer) (
	*scheduler.Scheduler, error,
) {
	if b.CompletionSchedule == "" {
		return nil, nil
	}
	return scheduler.New(
		b.CompletionSchedule, c, b.CompletionTimeout.Std(),
	)
}

// Metrics contains the Prometheus exposition settings.
type Metrics struct {
	Enabled *bool // Whether to serve the /metrics endpoint

	// Runtime adds the Go runtime and process collectors.
	Runtime *bool `yaml:",omitempty"`
}

func (m *Metrics) normalize() {
	settings.Nil2Zero(&m.Enabled)
	settings.Nil2Zero(&m.Runtime)
}

// NewMetrics creates the metrics registry, or returns nil if metrics
// are disabled.
func (m Metrics) NewMetrics() *prom.Metrics {
	if !*m.Enabled {
		return nil
	}
	return prom.New(*m.Runtime)
}

// Logging contains the structured logging settings.
type Logging struct {
	Level  string // debug, info (the default), warn, or error
	Format string // text (the default) or json
}

// ValidateAndNormalize validates the logging settings.
func (l *Logging) ValidateAndNormalize() error {
	if l.Level == "" {
		l.Level = "info"
	}
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return fmt.Errorf("parsing level: %w", err)
	}
	switch strings.ToLower(l.Format) {
	case "":
		l.Format = "text"
	case "text", "json":
	default:
		return fmt.Errorf("unsupported format: %q", l.Format)
	}
	return nil
}

// NewLogger creates the structured logger which writes to w and
// installs it as the default logger.
func (l Logging) NewLogger(w io.Writer) (*slog.Logger, error) {
	return log.Setup(w, l.Level, l.Format)
}
