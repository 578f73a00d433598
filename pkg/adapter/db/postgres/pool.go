// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/momeni/car-rental/pkg/core/repo"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Pool is a database connection pool which its connections are
// acquired by the Conn method. It embeds the *gorm.DB, but callers
// in the use cases layer only see it as a repo.Pool.
type Pool struct {
	*gorm.DB
}

type poolConfig struct {
	logLevel      logger.LogLevel
	slowThreshold time.Duration
}

// PoolOption customizes the query logging of a Pool.
type PoolOption func(pc *poolConfig) error

// WithQueryLogLevel sets the GORM logging level. It may be one of
// silent, error, warn (the default), or info. The info level logs
// every query and is only suitable for development.
func WithQueryLogLevel(level string) PoolOption {
	return func(pc *poolConfig) error {
		switch strings.ToLower(level) {
		case "silent":
			pc.logLevel = logger.Silent
		case "error":
			pc.logLevel = logger.Error
		case "warn", "":
			pc.logLevel = logger.Warn
		case "info":
			pc.logLevel = logger.Info
		default:
			return fmt.Errorf("unknown query log level: %q", level)
		}
		return nil
	}
}

// WithSlowThreshold sets the minimum duration of queries which are
// logged as slow queries (with the warn level).
func WithSlowThreshold(d time.Duration) PoolOption {
	return func(pc *poolConfig) error {
		if d <= 0 {
			return fmt.Errorf("slow threshold (%v) is not positive", d)
		}
		pc.slowThreshold = d
		return nil
	}
}

// NewPool opens a connection pool to the url database and tests it by
// acquiring one connection. GORM messages are written to the default
// slog logger.
func NewPool(
	ctx context.Context, url string, opts ...PoolOption,
) (*Pool, error) {
	pc := poolConfig{
		logLevel:      logger.Warn,
		slowThreshold: 200 * time.Millisecond,
	}
	for _, opt := range opts {
		if err := opt(&pc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	gdb, err := gorm.Open(postgres.Open(url), &gorm.Config{
		Logger: logger.New(
			slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
			logger.Config{
				SlowThreshold:             pc.slowThreshold,
				LogLevel:                  pc.logLevel,
				IgnoreRecordNotFoundError: true,
				// Set to false in order to log with replaced vars
				ParameterizedQueries: true,
			},
		),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	pool := &Pool{DB: gdb}
	err = pool.Conn(ctx, NoOpConnHandler)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("testing connection: %w", err)
	}
	return pool, nil
}

type ConnHandler = repo.ConnHandler

// NoOpConnHandler is a ConnHandler which does nothing. It is useful
// for checking that a connection may be established.
func NoOpConnHandler(context.Context, repo.Conn) error {
	return nil
}

// Conn acquires a connection from p and passes it to f, releasing
// that connection after f returns.
func (p *Pool) Conn(ctx context.Context, f ConnHandler) error {
	return p.DB.WithContext(ctx).Connection(func(c *gorm.DB) error {
		cc := &Conn{DB: c}
		return f(ctx, cc)
	})
}

// Close closes all connections of p.
func (p *Pool) Close() error {
	db, err := p.DB.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
