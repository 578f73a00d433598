// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package dbcontainer is an internal helper for the test packages.
// It starts a temporary postgres:16 container and connects to it using
// a *postgres.Pool, so integration-level suites may run against a real
// PostgreSQL DBMS server.
package dbcontainer

import (
	"context"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/bitcomplete/sqltestutil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/stretchr/testify/assert"
)

// DBMSVersion is the tag of the postgres image which is started.
const DBMSVersion = "16"

// New creates and starts up a postgres container.
// A docker (or podman) service must be reachable, possibly through
// the DOCKER_HOST environment variable like
// DOCKER_HOST=unix://$XDG_RUNTIME_DIR/podman/podman.sock
// and setting CRWEB_SKIP_DB_TESTS skips the calling test instead.
// The ctx will be used during the container start up and shutdown,
// while the timeout will be considered only during the start up phase.
// Returned deferred functions must be called (in order) by the caller
// even if ok is false.
func New(ctx context.Context, timeout time.Duration, t *testing.T) (
	pg *sqltestutil.PostgresContainer,
	pool *postgres.Pool,
	dfrs []func(),
	ok bool,
) {
	if os.Getenv("CRWEB_SKIP_DB_TESTS") != "" {
		t.Skip("CRWEB_SKIP_DB_TESTS is set")
	}
	ctx2, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	pg, err := sqltestutil.StartPostgresContainer(ctx2, DBMSVersion)
	if ok = assert.NoError(t, err, "failed to set up a test database"); !ok {
		return
	}
	dfrs = append(dfrs, func() {
		err := pg.Shutdown(ctx)
		assert.NoError(t, err, "failed to shutdown test database")
	})
	u := pg.ConnectionString()
	for pool == nil {
		pool, err = postgres.NewPool(
			ctx2, u, postgres.WithQueryLogLevel("silent"),
		)
		if retryable(ctx2, err) {
			time.Sleep(100 * time.Millisecond)
			continue
		}
		if ok = assert.NoError(t, err, "cannot connect to test database"); !ok {
			return
		}
	}
	dfrs = append(dfrs, func() {
		err := pool.Close()
		assert.NoError(t, err, "failed to close the connections pool")
	})
	return
}

// retryable reports if err is caused by a starting database server
// and connecting may be attempted again before ctx deadline.
func retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.SQLState() == "57P03" {
		return true // the database system is starting up
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
