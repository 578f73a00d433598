// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package sch1 provides database schema major version 1 verification
// logic. This implementation may be instantiated indirectly using
// the github.com/momeni/car-rental/internal/test/schema package.
package sch1

import (
	"context"
	"sort"
	"testing"

	"github.com/momeni/car-rental/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These constants present the relevant major, minor, and patch semantic
// versions of this schema verifier package. They follow the stlmig1
// package because whenever a new minor version is released, stlmig1
// has to create it and this verifier needs to check it too.
const (
	Major = stlmig1.Major
	Minor = stlmig1.Minor
	Patch = stlmig1.Patch
)

var expectedColumns = map[string][]string{
	"cars": {
		"availability", "brand", "category", "created_at", "fuel_type",
		"id", "lat", "lon", "model", "name", "number_of_reviews",
		"price_per_day", "rating", "seats", "stock", "transmission",
		"updated_at", "year",
	},
	"users": {
		"created_at", "email", "id", "name", "password_hash", "phone",
		"role", "updated_at",
	},
	"services": {
		"active", "created_at", "description", "id", "name", "price",
		"type", "updated_at",
	},
	"bookings": {
		"car_id", "created_at", "dropoff_location", "end_date", "extras",
		"id", "payment_status", "pickup_location", "services",
		"start_date", "status", "stock_held", "total_amount",
		"updated_at", "user_id",
	},
	"reviews": {
		"car_id", "comment", "created_at", "id", "rating", "updated_at",
		"user_id",
	},
}

// Verifier implements the schema major version 1 verification logic. It
// implements github.com/momeni/car-rental/internal/test/schema.Verifier
// interface and wraps a database connection as noted in New function.
type Verifier struct {
	c repo.Conn // database connection which is used for testing
}

// New instantiates a Verifier struct, wrapping the `c` database
// connection.
func New(c repo.Conn) *Verifier {
	return &Verifier{c}
}

// VerifySchema checks that all tables of the Major major version exist
// in the first schema of the search_path with their expected columns.
// Extra columns (of a more recent minor version) are acceptable.
func (v *Verifier) VerifySchema(ctx context.Context, t *testing.T) {
	for table, cols := range expectedColumns {
		got := v.columns(ctx, t, table)
		for _, col := range cols {
			assert.Contains(t, got, col, "table %q", table)
		}
	}
	// stock may not become negative
	_, err := v.c.Exec(ctx, `INSERT INTO cars (
    id, name, brand, model, year, price_per_day, stock
) VALUES (gen_random_uuid(), 'x', 'x', 'x', 2020, 1, -1)`)
	assert.Error(t, err, "negative stock was accepted")
}

func (v *Verifier) columns(
	ctx context.Context, t *testing.T, table string,
) []string {
	rows, err := v.c.Query(ctx, `SELECT column_name
FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1`, table)
	require.NoError(t, err, "querying columns of %q", table)
	defer rows.Close()
	var cols []string
	for rows.Next() {
		var col string
		require.NoError(t, rows.Scan(&col))
		cols = append(cols, col)
	}
	require.NoError(t, rows.Err())
	sort.Strings(cols)
	return cols
}

func (v *Verifier) count(
	ctx context.Context, t *testing.T, query string,
) int {
	rows, err := v.c.Query(ctx, query)
	require.NoError(t, err, "running %q", query)
	defer rows.Close()
	require.True(t, rows.Next(), "no rows for %q", query)
	var n int
	require.NoError(t, rows.Scan(&n))
	return n
}

// VerifyDevData checks for presence of the development suitable initial
// data and marks possible issues using the `t` testing argument.
// Presence of extra rows is acceptable.
func (v *Verifier) VerifyDevData(ctx context.Context, t *testing.T) {
	assert.GreaterOrEqual(t, v.count(ctx, t,
		"SELECT count(*) FROM cars WHERE availability AND stock > 0",
	), 3)
	assert.GreaterOrEqual(t, v.count(ctx, t,
		"SELECT count(*) FROM cars WHERE NOT availability AND stock = 0",
	), 1)
	assert.GreaterOrEqual(t, v.count(ctx, t,
		"SELECT count(*) FROM services WHERE active",
	), 3)
}
