// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package stlmig1 provides Settler type for database schema major
// version 1. It creates the crweb1 tables in an existing schema and
// fills them with the development or production suitable initial data.
package stlmig1

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// These constants indicate the major, minor, and patch components of
// the database schema which is created by this settler. Each major
// version has a separate stlmigN package and the Minor is the latest
// supported minor version within the Major major version series.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

var (
	//go:embed schema.sql
	schemaSQL string

	//go:embed dev_data.sql
	devDataSQL string
)

// Settler struct creates and fills the tables of the major version 1
// database schema. Each instance of Settler wraps and uses a single
// transaction of the destination database, but the caller is
// responsible to commit that transaction in order to finalize the
// initialization results.
type Settler struct {
	tx *postgres.Tx // destination database transaction
}

// New creates a new Settler instance, wrapping the given `tx` database
// transaction. The settler object expects the database schema to exist
// (and be the first entry of the search_path) and only tries to create
// relevant tables in that schema.
func New(tx repo.Tx) *Settler {
	return &Settler{
		tx: tx.(*postgres.Tx),
	}
}

// InitDevSchema creates major version 1 tables in crweb1 schema and
// fills them with a few cars and additional services.
func (sm1 *Settler) InitDevSchema(ctx context.Context) error {
	if err := sm1.execScript(ctx, "schema", schemaSQL); err != nil {
		return err
	}
	return sm1.execScript(ctx, "dev data", devDataSQL)
}

// InitProdSchema creates major version 1 tables in crweb1 schema.
// Production catalog is managed by administrators, so no rows are
// inserted.
func (sm1 *Settler) InitProdSchema(ctx context.Context) error {
	return sm1.execScript(ctx, "schema", schemaSQL)
}

// MajorVersion returns the major semantic version of this Settler
// instance. It can be called with a nil instance too.
func (sm1 *Settler) MajorVersion() uint {
	return Major
}

func (sm1 *Settler) execScript(
	ctx context.Context, name, script string,
) error {
	for i, stmt := range statements(script) {
		if _, err := sm1.tx.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("%s: statement #%d: %w", name, i+1, err)
		}
	}
	return nil
}

// statements splits script by the semicolons which terminate a line.
func statements(script string) []string {
	var stmts []string
	for _, s := range strings.Split(script, ";\n") {
		if s = strings.TrimSpace(s); s != "" {
			stmts = append(stmts, strings.TrimSuffix(s, ";"))
		}
	}
	return stmts
}
