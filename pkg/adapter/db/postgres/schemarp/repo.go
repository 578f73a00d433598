// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schemarp implements repo.Schema for PostgreSQL.
package schemarp

import (
	"context"

	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/scram"
)

// Repo is the schema management repository. Role names are suffixed
// by roleSuffix and role passwords are hashed by hasher.
type Repo struct {
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// New creates a schema management Repo.
func New(roleSuffix repo.Role, hasher scram.Hasher) *Repo {
	return &Repo{
		roleSuffix: roleSuffix,
		hasher:     hasher,
	}
}

type txQueryer struct {
	*postgres.Tx
	roleSuffix repo.Role
	hasher     scram.Hasher
}

// Tx expects tx to be a *postgres.Tx and panics otherwise.
func (schema *Repo) Tx(tx repo.Tx) repo.SchemaTxQueryer {
	return txQueryer{
		Tx:         tx.(*postgres.Tx),
		roleSuffix: schema.roleSuffix,
		hasher:     schema.hasher,
	}
}

func (tq txQueryer) DropIfExists(ctx context.Context, schema string) error {
	return DropIfExists(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateSchema(ctx context.Context, schema string) error {
	return CreateSchema(ctx, tq.Tx, schema)
}

func (tq txQueryer) CreateRoleIfNotExists(
	ctx context.Context, role repo.Role,
) error {
	return CreateRoleIfNotExists(ctx, tq.Tx, tq.roleSuffix, role)
}

func (tq txQueryer) GrantPrivileges(
	ctx context.Context, schema string, role repo.Role,
) error {
	return GrantPrivileges(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

func (tq txQueryer) SetSearchPath(
	ctx context.Context, schema string, role repo.Role,
) error {
	return SetSearchPath(ctx, tq.Tx, tq.roleSuffix, schema, role)
}

func (tq txQueryer) ChangePasswords(
	ctx context.Context, roles []repo.Role, passwords []string,
) error {
	return ChangePasswords(
		ctx, tq.Tx, tq.roleSuffix, tq.hasher, roles, passwords,
	)
}
