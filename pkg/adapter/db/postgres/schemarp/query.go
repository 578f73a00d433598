// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package schemarp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/scram"
)

// hashIterations is used for the database role verifiers.
const hashIterations = 15000

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func roleName(roleSuffix, role repo.Role) string {
	return string(role) + string(roleSuffix)
}

// DropIfExists drops schema and its tables (CASCADE), if it exists.
func DropIfExists[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	err := q.GORM(ctx).Exec(
		"DROP SCHEMA IF EXISTS " + ident(schema) + " CASCADE",
	).Error
	if err != nil {
		return fmt.Errorf("dropping schema %q: %w", schema, err)
	}
	return nil
}

// CreateSchema creates schema. It fails if schema exists already.
func CreateSchema[Q postgres.Queryer](
	ctx context.Context, q Q, schema string,
) error {
	err := q.GORM(ctx).Exec("CREATE SCHEMA " + ident(schema)).Error
	if err != nil {
		return fmt.Errorf("creating schema %q: %w", schema, err)
	}
	return nil
}

// CreateRoleIfNotExists creates role+roleSuffix as a LOGIN role
// without a password, unless pg_roles has it already.
func CreateRoleIfNotExists[Q postgres.Queryer](
	ctx context.Context, q Q, roleSuffix repo.Role, role repo.Role,
) error {
	rn := roleName(roleSuffix, role)
	var n int64
	err := q.GORM(ctx).Raw(
		"SELECT count(*) FROM pg_roles WHERE rolname = ?", rn,
	).Scan(&n).Error
	if err != nil {
		return fmt.Errorf("looking up role %q: %w", rn, err)
	}
	if n > 0 {
		return nil
	}
	err = q.GORM(ctx).Exec("CREATE ROLE " + ident(rn) + " LOGIN").Error
	if err != nil {
		return fmt.Errorf("creating role %q: %w", rn, err)
	}
	return nil
}

// GrantPrivileges lets role+roleSuffix create and use the tables
// of schema.
func GrantPrivileges[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	rn := roleName(roleSuffix, role)
	err := q.GORM(ctx).Exec(
		"GRANT ALL ON SCHEMA " + ident(schema) + " TO " + ident(rn),
	).Error
	if err != nil {
		return fmt.Errorf("granting %q to %q: %w", schema, rn, err)
	}
	return nil
}

// SetSearchPath makes schema the only default search_path entry of
// role+roleSuffix, so the repositories may use unqualified names.
func SetSearchPath[Q postgres.Queryer](
	ctx context.Context,
	q Q,
	roleSuffix repo.Role,
	schema string,
	role repo.Role,
) error {
	rn := roleName(roleSuffix, role)
	err := q.GORM(ctx).Exec(
		"ALTER ROLE " + ident(rn) + " SET search_path TO " + ident(schema),
	).Error
	if err != nil {
		return fmt.Errorf("setting search_path of %q: %w", rn, err)
	}
	return nil
}

// ChangePasswords sends the SCRAM verifier of passwords[i] as the
// password of roles[i]+roleSuffix, so plaintext passwords are never
// written to the statement logs.
func ChangePasswords(
	ctx context.Context,
	tx *postgres.Tx,
	roleSuffix repo.Role,
	hasher scram.Hasher,
	roles []repo.Role,
	passwords []string,
) error {
	if len(roles) != len(passwords) {
		return fmt.Errorf(
			"roles (%d) and passwords (%d) count mismatch",
			len(roles), len(passwords),
		)
	}
	for i, role := range roles {
		rn := roleName(roleSuffix, role)
		h, err := hasher.Hash(passwords[i], "", hashIterations)
		if err != nil {
			return fmt.Errorf("hashing password of %q: %w", rn, err)
		}
		if strings.ContainsRune(h, '\'') {
			return errors.New("hashed password contains a quote")
		}
		// ALTER ROLE is a utility statement and takes no parameters.
		err = tx.GORM(ctx).Exec(
			"ALTER ROLE " + ident(rn) + " PASSWORD '" + h + "'",
		).Error
		if err != nil {
			return fmt.Errorf("changing password of %q: %w", rn, err)
		}
	}
	return nil
}
