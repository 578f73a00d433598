// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// SchemaInitializer creates the tables of one schema major version.
// Implementations are bound to a transaction and a schema name when
// they are created, so the methods only take a context.
type SchemaInitializer interface {
	// InitDevSchema creates the tables and inserts the sample cars,
	// services, and users.
	InitDevSchema(ctx context.Context) error

	// InitProdSchema creates the tables without any rows.
	InitProdSchema(ctx context.Context) error
}

// Schema manages the crwebN schemas and the database roles. It is
// used by the admin role while the database is being initialized.
type Schema interface {
	// Tx returns a SchemaTxQueryer which runs in tx.
	// Role creation and password changes are grouped in a single
	// transaction, so a new role is never visible without a password.
	Tx(Tx) SchemaTxQueryer
}

// SchemaTxQueryer lists the schema and role management statements.
// Role names are suffixed with the configured role suffix (if any).
// Schema names must come from trusted sources (see
// migrationuc.SchemaName); they are quoted but not validated.
type SchemaTxQueryer interface {
	// DropIfExists drops schema and all of its tables. A missing
	// schema is not an error.
	DropIfExists(ctx context.Context, schema string) error

	// CreateSchema creates schema, failing if it exists.
	CreateSchema(ctx context.Context, schema string) error

	// CreateRoleIfNotExists creates a LOGIN role without a password.
	CreateRoleIfNotExists(ctx context.Context, role Role) error

	// GrantPrivileges grants ALL on schema to role.
	GrantPrivileges(ctx context.Context, schema string, role Role) error

	// SetSearchPath makes schema the default search_path of role.
	SetSearchPath(ctx context.Context, schema string, role Role) error

	// ChangePasswords sets passwords[i] as the password of roles[i].
	// Both slices must have the same length. Passwords are sent as
	// SCRAM verifiers, never in plaintext.
	ChangePasswords(
		ctx context.Context, roles []Role, passwords []string,
	) error
}
