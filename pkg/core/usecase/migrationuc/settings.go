// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package migrationuc

import (
	"context"

	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Pool is a database connection pool which must be closed after use.
type Pool interface {
	repo.Pool

	Close() error
}

// Settings interface specifies the expectations of the initialization
// use case from the configuration settings. The adapters layer
// implements it by the configuration file contents, so the use cases
// layer does not need to know about its format.
type Settings interface {
	// ConnectionPool creates a database connection pool, connecting
	// as the `r` role.
	ConnectionPool(ctx context.Context, r repo.Role) (Pool, error)

	// NewSchemaRepo instantiates a fresh Schema repository.
	NewSchemaRepo() repo.Schema

	// SchemaInitializer creates a repo.SchemaInitializer instance which
	// wraps the given transaction, creating tables in the format of
	// the SchemaVersion.
	SchemaInitializer(tx repo.Tx) (repo.SchemaInitializer, error)

	// RenewPasswords generates new passwords for the given roles,
	// records them in a temporary passwords file, and calls change
	// in order to update them in the database. The returned finalizer
	// must be called after the change transaction is committed, so
	// the temporary file replaces the main passwords file.
	RenewPasswords(
		ctx context.Context,
		change func(
			ctx context.Context,
			roles []repo.Role,
			passwords []string,
		) error,
		roles ...repo.Role,
	) (finalizer func() error, err error)

	// SchemaVersion returns the semantic version of the database
	// schema which should be initialized.
	SchemaVersion() model.SemVer
}
