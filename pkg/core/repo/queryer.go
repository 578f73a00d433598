// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// Queryer runs raw SQL statements. Repositories prefer their typed
// queryers; raw statements are used by the schema initialization and
// the test verifiers.
type Queryer interface {
	// Exec runs sql and returns the number of affected rows.
	Exec(ctx context.Context, sql string, args ...any) (int64, error)

	// Query runs sql and returns its result set, which must be closed
	// before the next statement.
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
}

// Rows iterates over a result set. Err must be checked after Next
// returns false.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
}
