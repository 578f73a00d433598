// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package repo specifies the expected interfaces of the repositories
// which are used by the use cases. Each repository exposes a Conn and
// a Tx method which unwrap a database connection or transaction and
// return a queryer object for running the repository operations.
// Operations which must be atomic with others (e.g., locking a row
// before updating it) are only exposed by the TxQueryer interfaces.
package repo

import "context"

// TxHandler is a function which runs in a transaction. Returning
// a non-nil error rolls back the transaction.
type TxHandler func(context.Context, Tx) error

// Conn represents a single database connection.
type Conn interface {
	Queryer

	// Tx begins a transaction, passes it to handler, and commits it
	// if handler returns nil (rolling it back otherwise).
	Tx(ctx context.Context, handler TxHandler) error

	// IsConn distinguishes a Conn from a Tx which has the same
	// statement methods.
	IsConn()
}
