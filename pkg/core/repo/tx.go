// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Tx is a database transaction which groups the reads and writes of
// a single use case step (for example, locking a car row, checking its
// stock, inserting a booking, and decrementing the stock). It must be
// used by one goroutine at a time. PostgreSQL runs it in the default
// READ-COMMITTED isolation level, so the repositories lock the rows
// which they intend to update.
type Tx interface {
	Queryer

	// IsTx distinguishes a Tx from a Conn which has the same methods.
	IsTx()
}
