// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"

	"github.com/momeni/car-rental/pkg/core/repo"
	"gorm.io/gorm"
)

// Tx is an open READ-COMMITTED transaction. It must not be shared
// between goroutines. Booking and car repositories take row locks
// (SELECT ... FOR UPDATE) through it, so stock checks and decrements
// of one booking request are serialized against concurrent requests
// for the same car.
type Tx struct {
	*gorm.DB
}

// Exec runs sql within the transaction and reports how many rows
// were touched. Placeholders may be written as $n, ? or @name.
func (tx *Tx) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	return exec(tx.GORM(ctx), sql, args...)
}

// Query runs a single statement within the transaction. The returned
// rows must be closed before the next statement is issued.
func (tx *Tx) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	return query(tx.GORM(ctx), sql, args...)
}

// IsTx marks the type as a repo.Tx.
func (tx *Tx) IsTx() {
}

// GORM returns a session of the transaction which is bound to ctx.
func (tx *Tx) GORM(ctx context.Context) *gorm.DB {
	return tx.DB.WithContext(ctx)
}
