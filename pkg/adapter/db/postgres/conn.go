// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"context"
	"fmt"

	"github.com/momeni/car-rental/pkg/core/repo"
	"gorm.io/gorm"
)

// Conn is a pooled connection. Statements which run on it directly
// are auto-committed; Tx groups them in an explicit transaction.
type Conn struct {
	*gorm.DB
}

type TxHandler = repo.TxHandler

// Tx runs f in a new transaction, committing it when f returns nil.
// A returned error (or a panic, which is re-raised) rolls it back.
// Errors of f are returned as is, so callers may inspect their
// cerr codes with errors.As.
func (c *Conn) Tx(ctx context.Context, f TxHandler) error {
	var handlerErr error
	err := c.DB.WithContext(ctx).Transaction(func(gtx *gorm.DB) error {
		handlerErr = f(ctx, &Tx{DB: gtx})
		return handlerErr
	})
	switch {
	case handlerErr != nil:
		return handlerErr
	case err != nil:
		return fmt.Errorf("committing tx: %w", err)
	}
	return nil
}

// Exec runs sql in its own implicit transaction.
func (c *Conn) Exec(
	ctx context.Context, sql string, args ...any,
) (int64, error) {
	return exec(c.GORM(ctx), sql, args...)
}

// Query runs sql in its own implicit transaction.
func (c *Conn) Query(
	ctx context.Context, sql string, args ...any,
) (repo.Rows, error) {
	return query(c.GORM(ctx), sql, args...)
}

// IsConn marks the type as a repo.Conn.
func (c *Conn) IsConn() {
}

// GORM returns a session of the connection which is bound to ctx.
func (c *Conn) GORM(ctx context.Context) *gorm.DB {
	return c.DB.WithContext(ctx)
}
