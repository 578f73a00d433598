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

// Queryer is the type constraint of the generic repository functions,
// so each query is written once and is called with either a *Conn or
// a *Tx (through the GORM method which both of them provide).
type Queryer interface {
	*Conn | *Tx
	repo.Queryer
	GORM(ctx context.Context) *gorm.DB
}

func exec(gdb *gorm.DB, sql string, args ...any) (int64, error) {
	gdb = gdb.Exec(sql, args...)
	if err := gdb.Error; err != nil {
		return 0, err
	}
	return gdb.RowsAffected, nil
}

func query(gdb *gorm.DB, sql string, args ...any) (repo.Rows, error) {
	rows, err := gdb.Raw(sql, args...).Rows()
	if err != nil {
		return nil, err
	}
	return rowsAdapter{rows}, nil
}
