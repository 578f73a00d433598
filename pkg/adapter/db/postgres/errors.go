// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"gorm.io/gorm"
)

// SQLSTATE codes which are translated by Error.
const (
	foreignKeyViolation = "23503"
	uniqueViolation     = "23505"
	checkViolation      = "23514"
)

// Error translates err, as returned by GORM or the pgx driver while
// working on `entity` rows, to a *cerr.Error if it has a meaning for
// the use cases layer. Other errors are wrapped as is.
// A nil err is returned as nil.
func Error(err error, entity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return cerr.NotFound(fmt.Errorf("%s not found", entity))
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("query %s: %w", entity, err)
	}
	switch pgErr.Code {
	case uniqueViolation:
		return cerr.Conflict(fmt.Errorf(
			"%s already exists (%s)", entity, pgErr.ConstraintName,
		))
	case foreignKeyViolation:
		return cerr.NotFound(fmt.Errorf(
			"%s refers to a missing row (%s)", entity, pgErr.ConstraintName,
		))
	case checkViolation:
		return cerr.Conflict(fmt.Errorf(
			"%s violates %s", entity, pgErr.ConstraintName,
		))
	default:
		return fmt.Errorf("query %s: %w", entity, err)
	}
}

// IsUniqueViolation reports if err is caused by a unique constraint
// (or primary key) violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
