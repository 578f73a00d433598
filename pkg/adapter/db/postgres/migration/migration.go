// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migration maps a database schema version to the stlmigN
// package which creates the tables of the N major version. Only the
// latest minor version of each major version is created.
package migration

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/adapter/db/postgres/migration/settle/stlmig1"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// check returns an error if v can not be served by any stlmigN.
func check(v model.SemVer) error {
	switch v[0] {
	case 1:
		if v[1] > stlmig1.Minor {
			return fmt.Errorf("unsupported minor: %d", v[1])
		}
		return nil
	default:
		return fmt.Errorf("unsupported major: %d", v[0])
	}
}

// LatestVersion returns the version which is created for the major
// version of v. It fails if v asks for a minor version which is not
// known yet.
func LatestVersion(v model.SemVer) (model.SemVer, error) {
	if err := check(v); err != nil {
		return model.SemVer{}, err
	}
	return model.SemVer{1, stlmig1.Minor, stlmig1.Patch}, nil
}

// NewInitializer returns the SchemaInitializer of v which creates the
// tables in tx. Committing tx is left to the caller.
func NewInitializer(tx repo.Tx, v model.SemVer) (
	repo.SchemaInitializer, error,
) {
	if err := check(v); err != nil {
		return nil, err
	}
	return stlmig1.New(tx), nil
}
