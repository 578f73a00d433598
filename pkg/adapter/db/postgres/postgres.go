// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package postgres is the PostgreSQL adapter of the repo package
// interfaces. It provides the Pool, Conn, and Tx types on top of
// GORM and the pgx driver, while the per-entity repositories live in
// its sub-packages (e.g., carsrp and bookingsrp) and depend on the
// Queryer constraint for running their queries in a connection or
// a transaction alike.
package postgres

import "github.com/momeni/car-rental/pkg/core/model"

// These constants represent the major, minor, and patch components of
// the current database schema semantic version. The migration package
// creates tables of this version and the configuration file must ask
// for the same major version.
const (
	Major = 1 // latest supported schema major version
	Minor = 0 // latest schema minor version in Major series
	Patch = 0 // latest schema patch version in Minor series
)

// Version is the latest supported database schema semantic version.
var Version = model.SemVer{Major, Minor, Patch}
