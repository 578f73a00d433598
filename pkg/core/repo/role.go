// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

// Role is a database role name. Roles are suffixed by the configured
// role suffix (if any) before being sent to the DBMS, so parallel test
// suites may use distinct roles in one database cluster.
type Role string

// These constants specify the expected database roles.
// The AdminRole must exist beforehand with the super user privileges
// and its password must be present in the pgpass file, so the db
// init-dev and init-prod commands can prepare everything else.
const (
	// AdminRole drops and creates the crwebN schema, creates the
	// NormalRole, and renews the passwords. It is never used by the
	// web server.
	AdminRole Role = "admin"

	// NormalRole owns the tables of the crwebN schema and is used by
	// the web server and the management commands for all queries.
	// Its search_path is set to the crwebN schema.
	NormalRole Role = "crweb"
)
