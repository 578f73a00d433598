// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package migrationuc contains the database initialization use case.
// It prepares an empty crwebN schema (N being the schema major
// version), the normal database role with privileges on that schema,
// and fresh passwords for the admin and normal roles, before creating
// the tables and filling them with the development or production
// suitable rows.
package migrationuc
