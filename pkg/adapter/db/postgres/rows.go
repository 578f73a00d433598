// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package postgres

import "database/sql"

// rowsAdapter exposes *sql.Rows as repo.Rows.
type rowsAdapter struct {
	*sql.Rows
}

// Close drops the close error; it is reported by Err too.
func (ra rowsAdapter) Close() {
	_ = ra.Rows.Close()
}
