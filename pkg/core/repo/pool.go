// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import "context"

// ConnHandler is a function which uses a pooled connection.
type ConnHandler func(context.Context, Conn) error

// Pool lends database connections. Conn acquires one, runs handler,
// and puts the connection back into the pool when handler returns.
type Pool interface {
	Conn(ctx context.Context, handler ConnHandler) error
}
