// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
)

type Users interface {
	Conn(Conn) UsersConnQueryer
	Tx(Tx) UsersTxQueryer
}

type UsersConnQueryer interface {
	UsersQueryer
}

type UsersTxQueryer interface {
	UsersQueryer

	// Create inserts u, returning a cerr.Conflict error if its email
	// is already registered.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// UpdateProfile stores the name and phone of u.
	UpdateProfile(ctx context.Context, u *model.User) (*model.User, error)
}

type UsersQueryer interface {
	FindByID(ctx context.Context, userID uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

// Sessions stores the refresh tokens. Unlike other repositories, it
// is not backed by the relational database and needs no connection.
type Sessions interface {
	// Store saves token for userID user, expiring it after ttl.
	Store(
		ctx context.Context, token string, userID uuid.UUID,
		ttl time.Duration,
	) error

	// Take atomically fetches and removes token, so a refresh token
	// may be used once. A cerr.Authentication error is returned if
	// token is unknown or expired.
	Take(ctx context.Context, token string) (uuid.UUID, error)

	// Revoke removes token. Revoking an unknown token is not an error.
	Revoke(ctx context.Context, token string) error
}
