// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrp provides the PostgreSQL reification of the
// repo.Users interface.
package usersrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Repo represents the users repository.
type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (users *Repo) Conn(c repo.Conn) repo.UsersConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindByID(
	ctx context.Context, userID uuid.UUID,
) (*model.User, error) {
	return FindByID(ctx, cq.Conn, userID)
}

func (cq connQueryer) FindByEmail(
	ctx context.Context, email string,
) (*model.User, error) {
	return FindByEmail(ctx, cq.Conn, email)
}

func (cq connQueryer) List(ctx context.Context) ([]model.User, error) {
	return List(ctx, cq.Conn)
}

type txQueryer struct {
	*postgres.Tx
}

func (users *Repo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindByID(
	ctx context.Context, userID uuid.UUID,
) (*model.User, error) {
	return FindByID(ctx, tq.Tx, userID)
}

func (tq txQueryer) FindByEmail(
	ctx context.Context, email string,
) (*model.User, error) {
	return FindByEmail(ctx, tq.Tx, email)
}

func (tq txQueryer) List(ctx context.Context) ([]model.User, error) {
	return List(ctx, tq.Tx)
}

func (tq txQueryer) Create(
	ctx context.Context, u *model.User,
) (*model.User, error) {
	return Create(ctx, tq.Tx, u)
}

func (tq txQueryer) UpdateProfile(
	ctx context.Context, u *model.User,
) (*model.User, error) {
	return UpdateProfile(ctx, tq.Tx, u)
}
