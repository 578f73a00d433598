// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reviewsrp provides the PostgreSQL reification of the
// repo.Reviews interface.
package reviewsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Repo represents the reviews repository.
type Repo struct {
}

// New instantiates a reviews Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (reviews *Repo) Conn(c repo.Conn) repo.ReviewsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindByID(
	ctx context.Context, reviewID uuid.UUID,
) (*model.Review, error) {
	return FindByID(ctx, cq.Conn, reviewID)
}

func (cq connQueryer) List(
	ctx context.Context, f repo.ReviewFilter,
) ([]model.Review, error) {
	return List(ctx, cq.Conn, f)
}

type txQueryer struct {
	*postgres.Tx
}

func (reviews *Repo) Tx(tx repo.Tx) repo.ReviewsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindByID(
	ctx context.Context, reviewID uuid.UUID,
) (*model.Review, error) {
	return FindByID(ctx, tq.Tx, reviewID)
}

func (tq txQueryer) List(
	ctx context.Context, f repo.ReviewFilter,
) ([]model.Review, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) Create(
	ctx context.Context, r *model.Review,
) (*model.Review, error) {
	return Create(ctx, tq.Tx, r)
}

func (tq txQueryer) Update(
	ctx context.Context, r *model.Review,
) (*model.Review, error) {
	return Update(ctx, tq.Tx, r)
}

func (tq txQueryer) Delete(ctx context.Context, reviewID uuid.UUID) error {
	return Delete(ctx, tq.Tx, reviewID)
}

func (tq txQueryer) RatingsOf(
	ctx context.Context, carID uuid.UUID,
) ([]int, error) {
	return RatingsOf(ctx, tq.Tx, carID)
}
