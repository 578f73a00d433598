// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrp provides the PostgreSQL reification of the repo.Cars
// interface. Its generic functions may run on a *postgres.Conn or a
// *postgres.Tx, while the locking and writing functions require a
// transaction.
package carsrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Repo represents the cars repository.
type Repo struct {
}

// New instantiates a cars Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (cars *Repo) Conn(c repo.Conn) repo.CarsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindByID(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return FindByID(ctx, cq.Conn, carID)
}

func (cq connQueryer) List(
	ctx context.Context, includeUnavailable bool,
) ([]model.Car, error) {
	return List(ctx, cq.Conn, includeUnavailable)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic.
func (cars *Repo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindByID(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return FindByID(ctx, tq.Tx, carID)
}

func (tq txQueryer) List(
	ctx context.Context, includeUnavailable bool,
) ([]model.Car, error) {
	return List(ctx, tq.Tx, includeUnavailable)
}

func (tq txQueryer) LockByID(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return LockByID(ctx, tq.Tx, carID)
}

func (tq txQueryer) Create(
	ctx context.Context, c *model.Car,
) (*model.Car, error) {
	return Create(ctx, tq.Tx, c)
}

func (tq txQueryer) Update(
	ctx context.Context, c *model.Car,
) (*model.Car, error) {
	return Update(ctx, tq.Tx, c)
}

func (tq txQueryer) Delete(ctx context.Context, carID uuid.UUID) error {
	return Delete(ctx, tq.Tx, carID)
}

func (tq txQueryer) DecrementStock(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return DecrementStock(ctx, tq.Tx, carID)
}

func (tq txQueryer) IncrementStock(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return IncrementStock(ctx, tq.Tx, carID)
}

func (tq txQueryer) ToggleAvailability(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return ToggleAvailability(ctx, tq.Tx, carID)
}

func (tq txQueryer) SetRating(
	ctx context.Context, carID uuid.UUID, rating float64, count int,
) error {
	return SetRating(ctx, tq.Tx, carID, rating, count)
}
