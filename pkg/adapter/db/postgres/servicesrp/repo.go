// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package servicesrp provides the PostgreSQL reification of the
// repo.Services interface for the additional services catalog.
package servicesrp

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Repo represents the additional services repository.
type Repo struct {
}

func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

func (services *Repo) Conn(c repo.Conn) repo.ServicesConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindByID(
	ctx context.Context, serviceID uuid.UUID,
) (*model.AdditionalService, error) {
	return FindByID(ctx, cq.Conn, serviceID)
}

func (cq connQueryer) List(
	ctx context.Context, includeInactive bool,
) ([]model.AdditionalService, error) {
	return List(ctx, cq.Conn, includeInactive)
}

func (cq connQueryer) FindActive(
	ctx context.Context, ids []uuid.UUID,
) ([]model.AdditionalService, error) {
	return FindActive(ctx, cq.Conn, ids)
}

type txQueryer struct {
	*postgres.Tx
}

func (services *Repo) Tx(tx repo.Tx) repo.ServicesTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindByID(
	ctx context.Context, serviceID uuid.UUID,
) (*model.AdditionalService, error) {
	return FindByID(ctx, tq.Tx, serviceID)
}

func (tq txQueryer) List(
	ctx context.Context, includeInactive bool,
) ([]model.AdditionalService, error) {
	return List(ctx, tq.Tx, includeInactive)
}

func (tq txQueryer) FindActive(
	ctx context.Context, ids []uuid.UUID,
) ([]model.AdditionalService, error) {
	return FindActive(ctx, tq.Tx, ids)
}

func (tq txQueryer) Create(
	ctx context.Context, s *model.AdditionalService,
) (*model.AdditionalService, error) {
	return Create(ctx, tq.Tx, s)
}

func (tq txQueryer) Update(
	ctx context.Context, s *model.AdditionalService,
) (*model.AdditionalService, error) {
	return Update(ctx, tq.Tx, s)
}

func (tq txQueryer) Deactivate(
	ctx context.Context, serviceID uuid.UUID,
) error {
	return Deactivate(ctx, tq.Tx, serviceID)
}
