// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookingsrp provides the PostgreSQL reification of the
// repo.Bookings interface. The selected services, pickup and dropoff
// locations, and extras of each booking are kept in JSONB columns.
package bookingsrp

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Repo represents the bookings repository.
type Repo struct {
}

// New instantiates a bookings Repo.
func New() *Repo {
	return &Repo{}
}

type connQueryer struct {
	*postgres.Conn
}

// Conn unwraps the given repo.Conn instance, expecting to find an
// instance of *postgres.Conn as created by this adapter layer.
// Otherwise, it will panic.
func (bookings *Repo) Conn(c repo.Conn) repo.BookingsConnQueryer {
	cc := c.(*postgres.Conn)
	return connQueryer{Conn: cc}
}

func (cq connQueryer) FindByID(
	ctx context.Context, bookingID uuid.UUID,
) (*model.Booking, error) {
	return FindByID(ctx, cq.Conn, bookingID)
}

func (cq connQueryer) List(
	ctx context.Context, f repo.BookingFilter,
) ([]model.Booking, error) {
	return List(ctx, cq.Conn, f)
}

func (cq connQueryer) HasConflict(
	ctx context.Context,
	carID uuid.UUID,
	r model.DateRange,
	exclude *uuid.UUID,
) (bool, error) {
	return HasConflict(ctx, cq.Conn, carID, r, exclude)
}

type txQueryer struct {
	*postgres.Tx
}

// Tx unwraps the given repo.Tx instance, expecting to find an instance
// of *postgres.Tx as created by this adapter layer. Otherwise, it will
// panic.
func (bookings *Repo) Tx(tx repo.Tx) repo.BookingsTxQueryer {
	tt := tx.(*postgres.Tx)
	return txQueryer{Tx: tt}
}

func (tq txQueryer) FindByID(
	ctx context.Context, bookingID uuid.UUID,
) (*model.Booking, error) {
	return FindByID(ctx, tq.Tx, bookingID)
}

func (tq txQueryer) List(
	ctx context.Context, f repo.BookingFilter,
) ([]model.Booking, error) {
	return List(ctx, tq.Tx, f)
}

func (tq txQueryer) HasConflict(
	ctx context.Context,
	carID uuid.UUID,
	r model.DateRange,
	exclude *uuid.UUID,
) (bool, error) {
	return HasConflict(ctx, tq.Tx, carID, r, exclude)
}

func (tq txQueryer) LockByID(
	ctx context.Context, bookingID uuid.UUID,
) (*model.Booking, error) {
	return LockByID(ctx, tq.Tx, bookingID)
}

func (tq txQueryer) Create(
	ctx context.Context, b *model.Booking,
) (*model.Booking, error) {
	return Create(ctx, tq.Tx, b)
}

func (tq txQueryer) UpdateState(
	ctx context.Context, bookingID uuid.UUID, s model.BookingState,
) (*model.Booking, error) {
	return UpdateState(ctx, tq.Tx, bookingID, s)
}

func (tq txQueryer) Delete(ctx context.Context, bookingID uuid.UUID) error {
	return Delete(ctx, tq.Tx, bookingID)
}

func (tq txQueryer) CountHoldingStock(
	ctx context.Context, carID uuid.UUID,
) (int, error) {
	return CountHoldingStock(ctx, tq.Tx, carID)
}

func (tq txQueryer) CompleteExpired(
	ctx context.Context, now time.Time,
) ([]model.Booking, error) {
	return CompleteExpired(ctx, tq.Tx, now)
}
