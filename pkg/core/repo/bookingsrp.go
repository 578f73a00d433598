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

// BookingFilter restricts a bookings listing. Nil fields match all
// bookings.
type BookingFilter struct {
	UserID *uuid.UUID
	CarID  *uuid.UUID
	Status *model.BookingStatus
}

// Matches reports if b passes the f filter.
func (f BookingFilter) Matches(b *model.Booking) bool {
	if f.UserID != nil && *f.UserID != b.UserID {
		return false
	}
	if f.CarID != nil && *f.CarID != b.CarID {
		return false
	}
	if f.Status != nil && *f.Status != b.Status {
		return false
	}
	return true
}

// Bookings is the bookings repository.
type Bookings interface {
	Conn(Conn) BookingsConnQueryer
	Tx(Tx) BookingsTxQueryer
}

type BookingsConnQueryer interface {
	BookingsQueryer
}

type BookingsTxQueryer interface {
	BookingsQueryer

	// LockByID finds the bookingID booking and locks its row until
	// the end of the current transaction.
	LockByID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error)

	Create(ctx context.Context, b *model.Booking) (*model.Booking, error)

	// UpdateState stores the status, payment status, and stock holding
	// flag of the bookingID booking.
	UpdateState(
		ctx context.Context, bookingID uuid.UUID, s model.BookingState,
	) (*model.Booking, error)

	Delete(ctx context.Context, bookingID uuid.UUID) error

	// CountHoldingStock counts bookings of the carID car which still
	// hold a unit of its stock.
	CountHoldingStock(ctx context.Context, carID uuid.UUID) (int, error)

	// CompleteExpired marks active (and legacy confirmed) bookings
	// which have ended before now as completed and clears their stock
	// holding flags. Completed bookings are returned as they were
	// before the update, so the held units can be given back.
	CompleteExpired(
		ctx context.Context, now time.Time,
	) ([]model.Booking, error)
}

type BookingsQueryer interface {
	FindByID(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error)

	// List returns bookings matching f, newest first.
	List(ctx context.Context, f BookingFilter) ([]model.Booking, error)

	// HasConflict reports if the carID car has a pending or active
	// booking whose range overlaps r inclusively. The exclude booking
	// (if non-nil) is ignored, so a booking does not conflict itself.
	HasConflict(
		ctx context.Context,
		carID uuid.UUID,
		r model.DateRange,
		exclude *uuid.UUID,
	) (bool, error)
}
