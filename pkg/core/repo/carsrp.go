// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
)

// Cars is the car inventory repository.
type Cars interface {
	Conn(Conn) CarsConnQueryer
	Tx(Tx) CarsTxQueryer
}

type CarsConnQueryer interface {
	CarsQueryer
}

// CarsTxQueryer lists the car operations which modify the inventory.
// They are only available in a transaction, so a use case can lock
// a car row and then check and update it atomically.
type CarsTxQueryer interface {
	CarsQueryer

	// LockByID finds the carID car and locks its row until the end of
	// the current transaction (SELECT ... FOR UPDATE).
	LockByID(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	Create(ctx context.Context, c *model.Car) (*model.Car, error)

	// Update persists all mutable fields of c, except its rating and
	// number of reviews which are only changed by SetRating.
	Update(ctx context.Context, c *model.Car) (*model.Car, error)

	Delete(ctx context.Context, carID uuid.UUID) error

	// DecrementStock takes one unit of the carID car stock if its
	// stock is positive, clearing its availability flag when the
	// stock reaches zero. A cerr.Conflict error with the
	// cerr.CodeOutOfStock code is returned if stock was zero.
	DecrementStock(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	// IncrementStock gives one unit back to the carID car stock. The
	// availability flag is set only if the stock was zero before.
	IncrementStock(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	// ToggleAvailability flips the availability flag of the carID car.
	// Enabling availability of a car with zero stock is refused with
	// a cerr.Conflict error.
	ToggleAvailability(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	// SetRating stores the aggregated rating and number of reviews
	// of the carID car.
	SetRating(
		ctx context.Context, carID uuid.UUID, rating float64, count int,
	) error
}

type CarsQueryer interface {
	FindByID(ctx context.Context, carID uuid.UUID) (*model.Car, error)

	// List returns cars which have a positive stock and are available
	// ordered by their names. If includeUnavailable is true, all cars
	// are returned.
	List(ctx context.Context, includeUnavailable bool) ([]model.Car, error)
}
