// Copyright (c) 2023-2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsuc contains the cars UseCase which supports the car
// inventory use cases. Everyone may browse the cars, while only the
// administrators may create, update, delete, or toggle availability
// of them.
package carsuc

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// UseCase represents a cars use case. It holds a database connection
// pool, the cars repository instance (to be guided with the DB pool),
// and the bookings repository which is consulted before deletion of
// a car.
type UseCase struct {
	pool       repo.Pool
	carsrp     repo.Cars
	bookingsrp repo.Bookings
}

// New instantiates a cars use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
func New(p repo.Pool, c repo.Cars, b repo.Bookings) *UseCase {
	return &UseCase{pool: p, carsrp: c, bookingsrp: b}
}

func adminOnly(actor model.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return cerr.Authorization(errors.New("admin role is required"))
}

// List use case returns the rentable cars (with positive stock and
// availability flag). If includeUnavailable is true, all cars are
// returned.
func (cars *UseCase) List(
	ctx context.Context, includeUnavailable bool,
) (list []model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		list, err = cars.carsrp.Conn(c).List(ctx, includeUnavailable)
		return err
	})
	if err != nil {
		list = nil
	}
	return
}

// Get use case returns the cid car.
func (cars *UseCase) Get(
	ctx context.Context, cid uuid.UUID,
) (car *model.Car, err error) {
	err = cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		car, err = cars.carsrp.Conn(c).FindByID(ctx, cid)
		return err
	})
	if err != nil {
		car = nil
	}
	return
}

// Create use case lets an admin add the c car to the inventory.
// A car without stock is stored as unavailable.
func (cars *UseCase) Create(
	ctx context.Context, actor model.Actor, c model.Car,
) (car *model.Car, err error) {
	if err = adminOnly(actor); err != nil {
		return nil, err
	}
	if c.Stock == 0 {
		c.Availability = false
	}
	c.Rating, c.NumberOfReviews = 0, 0
	if err = c.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = cars.inTx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		car, err = q.Create(ctx, &c)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "car created", log.UUID("car", car.ID))
	return car, nil
}

// Update use case lets an admin change the non-nil fields of p in
// the cid car. Setting its stock to zero makes it unavailable too.
func (cars *UseCase) Update(
	ctx context.Context, actor model.Actor, cid uuid.UUID, p model.CarPatch,
) (car *model.Car, err error) {
	if err = adminOnly(actor); err != nil {
		return nil, err
	}
	err = cars.inTx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		old, err := q.LockByID(ctx, cid)
		if err != nil {
			return fmt.Errorf("locking car: %w", err)
		}
		p.Apply(old)
		if err := old.Validate(); err != nil {
			return cerr.BadRequest(err)
		}
		car, err = q.Update(ctx, old)
		return err
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

// Delete use case lets an admin remove the cid car. Cars which still
// have bookings holding their stock may not be deleted.
func (cars *UseCase) Delete(
	ctx context.Context, actor model.Actor, cid uuid.UUID,
) error {
	if err := adminOnly(actor); err != nil {
		return err
	}
	err := cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := cars.carsrp.Tx(tx)
			if _, err := q.LockByID(ctx, cid); err != nil {
				return fmt.Errorf("locking car: %w", err)
			}
			n, err := cars.bookingsrp.Tx(tx).CountHoldingStock(ctx, cid)
			if err != nil {
				return fmt.Errorf("counting bookings: %w", err)
			}
			if n > 0 {
				return cerr.Conflict(fmt.Errorf(
					"car has %d bookings holding its stock", n,
				))
			}
			return q.Delete(ctx, cid)
		})
	})
	if err != nil {
		return err
	}
	log.Info(ctx, "car deleted", log.UUID("car", cid))
	return nil
}

// ToggleAvailability use case lets an admin flip the availability flag
// of the cid car. A car with zero stock may not become available.
func (cars *UseCase) ToggleAvailability(
	ctx context.Context, actor model.Actor, cid uuid.UUID,
) (car *model.Car, err error) {
	if err = adminOnly(actor); err != nil {
		return nil, err
	}
	err = cars.inTx(ctx, func(ctx context.Context, q repo.CarsTxQueryer) error {
		old, err := q.LockByID(ctx, cid)
		if err != nil {
			return fmt.Errorf("locking car: %w", err)
		}
		if !old.Availability && old.Stock == 0 {
			return cerr.Conflict(
				errors.New("a car without stock may not be available"),
			).WithCode(cerr.CodeOutOfStock)
		}
		car, err = q.ToggleAvailability(ctx, cid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (cars *UseCase) inTx(
	ctx context.Context,
	f func(ctx context.Context, q repo.CarsTxQueryer) error,
) error {
	return cars.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return f(ctx, cars.carsrp.Tx(tx))
		})
	})
}
