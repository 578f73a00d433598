// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

type carsRepo struct {
	s *Store
}

// Cars returns a repo.Cars which is backed by s.
func (s *Store) Cars() repo.Cars {
	return carsRepo{s: s}
}

func (r carsRepo) Conn(c repo.Conn) repo.CarsConnQueryer {
	return carsQueryer{newQueryer(r.s, c)}
}

func (r carsRepo) Tx(tx repo.Tx) repo.CarsTxQueryer {
	return carsQueryer{newQueryer(r.s, tx)}
}

type carsQueryer struct {
	queryer
}

func carNotFound() error {
	return cerr.NotFound(errors.New("car not found"))
}

func (q carsQueryer) FindByID(
	_ context.Context, carID uuid.UUID,
) (car *model.Car, err error) {
	err = q.do(func(t *tables) error {
		c, ok := t.cars[carID]
		if !ok {
			return carNotFound()
		}
		car = &c
		return nil
	})
	return
}

func (q carsQueryer) List(
	_ context.Context, includeUnavailable bool,
) (cars []model.Car, err error) {
	err = q.do(func(t *tables) error {
		for _, c := range t.cars {
			if includeUnavailable || c.Rentable() {
				cars = append(cars, c)
			}
		}
		return nil
	})
	sort.Slice(cars, func(i, j int) bool {
		return cars[i].Name < cars[j].Name
	})
	return
}

func (q carsQueryer) LockByID(
	ctx context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return q.FindByID(ctx, carID)
}

func (q carsQueryer) Create(
	_ context.Context, c *model.Car,
) (car *model.Car, err error) {
	err = q.do(func(t *tables) error {
		cc := *c
		cc.ID = uuid.New()
		cc.CreatedAt = q.s.now()
		cc.UpdatedAt = cc.CreatedAt
		t.cars[cc.ID] = cc
		car = &cc
		return nil
	})
	return
}

func (q carsQueryer) update(
	carID uuid.UUID, f func(c *model.Car) error,
) (car *model.Car, err error) {
	err = q.do(func(t *tables) error {
		c, ok := t.cars[carID]
		if !ok {
			return carNotFound()
		}
		if err := f(&c); err != nil {
			return err
		}
		if c.Stock < 0 {
			return errors.New("cars_stock_check constraint violation")
		}
		c.UpdatedAt = q.s.now()
		t.cars[carID] = c
		car = &c
		return nil
	})
	return
}

func (q carsQueryer) Update(
	_ context.Context, c *model.Car,
) (*model.Car, error) {
	return q.update(c.ID, func(old *model.Car) error {
		rating, n, created := old.Rating, old.NumberOfReviews, old.CreatedAt
		*old = *c
		old.Rating, old.NumberOfReviews, old.CreatedAt = rating, n, created
		return nil
	})
}

func (q carsQueryer) Delete(_ context.Context, carID uuid.UUID) error {
	return q.do(func(t *tables) error {
		if _, ok := t.cars[carID]; !ok {
			return carNotFound()
		}
		delete(t.cars, carID)
		for id, r := range t.reviews {
			if r.CarID == carID {
				delete(t.reviews, id)
			}
		}
		for id, b := range t.bookings {
			if b.CarID == carID {
				delete(t.bookings, id)
			}
		}
		return nil
	})
}

func (q carsQueryer) DecrementStock(
	_ context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return q.update(carID, func(c *model.Car) error {
		if c.Stock <= 0 {
			return cerr.Conflict(
				errors.New("car is out of stock"),
			).WithCode(cerr.CodeOutOfStock)
		}
		c.Stock--
		if c.Stock == 0 {
			c.Availability = false
		}
		return nil
	})
}

func (q carsQueryer) IncrementStock(
	_ context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return q.update(carID, func(c *model.Car) error {
		if c.Stock == 0 {
			c.Availability = true
		}
		c.Stock++
		return nil
	})
}

func (q carsQueryer) ToggleAvailability(
	_ context.Context, carID uuid.UUID,
) (*model.Car, error) {
	return q.update(carID, func(c *model.Car) error {
		if !c.Availability && c.Stock == 0 {
			return cerr.Conflict(
				errors.New("a car without stock may not be available"),
			).WithCode(cerr.CodeOutOfStock)
		}
		c.Availability = !c.Availability
		return nil
	})
}

func (q carsQueryer) SetRating(
	_ context.Context, carID uuid.UUID, rating float64, count int,
) error {
	_, err := q.update(carID, func(c *model.Car) error {
		c.Rating, c.NumberOfReviews = rating, count
		return nil
	})
	return err
}
