// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsuc_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/internal/test/memrepo"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	alice = model.Actor{ID: uuid.New(), Role: model.RoleUser}
)

func requireCode(t *testing.T, err error, status int, code cerr.Code) {
	t.Helper()
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce), "unexpected error: %v", err)
	assert.Equal(t, status, ce.HTTPStatusCode)
	assert.Equal(t, code, ce.Code)
}

func newCar(stock int) model.Car {
	return model.Car{
		Name:         "Clio",
		Brand:        "Renault",
		Year:         2022,
		PricePerDay:  decimal.NewFromInt(35),
		Stock:        stock,
		Availability: true,
		Rating:       4.9,
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	s := memrepo.New()
	uc := carsuc.New(s, s.Cars(), s.Bookings())

	_, err := uc.Create(ctx, alice, newCar(1))
	requireCode(t, err, http.StatusForbidden, cerr.CodeForbidden)

	car, err := uc.Create(ctx, admin, newCar(2))
	require.NoError(t, err)
	assert.True(t, car.Availability)
	assert.Zero(t, car.Rating, "rating is derived from reviews")
	assert.Zero(t, car.NumberOfReviews)

	empty, err := uc.Create(ctx, admin, newCar(0))
	require.NoError(t, err)
	assert.False(t, empty.Availability)

	bad := newCar(1)
	bad.PricePerDay = decimal.Zero
	_, err = uc.Create(ctx, admin, bad)
	requireCode(t, err, http.StatusBadRequest, cerr.CodeValidation)
	bad = newCar(-1)
	_, err = uc.Create(ctx, admin, bad)
	requireCode(t, err, http.StatusBadRequest, cerr.CodeValidation)

	all, err := uc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	rentable, err := uc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, rentable, 1)
	assert.Equal(t, car.ID, rentable[0].ID)
}

func TestUpdateStockToZeroDisablesCar(t *testing.T) {
	ctx := context.Background()
	s := memrepo.New()
	uc := carsuc.New(s, s.Cars(), s.Bookings())
	car := s.AddCar(newCar(2))

	zero := 0
	name := "Clio V"
	got, err := uc.Update(ctx, admin, car.ID, model.CarPatch{
		Name: &name, Stock: &zero,
	})
	require.NoError(t, err)
	assert.Equal(t, "Clio V", got.Name)
	assert.Equal(t, 0, got.Stock)
	assert.False(t, got.Availability)

	_, err = uc.Update(ctx, alice, car.ID, model.CarPatch{Name: &name})
	requireCode(t, err, http.StatusForbidden, cerr.CodeForbidden)
	empty := ""
	_, err = uc.Update(ctx, admin, car.ID, model.CarPatch{Name: &empty})
	requireCode(t, err, http.StatusBadRequest, cerr.CodeValidation)
	_, err = uc.Update(ctx, admin, uuid.New(), model.CarPatch{Name: &name})
	requireCode(t, err, http.StatusNotFound, cerr.CodeNotFound)
}

func TestToggleAvailability(t *testing.T) {
	ctx := context.Background()
	s := memrepo.New()
	uc := carsuc.New(s, s.Cars(), s.Bookings())
	car := s.AddCar(newCar(1))

	got, err := uc.ToggleAvailability(ctx, admin, car.ID)
	require.NoError(t, err)
	assert.False(t, got.Availability)
	got, err = uc.ToggleAvailability(ctx, admin, car.ID)
	require.NoError(t, err)
	assert.True(t, got.Availability)

	_, err = uc.ToggleAvailability(ctx, alice, car.ID)
	requireCode(t, err, http.StatusForbidden, cerr.CodeForbidden)

	sold := newCar(0)
	sold.Availability = false
	sold = s.AddCar(sold)
	_, err = uc.ToggleAvailability(ctx, admin, sold.ID)
	requireCode(t, err, http.StatusConflict, cerr.CodeOutOfStock)
	assert.False(t, s.Car(sold.ID).Availability)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	s := memrepo.New()
	uc := carsuc.New(s, s.Cars(), s.Bookings())
	car := s.AddCar(newCar(1))
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	held := s.AddBooking(model.Booking{
		CarID: car.ID, UserID: alice.ID,
		StartDate: start, EndDate: start.AddDate(0, 0, 2),
		Status: model.BookingPending, PaymentStatus: model.PaymentPending,
		StockHeld: true,
	})
	done := s.AddBooking(model.Booking{
		CarID: car.ID, UserID: alice.ID,
		StartDate: start.AddDate(0, -1, 0), EndDate: start.AddDate(0, -1, 2),
		Status: model.BookingCompleted, PaymentStatus: model.PaymentPaid,
	})

	err := uc.Delete(ctx, alice, car.ID)
	requireCode(t, err, http.StatusForbidden, cerr.CodeForbidden)
	err = uc.Delete(ctx, admin, car.ID)
	requireCode(t, err, http.StatusConflict, cerr.CodeConflict)

	b := held
	b.StockHeld = false
	b.Status = model.BookingCancelled
	s.AddBooking(b)
	require.NoError(t, uc.Delete(ctx, admin, car.ID))
	_, err = uc.Get(ctx, car.ID)
	requireCode(t, err, http.StatusNotFound, cerr.CodeNotFound)
	_, ok := s.Booking(done.ID)
	assert.False(t, ok, "bookings are removed with their car")
}
