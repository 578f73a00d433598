// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookingsuc contains the bookings UseCase which manages the
// booking lifecycle and keeps the car inventory consistent with it.
//
// Each booking which is created takes one unit of its car stock.
// That unit is given back exactly once, either when the booking is
// cancelled or when it is deleted (whichever happens first), as
// tracked by the Booking.StockHeld flag. All operations which touch
// both of a booking and its car run in one transaction, locking the
// car (or booking) row first, so concurrent requests are serialized
// and a failure rolls back the stock changes too.
package bookingsuc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// UseCase represents a bookings use case. It holds a database
// connection pool and the cars, bookings, and additional services
// repositories which are used together in the booking transactions.
type UseCase struct {
	pool       repo.Pool
	carsrp     repo.Cars
	bookingsrp repo.Bookings
	servicesrp repo.Services

	recorder      Recorder
	now           func() time.Time
	maxRentalDays int
}

// New instantiates a bookings use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool,
	cars repo.Cars,
	bookings repo.Bookings,
	services repo.Services,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:       p,
		carsrp:     cars,
		bookingsrp: bookings,
		servicesrp: services,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.recorder == nil {
		uc.recorder = NopRecorder{}
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	if uc.maxRentalDays == 0 {
		uc.maxRentalDays = 90
	}
	return uc, nil
}

// HasConflict reports if the carID car has a pending or active booking
// which overlaps the r date range (both ends included). The exclude
// booking, if non-nil, is ignored.
func (uc *UseCase) HasConflict(
	ctx context.Context,
	carID uuid.UUID,
	r model.DateRange,
	exclude *uuid.UUID,
) (conflict bool, err error) {
	if err = r.Validate(); err != nil {
		return false, cerr.BadRequest(err)
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		conflict, err = uc.bookingsrp.Conn(c).HasConflict(
			ctx, carID, r, exclude,
		)
		return err
	})
	return
}

// Create use case books one unit of the req.CarID car for the actor
// user. The car row is locked, its availability and stock are checked,
// the requested range is checked against other pending and active
// bookings, the requested additional services are resolved, and the
// total amount is computed. Thereafter, one unit of stock is taken and
// the booking is stored as pending. All of these steps are performed
// in one transaction.
func (uc *UseCase) Create(
	ctx context.Context, actor model.Actor, req model.BookingRequest,
) (b *model.Booking, err error) {
	if err = uc.validateRange(req.Range); err != nil {
		return nil, err
	}
	if err = validateLocation(req.PickupLocation); err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("pickup: %w", err))
	}
	if err = validateLocation(req.DropoffLocation); err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("dropoff: %w", err))
	}
	ids := distinct(req.ServiceIDs)
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			cars := uc.carsrp.Tx(tx)
			bookings := uc.bookingsrp.Tx(tx)
			car, err := cars.LockByID(ctx, req.CarID)
			if err != nil {
				return fmt.Errorf("locking car: %w", err)
			}
			if car.Stock <= 0 {
				return cerr.Conflict(
					errors.New("car is out of stock"),
				).WithCode(cerr.CodeOutOfStock)
			}
			if !car.Availability {
				return cerr.Conflict(
					errors.New("car is not available"),
				).WithCode(cerr.CodeCarUnavailable)
			}
			conflict, err := bookings.HasConflict(
				ctx, car.ID, req.Range, nil,
			)
			if err != nil {
				return fmt.Errorf("checking conflicts: %w", err)
			}
			if conflict {
				return cerr.Conflict(
					errors.New("car is already booked for these dates"),
				).WithCode(cerr.CodeDoubleBooking)
			}
			services, err := uc.resolveServices(ctx, tx, ids)
			if err != nil {
				return err
			}
			days := req.Range.Days()
			if _, err = cars.DecrementStock(ctx, car.ID); err != nil {
				return fmt.Errorf("taking stock: %w", err)
			}
			b, err = bookings.Create(ctx, &model.Booking{
				CarID:           car.ID,
				UserID:          actor.ID,
				StartDate:       req.Range.Start,
				EndDate:         req.Range.End,
				Status:          model.BookingPending,
				PaymentStatus:   model.PaymentPending,
				TotalAmount:     model.Quote(car.PricePerDay, services, days),
				Services:        services,
				PickupLocation:  req.PickupLocation,
				DropoffLocation: req.DropoffLocation,
				Extras:          req.Extras,
				StockHeld:       true,
			})
			if err != nil {
				return fmt.Errorf("inserting booking: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		uc.recorder.BookingCreated(false)
		return nil, err
	}
	uc.recorder.BookingCreated(true)
	log.Info(
		ctx, "booking created",
		log.UUID("booking", b.ID), log.UUID("car", b.CarID),
		log.UUID("user", b.UserID),
	)
	return b, nil
}

func (uc *UseCase) validateRange(r model.DateRange) error {
	if err := r.Validate(); err != nil {
		return cerr.BadRequest(err)
	}
	today := uc.now().UTC().Truncate(24 * time.Hour)
	if r.Start.Before(today) {
		return cerr.BadRequest(errors.New("start date is in the past"))
	}
	if d := r.Days(); d > uc.maxRentalDays {
		return cerr.BadRequest(fmt.Errorf(
			"rental period (%d days) exceeds %d days",
			d, uc.maxRentalDays,
		))
	}
	return nil
}

func validateLocation(l *model.Location) error {
	if l == nil {
		return nil
	}
	return l.Coordinates.Validate()
}

func (uc *UseCase) resolveServices(
	ctx context.Context, tx repo.Tx, ids []uuid.UUID,
) ([]model.BookedService, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	found, err := uc.servicesrp.Tx(tx).FindActive(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("finding services: %w", err)
	}
	if len(found) != len(ids) {
		return nil, cerr.BadRequest(errors.New(
			"some additional services are unknown or inactive",
		))
	}
	snapshots := make([]model.BookedService, 0, len(found))
	for i := range found {
		snapshots = append(snapshots, found[i].Snapshot())
	}
	return snapshots, nil
}

func distinct(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Get returns the bookingID booking if actor owns it or is an admin.
func (uc *UseCase) Get(
	ctx context.Context, actor model.Actor, bookingID uuid.UUID,
) (b *model.Booking, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		b, err = uc.bookingsrp.Conn(c).FindByID(ctx, bookingID)
		return err
	})
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(b.UserID) {
		return nil, cerr.Authorization(
			errors.New("booking belongs to another user"),
		)
	}
	return b, nil
}

// List returns the bookings of actor, optionally restricted to the
// given status. Admins receive the bookings of all users.
func (uc *UseCase) List(
	ctx context.Context,
	actor model.Actor,
	status *model.BookingStatus,
) (bookings []model.Booking, err error) {
	if status != nil {
		if err = status.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	f := repo.BookingFilter{Status: status}
	if !actor.IsAdmin() {
		f.UserID = &actor.ID
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		bookings, err = uc.bookingsrp.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
