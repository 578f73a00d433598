// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

type bookingsRepo struct {
	s *Store
}

// Bookings returns a repo.Bookings which is backed by s.
func (s *Store) Bookings() repo.Bookings {
	return bookingsRepo{s: s}
}

func (r bookingsRepo) Conn(c repo.Conn) repo.BookingsConnQueryer {
	return bookingsQueryer{newQueryer(r.s, c)}
}

func (r bookingsRepo) Tx(tx repo.Tx) repo.BookingsTxQueryer {
	return bookingsQueryer{newQueryer(r.s, tx)}
}

type bookingsQueryer struct {
	queryer
}

func bookingNotFound() error {
	return cerr.NotFound(errors.New("booking not found"))
}

func (q bookingsQueryer) FindByID(
	_ context.Context, bookingID uuid.UUID,
) (b *model.Booking, err error) {
	err = q.do(func(t *tables) error {
		bb, ok := t.bookings[bookingID]
		if !ok {
			return bookingNotFound()
		}
		b = &bb
		return nil
	})
	return
}

func (q bookingsQueryer) List(
	_ context.Context, f repo.BookingFilter,
) (list []model.Booking, err error) {
	err = q.do(func(t *tables) error {
		for _, b := range t.bookings {
			if f.Matches(&b) {
				list = append(list, b)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return
}

func (q bookingsQueryer) HasConflict(
	_ context.Context,
	carID uuid.UUID,
	r model.DateRange,
	exclude *uuid.UUID,
) (conflict bool, err error) {
	err = q.do(func(t *tables) error {
		for _, b := range t.bookings {
			switch {
			case b.CarID != carID:
			case exclude != nil && *exclude == b.ID:
			case !b.Status.BlocksCalendar():
			case b.Range().Overlaps(r):
				conflict = true
				return nil
			}
		}
		return nil
	})
	return
}

func (q bookingsQueryer) LockByID(
	ctx context.Context, bookingID uuid.UUID,
) (*model.Booking, error) {
	return q.FindByID(ctx, bookingID)
}

func (q bookingsQueryer) Create(
	_ context.Context, b *model.Booking,
) (created *model.Booking, err error) {
	err = q.do(func(t *tables) error {
		if _, ok := t.cars[b.CarID]; !ok {
			return errors.New("bookings_car_fkey constraint violation")
		}
		bb := *b
		bb.ID = uuid.New()
		bb.CreatedAt = q.s.now()
		bb.UpdatedAt = bb.CreatedAt
		t.bookings[bb.ID] = bb
		created = &bb
		return nil
	})
	return
}

func (q bookingsQueryer) UpdateState(
	_ context.Context, bookingID uuid.UUID, s model.BookingState,
) (b *model.Booking, err error) {
	err = q.do(func(t *tables) error {
		bb, ok := t.bookings[bookingID]
		if !ok {
			return bookingNotFound()
		}
		bb.Status = s.Status
		bb.PaymentStatus = s.PaymentStatus
		bb.StockHeld = s.StockHeld
		bb.UpdatedAt = q.s.now()
		t.bookings[bookingID] = bb
		b = &bb
		return nil
	})
	return
}

func (q bookingsQueryer) Delete(
	_ context.Context, bookingID uuid.UUID,
) error {
	return q.do(func(t *tables) error {
		if _, ok := t.bookings[bookingID]; !ok {
			return bookingNotFound()
		}
		delete(t.bookings, bookingID)
		return nil
	})
}

func (q bookingsQueryer) CountHoldingStock(
	_ context.Context, carID uuid.UUID,
) (n int, err error) {
	err = q.do(func(t *tables) error {
		for _, b := range t.bookings {
			if b.CarID == carID && b.StockHeld {
				n++
			}
		}
		return nil
	})
	return
}

func (q bookingsQueryer) CompleteExpired(
	_ context.Context, now time.Time,
) (done []model.Booking, err error) {
	err = q.do(func(t *tables) error {
		for id, b := range t.bookings {
			active := b.Status == model.BookingActive ||
				b.Status == model.BookingConfirmed
			if active && b.EndDate.Before(now) {
				done = append(done, b)
				b.Status = model.BookingCompleted
				b.StockHeld = false
				b.UpdatedAt = q.s.now()
				t.bookings[id] = b
			}
		}
		return nil
	})
	return
}
