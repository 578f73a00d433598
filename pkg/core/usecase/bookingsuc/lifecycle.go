// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bookingsuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// StatusUpdate contains the requested changes of a booking status
// and/or payment status. The nil fields are left unchanged.
type StatusUpdate struct {
	Status        *model.BookingStatus
	PaymentStatus *model.PaymentStatus
}

func invalidTransition(from, to model.BookingStatus) error {
	return cerr.BadRequest(fmt.Errorf(
		"booking can not move from %s to %s", from, to,
	)).WithCode(cerr.CodeInvalidTransition)
}

func forbidden() error {
	return cerr.Authorization(
		errors.New("booking belongs to another user"),
	)
}

func adminOnly(actor model.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return cerr.Authorization(errors.New("admin role is required"))
}

// lockedBookingHandler is called with a locked booking row and may
// return the new state of that booking.
type lockedBookingHandler func(
	ctx context.Context, tx repo.Tx, b *model.Booking,
) (model.BookingState, error)

// withLockedBooking locks the bookingID booking in a new transaction,
// checks that actor may access it, and stores the state which is
// returned by the h handler.
func (uc *UseCase) withLockedBooking(
	ctx context.Context,
	actor model.Actor,
	bookingID uuid.UUID,
	h lockedBookingHandler,
) (b *model.Booking, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.bookingsrp.Tx(tx)
			old, err := q.LockByID(ctx, bookingID)
			if err != nil {
				return fmt.Errorf("locking booking: %w", err)
			}
			if !actor.CanAccess(old.UserID) {
				return forbidden()
			}
			s, err := h(ctx, tx, old)
			if err != nil {
				return err
			}
			b, err = q.UpdateState(ctx, bookingID, s)
			if err != nil {
				return fmt.Errorf("updating booking state: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

// releaseStock gives the unit of stock which is held by b back to its
// car (if any) and clears the StockHeld flag of the s state.
// It reports if a unit was released.
func (uc *UseCase) releaseStock(
	ctx context.Context, tx repo.Tx, b *model.Booking,
	s *model.BookingState,
) (bool, error) {
	if !b.StockHeld {
		return false, nil
	}
	if _, err := uc.carsrp.Tx(tx).IncrementStock(ctx, b.CarID); err != nil {
		return false, fmt.Errorf("restoring stock: %w", err)
	}
	s.StockHeld = false
	return true, nil
}

// Cancel use case cancels a pending or active booking on behalf of
// its owner or an admin. If the booking still holds a unit of its car
// stock, that unit is given back. Cancelling a booking which is not
// pending or active fails with an invalid transition error.
func (uc *UseCase) Cancel(
	ctx context.Context, actor model.Actor, bookingID uuid.UUID,
) (*model.Booking, error) {
	restored := false
	b, err := uc.withLockedBooking(
		ctx, actor, bookingID,
		func(
			ctx context.Context, tx repo.Tx, b *model.Booking,
		) (s model.BookingState, err error) {
			restored, s, err = uc.cancel(ctx, tx, b)
			return
		},
	)
	if err != nil {
		return nil, err
	}
	uc.recorder.BookingCancelled(restored)
	log.Info(
		ctx, "booking cancelled",
		log.UUID("booking", b.ID), slog.Bool("stock_restored", restored),
	)
	return b, nil
}

func (uc *UseCase) cancel(
	ctx context.Context, tx repo.Tx, b *model.Booking,
) (bool, model.BookingState, error) {
	s := b.State()
	if !b.Status.CanTransition(model.BookingCancelled) {
		return false, s, invalidTransition(b.Status, model.BookingCancelled)
	}
	s.Status = model.BookingCancelled
	restored, err := uc.releaseStock(ctx, tx, b, &s)
	return restored, s, err
}

// Delete use case removes a booking on behalf of its owner or an
// admin. If the booking still holds a unit of its car stock (i.e., it
// was not cancelled before), that unit is given back exactly once.
func (uc *UseCase) Delete(
	ctx context.Context, actor model.Actor, bookingID uuid.UUID,
) error {
	restored := false
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.bookingsrp.Tx(tx)
			b, err := q.LockByID(ctx, bookingID)
			if err != nil {
				return fmt.Errorf("locking booking: %w", err)
			}
			if !actor.CanAccess(b.UserID) {
				return forbidden()
			}
			s := b.State()
			restored, err = uc.releaseStock(ctx, tx, b, &s)
			if err != nil {
				return err
			}
			if err = q.Delete(ctx, bookingID); err != nil {
				return fmt.Errorf("deleting booking: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	uc.recorder.BookingDeleted(restored)
	log.Info(
		ctx, "booking deleted",
		log.UUID("booking", bookingID),
		slog.Bool("stock_restored", restored),
	)
	return nil
}

// Approve use case lets an admin move a pending booking to the active
// state. The car stock is not changed because the booking holds its
// unit since its creation.
func (uc *UseCase) Approve(
	ctx context.Context, actor model.Actor, bookingID uuid.UUID,
) (*model.Booking, error) {
	return uc.decide(ctx, actor, bookingID, model.BookingActive, "approved")
}

// Reject use case lets an admin cancel a pending booking. The stock
// unit which is held by the booking is kept (StockHeld remains set)
// and is given back only when an admin deletes the booking. Until
// then, the car may not be deleted either.
func (uc *UseCase) Reject(
	ctx context.Context, actor model.Actor, bookingID uuid.UUID,
) (*model.Booking, error) {
	return uc.decide(ctx, actor, bookingID, model.BookingCancelled, "rejected")
}

func (uc *UseCase) decide(
	ctx context.Context,
	actor model.Actor,
	bookingID uuid.UUID,
	next model.BookingStatus,
	decision string,
) (*model.Booking, error) {
	if err := adminOnly(actor); err != nil {
		return nil, err
	}
	b, err := uc.withLockedBooking(
		ctx, actor, bookingID,
		func(
			_ context.Context, _ repo.Tx, b *model.Booking,
		) (model.BookingState, error) {
			s := b.State()
			if b.Status != model.BookingPending {
				return s, invalidTransition(b.Status, next)
			}
			s.Status = next
			return s, nil
		},
	)
	if err != nil {
		return nil, err
	}
	uc.recorder.BookingDecision(decision)
	log.Info(
		ctx, "booking "+decision,
		log.UUID("booking", b.ID), log.UUID("admin", actor.ID),
	)
	return b, nil
}

// UpdateStatus use case applies the u changes to a booking.
// Owners may only ask for cancellation (with the same effects as the
// Cancel use case), while admins may request any valid status
// transition and/or change the payment status.
func (uc *UseCase) UpdateStatus(
	ctx context.Context,
	actor model.Actor,
	bookingID uuid.UUID,
	u StatusUpdate,
) (*model.Booking, error) {
	if u.Status == nil && u.PaymentStatus == nil {
		return nil, cerr.BadRequest(errors.New("nothing to update"))
	}
	if u.Status != nil {
		if err := u.Status.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	if u.PaymentStatus != nil {
		if err := u.PaymentStatus.Validate(); err != nil {
			return nil, cerr.BadRequest(err)
		}
	}
	if !actor.IsAdmin() {
		if u.PaymentStatus != nil ||
			*u.Status != model.BookingCancelled {
			return nil, cerr.Authorization(errors.New(
				"users may only cancel their bookings",
			))
		}
	}
	restored := false
	b, err := uc.withLockedBooking(
		ctx, actor, bookingID,
		func(
			ctx context.Context, tx repo.Tx, b *model.Booking,
		) (s model.BookingState, err error) {
			s = b.State()
			if u.Status != nil {
				next := *u.Status
				if !b.Status.CanTransition(next) {
					return s, invalidTransition(b.Status, next)
				}
				s.Status = next
				if next == model.BookingCancelled {
					restored, err = uc.releaseStock(ctx, tx, b, &s)
					if err != nil {
						return s, err
					}
				}
			}
			if u.PaymentStatus != nil {
				s.PaymentStatus = *u.PaymentStatus
			}
			return s, nil
		},
	)
	if err != nil {
		return nil, err
	}
	if b.Status == model.BookingCancelled && u.Status != nil {
		uc.recorder.BookingCancelled(restored)
	}
	log.Info(
		ctx, "booking status updated",
		log.UUID("booking", b.ID),
		slog.String("status", b.Status.String()),
		slog.String("payment", string(b.PaymentStatus)),
	)
	return b, nil
}

// CompleteExpired marks the active bookings which their end date has
// passed as completed. Units of the car stock which are still held by
// those bookings are given back. It is called periodically by a
// scheduler.
func (uc *UseCase) CompleteExpired(ctx context.Context) (n int64, err error) {
	now := uc.now()
	released := 0
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			done, err := uc.bookingsrp.Tx(tx).CompleteExpired(ctx, now)
			if err != nil {
				return err
			}
			carsQ := uc.carsrp.Tx(tx)
			for _, b := range done {
				if !b.StockHeld {
					continue
				}
				if _, err := carsQ.IncrementStock(ctx, b.CarID); err != nil {
					return fmt.Errorf("restoring stock: %w", err)
				}
				released++
			}
			n = int64(len(done))
			return nil
		})
	})
	if err != nil {
		return 0, fmt.Errorf("completing expired bookings: %w", err)
	}
	uc.recorder.BookingsCompleted(n)
	if n > 0 {
		log.Info(
			ctx, "expired bookings completed",
			slog.Int64("count", n), slog.Int("stock_restored", released),
		)
	}
	return n, nil
}
