// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reviewsuc contains the reviews UseCase. Every review write
// recomputes the rating and number of reviews of its car in the same
// transaction (see the Aggregator type).
package reviewsuc

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

// Recorder receives the review write operations ("created", "updated",
// or "deleted"). Implementations must be safe for concurrent use.
type Recorder interface {
	ReviewWritten(op string)
}

type nopRecorder struct{}

func (nopRecorder) ReviewWritten(string) {}

// Option is a functional option for the reviews use case.
type Option func(uc *UseCase) error

// WithRecorder option configures the reviews use case to report its
// write operations to r.
func WithRecorder(r Recorder) Option {
	return func(uc *UseCase) error {
		if r == nil {
			return errors.New("recorder is nil")
		}
		uc.recorder = r
		return nil
	}
}

// UseCase represents the reviews use case.
type UseCase struct {
	pool       repo.Pool
	carsrp     repo.Cars
	reviewsrp  repo.Reviews
	aggregator *Aggregator
	recorder   Recorder
}

// New instantiates a reviews use case.
func New(
	p repo.Pool, cars repo.Cars, reviews repo.Reviews, opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:       p,
		carsrp:     cars,
		reviewsrp:  reviews,
		aggregator: NewAggregator(cars, reviews),
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	if uc.recorder == nil {
		uc.recorder = nopRecorder{}
	}
	return uc, nil
}

// Patch lists the optional fields of a review which may be updated.
type Patch struct {
	Rating  *int
	Comment *string
}

// List returns the reviews which match f, newest first.
func (uc *UseCase) List(
	ctx context.Context, f repo.ReviewFilter,
) (reviews []model.Review, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		reviews, err = uc.reviewsrp.Conn(c).List(ctx, f)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

// Get returns the rid review.
func (uc *UseCase) Get(
	ctx context.Context, rid uuid.UUID,
) (r *model.Review, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		r, err = uc.reviewsrp.Conn(c).FindByID(ctx, rid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Create use case stores a review of the actor user about r.CarID car
// and recomputes the car rating. Each user may review a car once, so
// a second review fails with a conflict error.
func (uc *UseCase) Create(
	ctx context.Context, actor model.Actor, r model.Review,
) (created *model.Review, err error) {
	r.UserID = actor.ID
	if err = r.Validate(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		if _, err := uc.carsrp.Tx(tx).LockByID(ctx, r.CarID); err != nil {
			return fmt.Errorf("locking car: %w", err)
		}
		created, err = uc.reviewsrp.Tx(tx).Create(ctx, &r)
		if err != nil {
			return fmt.Errorf("inserting review: %w", err)
		}
		return uc.recompute(ctx, tx, r.CarID)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.ReviewWritten("created")
	return created, nil
}

// Update use case changes the rating and/or comment of the rid review
// on behalf of its writer or an admin, and recomputes the car rating.
func (uc *UseCase) Update(
	ctx context.Context, actor model.Actor, rid uuid.UUID, p Patch,
) (updated *model.Review, err error) {
	if p.Rating == nil && p.Comment == nil {
		return nil, cerr.BadRequest(errors.New("nothing to update"))
	}
	err = uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		r, err := uc.lockReview(ctx, tx, actor, rid)
		if err != nil {
			return err
		}
		if p.Rating != nil {
			r.Rating = *p.Rating
		}
		if p.Comment != nil {
			r.Comment = *p.Comment
		}
		if err := r.Validate(); err != nil {
			return cerr.BadRequest(err)
		}
		updated, err = uc.reviewsrp.Tx(tx).Update(ctx, r)
		if err != nil {
			return fmt.Errorf("updating review: %w", err)
		}
		return uc.recompute(ctx, tx, r.CarID)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.ReviewWritten("updated")
	return updated, nil
}

// Delete use case removes the rid review on behalf of its writer or
// an admin, and recomputes the car rating.
func (uc *UseCase) Delete(
	ctx context.Context, actor model.Actor, rid uuid.UUID,
) error {
	err := uc.inTx(ctx, func(ctx context.Context, tx repo.Tx) error {
		r, err := uc.lockReview(ctx, tx, actor, rid)
		if err != nil {
			return err
		}
		if err = uc.reviewsrp.Tx(tx).Delete(ctx, rid); err != nil {
			return fmt.Errorf("deleting review: %w", err)
		}
		return uc.recompute(ctx, tx, r.CarID)
	})
	if err != nil {
		return err
	}
	uc.recorder.ReviewWritten("deleted")
	return nil
}

// lockReview finds the rid review, checks that actor may change it,
// and locks its car row.
func (uc *UseCase) lockReview(
	ctx context.Context, tx repo.Tx, actor model.Actor, rid uuid.UUID,
) (*model.Review, error) {
	r, err := uc.reviewsrp.Tx(tx).FindByID(ctx, rid)
	if err != nil {
		return nil, fmt.Errorf("finding review: %w", err)
	}
	if !actor.CanAccess(r.UserID) {
		return nil, cerr.Authorization(
			errors.New("review belongs to another user"),
		)
	}
	if _, err = uc.carsrp.Tx(tx).LockByID(ctx, r.CarID); err != nil {
		return nil, fmt.Errorf("locking car: %w", err)
	}
	return r, nil
}

func (uc *UseCase) recompute(
	ctx context.Context, tx repo.Tx, carID uuid.UUID,
) error {
	avg, n, err := uc.aggregator.Recompute(ctx, tx, carID)
	if err != nil {
		return err
	}
	log.Debug(
		ctx, "car rating recomputed",
		log.UUID("car", carID),
		slog.Float64("rating", avg), slog.Int("reviews", n),
	)
	return nil
}

func (uc *UseCase) inTx(ctx context.Context, h repo.TxHandler) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, h)
	})
}
