// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package reviewsuc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Aggregator keeps the rating and number of reviews of cars in sync
// with their reviews. It always recomputes them from all reviews of
// a car, so a lost or repeated update can not skew them.
type Aggregator struct {
	carsrp    repo.Cars
	reviewsrp repo.Reviews
}

// NewAggregator creates an Aggregator using the given repositories.
func NewAggregator(cars repo.Cars, reviews repo.Reviews) *Aggregator {
	return &Aggregator{carsrp: cars, reviewsrp: reviews}
}

// Recompute computes the average rating (rounded to one decimal place)
// and count of the carID car reviews and stores them in the car row.
// Caller must have locked the car row in the tx transaction, so
// concurrent review writes do not interleave their recomputations.
func (a *Aggregator) Recompute(
	ctx context.Context, tx repo.Tx, carID uuid.UUID,
) (avg float64, count int, err error) {
	ratings, err := a.reviewsrp.Tx(tx).RatingsOf(ctx, carID)
	if err != nil {
		return 0, 0, fmt.Errorf("fetching ratings: %w", err)
	}
	avg, count = model.AggregateRatings(ratings)
	if err = a.carsrp.Tx(tx).SetRating(ctx, carID, avg, count); err != nil {
		return 0, 0, fmt.Errorf("storing rating: %w", err)
	}
	return avg, count, nil
}
