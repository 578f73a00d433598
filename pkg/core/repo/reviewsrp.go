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

// ReviewFilter restricts a reviews listing. Nil fields match all
// reviews.
type ReviewFilter struct {
	CarID  *uuid.UUID
	UserID *uuid.UUID
}

// Matches reports if r passes the f filter.
func (f ReviewFilter) Matches(r *model.Review) bool {
	if f.CarID != nil && *f.CarID != r.CarID {
		return false
	}
	if f.UserID != nil && *f.UserID != r.UserID {
		return false
	}
	return true
}

type Reviews interface {
	Conn(Conn) ReviewsConnQueryer
	Tx(Tx) ReviewsTxQueryer
}

type ReviewsConnQueryer interface {
	ReviewsQueryer
}

type ReviewsTxQueryer interface {
	ReviewsQueryer

	// Create inserts r, returning a cerr.Conflict error with the
	// cerr.CodeDuplicateReview code if its user has already reviewed
	// the same car.
	Create(ctx context.Context, r *model.Review) (*model.Review, error)

	// Update stores the rating and comment of r.
	Update(ctx context.Context, r *model.Review) (*model.Review, error)

	Delete(ctx context.Context, reviewID uuid.UUID) error

	// RatingsOf returns the ratings of all reviews of the carID car.
	RatingsOf(ctx context.Context, carID uuid.UUID) ([]int, error)
}

type ReviewsQueryer interface {
	FindByID(ctx context.Context, reviewID uuid.UUID) (*model.Review, error)
	List(ctx context.Context, f ReviewFilter) ([]model.Review, error)
}
