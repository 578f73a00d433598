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

type reviewsRepo struct {
	s *Store
}

// Reviews returns a repo.Reviews which is backed by s.
func (s *Store) Reviews() repo.Reviews {
	return reviewsRepo{s: s}
}

func (r reviewsRepo) Conn(c repo.Conn) repo.ReviewsConnQueryer {
	return reviewsQueryer{newQueryer(r.s, c)}
}

func (r reviewsRepo) Tx(tx repo.Tx) repo.ReviewsTxQueryer {
	return reviewsQueryer{newQueryer(r.s, tx)}
}

type reviewsQueryer struct {
	queryer
}

func reviewNotFound() error {
	return cerr.NotFound(errors.New("review not found"))
}

func (q reviewsQueryer) FindByID(
	_ context.Context, reviewID uuid.UUID,
) (r *model.Review, err error) {
	err = q.do(func(t *tables) error {
		rr, ok := t.reviews[reviewID]
		if !ok {
			return reviewNotFound()
		}
		r = &rr
		return nil
	})
	return
}

func (q reviewsQueryer) List(
	_ context.Context, f repo.ReviewFilter,
) (list []model.Review, err error) {
	err = q.do(func(t *tables) error {
		for _, r := range t.reviews {
			if f.Matches(&r) {
				list = append(list, r)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return
}

func (q reviewsQueryer) Create(
	_ context.Context, r *model.Review,
) (created *model.Review, err error) {
	err = q.do(func(t *tables) error {
		for _, old := range t.reviews {
			if old.CarID == r.CarID && old.UserID == r.UserID {
				return cerr.Conflict(
					errors.New("car is already reviewed by this user"),
				).WithCode(cerr.CodeDuplicateReview)
			}
		}
		rr := *r
		rr.ID = uuid.New()
		rr.CreatedAt = q.s.now()
		rr.UpdatedAt = rr.CreatedAt
		t.reviews[rr.ID] = rr
		created = &rr
		return nil
	})
	return
}

func (q reviewsQueryer) Update(
	_ context.Context, r *model.Review,
) (updated *model.Review, err error) {
	err = q.do(func(t *tables) error {
		rr, ok := t.reviews[r.ID]
		if !ok {
			return reviewNotFound()
		}
		rr.Rating, rr.Comment = r.Rating, r.Comment
		rr.UpdatedAt = q.s.now()
		t.reviews[r.ID] = rr
		updated = &rr
		return nil
	})
	return
}

func (q reviewsQueryer) Delete(_ context.Context, reviewID uuid.UUID) error {
	return q.do(func(t *tables) error {
		if _, ok := t.reviews[reviewID]; !ok {
			return reviewNotFound()
		}
		delete(t.reviews, reviewID)
		return nil
	})
}

func (q reviewsQueryer) RatingsOf(
	_ context.Context, carID uuid.UUID,
) (ratings []int, err error) {
	err = q.do(func(t *tables) error {
		for _, r := range t.reviews {
			if r.CarID == carID {
				ratings = append(ratings, r.Rating)
			}
		}
		return nil
	})
	return
}
