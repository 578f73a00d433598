// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Review is a rating and comment which a user writes about a car.
// Each user may review each car at most once.
type Review struct {
	ID        uuid.UUID `json:"id"`
	CarID     uuid.UUID `json:"carId"`
	UserID    uuid.UUID `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks the user-provided fields of r.
func (r *Review) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return errors.New("rating must be in [1, 5] range")
	}
	if strings.TrimSpace(r.Comment) == "" {
		return errors.New("comment must not be empty")
	}
	return nil
}

// AggregateRatings computes the average of ratings, rounded to one
// decimal place, and their count. The average of no ratings is zero.
func AggregateRatings(ratings []int) (avg float64, count int) {
	count = len(ratings)
	if count == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	avg = float64(sum) / float64(count)
	return math.Round(avg*10) / 10, count
}
