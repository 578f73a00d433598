// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"errors"
	"math"
	"time"
)

// ErrEmptyRange indicates that a DateRange does not end after it
// starts.
var ErrEmptyRange = errors.New("end date must be after start date")

// DateRange is a closed time interval which a car is rented for.
// Both ends are included, so a range which starts exactly when
// another one ends overlaps it.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Validate returns ErrEmptyRange unless r.End is strictly after
// r.Start.
func (r DateRange) Validate() error {
	if !r.End.After(r.Start) {
		return ErrEmptyRange
	}
	return nil
}

// Days returns the number of charged days of r, that is, its duration
// in days rounded up. A valid range has at least one day.
func (r DateRange) Days() int {
	d := r.End.Sub(r.Start)
	return int(math.Ceil(d.Hours() / 24))
}

// Overlaps reports if r and o share at least one instant, using the
// inclusive s1 <= e2 && e1 >= s2 comparison.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !r.End.Before(o.Start)
}
