// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bookingsuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the bookings use case.
type Option func(uc *UseCase) error

// WithRecorder option configures a bookings UseCase instance in order
// to report the booking operations outcomes to the r Recorder (e.g.,
// for exporting them as metrics). By default, they are discarded.
func WithRecorder(r Recorder) Option {
	return func(uc *UseCase) error {
		if r == nil {
			return errors.New("recorder is nil")
		}
		if uc.recorder != nil {
			return errors.New("recorder is already configured")
		}
		uc.recorder = r
		return nil
	}
}

// WithClock option replaces the time.Now function which is used for
// validation of the booking start dates and finding the expired
// bookings.
func WithClock(now func() time.Time) Option {
	return func(uc *UseCase) error {
		if now == nil {
			return errors.New("clock is nil")
		}
		uc.now = now
		return nil
	}
}

// WithMaxRentalDays option limits the length of a booking. By default,
// bookings may not be longer than 90 days.
func WithMaxRentalDays(days int) Option {
	return func(uc *UseCase) error {
		if days <= 0 {
			return fmt.Errorf("max rental days (%d) is not positive", days)
		}
		if uc.maxRentalDays != 0 {
			return errors.New("max rental days is already configured")
		}
		uc.maxRentalDays = days
		return nil
	}
}
