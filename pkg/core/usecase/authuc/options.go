// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package authuc

import (
	"errors"
	"fmt"
	"time"
)

// Option is a functional option for the authentication use case.
type Option func(uc *UseCase) error

// WithRefreshTTL option sets the lifetime of the refresh tokens.
// By default, they expire after one week.
func WithRefreshTTL(ttl time.Duration) Option {
	return func(uc *UseCase) error {
		if ttl <= 0 {
			return fmt.Errorf("refresh TTL (%v) is not positive", ttl)
		}
		if uc.refreshTTL != 0 {
			return errors.New("refresh TTL is already configured")
		}
		uc.refreshTTL = ttl
		return nil
	}
}

// WithHashIterations option sets the number of iterations for hashing
// the new passwords. The RFC 7677 recommends at least 15000 iterations
// (which is the default value), while SCRAM requires at least 4096.
func WithHashIterations(iters int) Option {
	return func(uc *UseCase) error {
		if iters < 4096 {
			return fmt.Errorf("iterations (%d) is less than 4096", iters)
		}
		if uc.iters != 0 {
			return errors.New("hash iterations is already configured")
		}
		uc.iters = iters
		return nil
	}
}
