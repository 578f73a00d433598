// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/adapter/hash/scram"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
	"github.com/momeni/car-rental/pkg/core/usecase/authuc"
	"github.com/momeni/car-rental/pkg/core/usecase/bookingsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/reviewsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/servicesuc"
)

var _ appuc.Builder = (*Config)(nil)

// NewCarsUseCase instantiates a new cars use case.
func (c *Config) NewCarsUseCase(d appuc.Dependencies) (
	*carsuc.UseCase, error,
) {
	return carsuc.New(d.Pool, d.Cars, d.Bookings), nil
}

// NewBookingsUseCase instantiates a new bookings use case based on the
// settings in the `c.Usecases.Bookings` struct, reporting its outcomes
// to `d.BookingsRecorder` (if any).
func (c *Config) NewBookingsUseCase(d appuc.Dependencies) (
	*bookingsuc.UseCase, error,
) {
	opts := make([]bookingsuc.Option, 0, 2)
	if d.BookingsRecorder != nil {
		opts = append(opts, bookingsuc.WithRecorder(d.BookingsRecorder))
	}
	if days := c.Usecases.Bookings.MaxRentalDays; days != nil {
		opts = append(opts, bookingsuc.WithMaxRentalDays(*days))
	}
	return bookingsuc.New(d.Pool, d.Cars, d.Bookings, d.Services, opts...)
}

// NewReviewsUseCase instantiates a new reviews use case.
func (c *Config) NewReviewsUseCase(d appuc.Dependencies) (
	*reviewsuc.UseCase, error,
) {
	var opts []reviewsuc.Option
	if d.ReviewsRecorder != nil {
		opts = append(opts, reviewsuc.WithRecorder(d.ReviewsRecorder))
	}
	return reviewsuc.New(d.Pool, d.Cars, d.Reviews, opts...)
}

// NewServicesUseCase instantiates a new additional services use case.
func (c *Config) NewServicesUseCase(d appuc.Dependencies) (
	*servicesuc.UseCase, error,
) {
	return servicesuc.New(d.Pool, d.Services), nil
}

// NewAuthUseCase creates the authentication use case. Access tokens are
// signed by the `c.Auth.JWTSecret` and user passwords are hashed with
// SCRAM-SHA-256.
func (c *Config) NewAuthUseCase(d appuc.Dependencies) (
	*authuc.UseCase, error,
) {
	tokens, err := c.Auth.NewTokens()
	if err != nil {
		return nil, fmt.Errorf("creating access tokens issuer: %w", err)
	}
	opts := []authuc.Option{
		authuc.WithRefreshTTL(c.Auth.RefreshTTL.Std()),
	}
	if iters := c.Auth.HashIterations; iters != nil {
		opts = append(opts, authuc.WithHashIterations(*iters))
	}
	return authuc.New(
		d.Pool, d.Users, d.Sessions, scram.SHA256(), tokens, opts...,
	)
}
