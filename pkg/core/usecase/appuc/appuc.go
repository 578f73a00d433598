// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package appuc contains the application UseCase which creates all
// other use case objects (using a Builder which is realized by the
// loaded configuration settings) and provides them to the resources
// packages.
package appuc

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/authuc"
	"github.com/momeni/car-rental/pkg/core/usecase/bookingsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/reviewsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/servicesuc"
)

// Dependencies collects the database connection pool, repositories,
// and other collaborators which are shared by the use cases.
// Recorders may be nil, disabling the outcomes reporting.
type Dependencies struct {
	Pool     repo.Pool
	Cars     repo.Cars
	Bookings repo.Bookings
	Reviews  repo.Reviews
	Services repo.Services
	Users    repo.Users
	Sessions repo.Sessions

	BookingsRecorder bookingsuc.Recorder
	ReviewsRecorder  reviewsuc.Recorder
}

// UseCase represents an application use case. It holds all other
// use case objects. They are created once and may be used
// concurrently.
type UseCase struct {
	carsUseCase     *carsuc.UseCase
	bookingsUseCase *bookingsuc.UseCase
	reviewsUseCase  *reviewsuc.UseCase
	servicesUseCase *servicesuc.UseCase
	authUseCase     *authuc.UseCase
}

// New instantiates an application use case object, asking b to create
// each one of the supported use cases with the given dependencies.
func New(b Builder, d Dependencies) (*UseCase, error) {
	app := &UseCase{}
	var err error
	if app.carsUseCase, err = b.NewCarsUseCase(d); err != nil {
		return nil, fmt.Errorf("creating cars use case: %w", err)
	}
	if app.bookingsUseCase, err = b.NewBookingsUseCase(d); err != nil {
		return nil, fmt.Errorf("creating bookings use case: %w", err)
	}
	if app.reviewsUseCase, err = b.NewReviewsUseCase(d); err != nil {
		return nil, fmt.Errorf("creating reviews use case: %w", err)
	}
	if app.servicesUseCase, err = b.NewServicesUseCase(d); err != nil {
		return nil, fmt.Errorf("creating services use case: %w", err)
	}
	if app.authUseCase, err = b.NewAuthUseCase(d); err != nil {
		return nil, fmt.Errorf("creating auth use case: %w", err)
	}
	return app, nil
}

func (app *UseCase) CarsUseCase() *carsuc.UseCase {
	return app.carsUseCase
}

func (app *UseCase) BookingsUseCase() *bookingsuc.UseCase {
	return app.bookingsUseCase
}

func (app *UseCase) ReviewsUseCase() *reviewsuc.UseCase {
	return app.reviewsUseCase
}

func (app *UseCase) ServicesUseCase() *servicesuc.UseCase {
	return app.servicesUseCase
}

func (app *UseCase) AuthUseCase() *authuc.UseCase {
	return app.authUseCase
}
