// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package appuc

import (
	"github.com/momeni/car-rental/pkg/core/usecase/authuc"
	"github.com/momeni/car-rental/pkg/core/usecase/bookingsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/reviewsuc"
	"github.com/momeni/car-rental/pkg/core/usecase/servicesuc"
)

// Builder interface represents the expectations from the application
// use case builders. All use cases which can be instantiated by a
// configuration struct have one NewX method here which takes the
// shared dependencies and applies the configured options.
// The last supported version of the configuration struct implements
// this interface, so the use cases layer does not need to know about
// the configuration file format.
type Builder interface {
	NewCarsUseCase(d Dependencies) (*carsuc.UseCase, error)
	NewBookingsUseCase(d Dependencies) (*bookingsuc.UseCase, error)
	NewReviewsUseCase(d Dependencies) (*reviewsuc.UseCase, error)
	NewServicesUseCase(d Dependencies) (*servicesuc.UseCase, error)

	// NewAuthUseCase creates the authentication use case, including
	// its access tokens issuer and passwords hasher which are
	// instantiated based on the configured secrets and algorithms.
	NewAuthUseCase(d Dependencies) (*authuc.UseCase, error)
}
