// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package routes contains all resource packages and facilitates
// instantiation and registration of all repo, use case, and resource
// packages based on the user provided configuration settings.
package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/bookingsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/carsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/reviewsrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/servicesrp"
	"github.com/momeni/car-rental/pkg/adapter/db/postgres/usersrp"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/bookingsrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/carsrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/reviewsrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/servicesrs"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/usersrs"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/appuc"
)

// APIPrefix is the common path of all REST APIs.
const APIPrefix = "/api/crweb/v1"

// Recorder collects the bookings and reviews metrics.
type Recorder interface {
	BookingCreated(ok bool)
	BookingCancelled(stockRestored bool)
	BookingDeleted(stockRestored bool)
	BookingDecision(decision string)
	BookingsCompleted(n int64)
	ReviewWritten(op string)
}

// NewDependencies instantiates the PostgreSQL repositories which
// share the p connections pool. Refresh tokens are kept by sessions
// and the use cases report their metrics to r.
func NewDependencies(
	p repo.Pool, sessions repo.Sessions, r Recorder,
) appuc.Dependencies {
	return appuc.Dependencies{
		Pool:             p,
		Cars:             carsrp.New(),
		Bookings:         bookingsrp.New(),
		Reviews:          reviewsrp.New(),
		Services:         servicesrp.New(),
		Users:            usersrp.New(),
		Sessions:         sessions,
		BookingsRecorder: r,
		ReviewsRecorder:  r,
	}
}

// Register instantiates the application use case using the b builder
// and d dependencies, and registers all resources in the e engine.
// Each use case package is named like carsuc and each resource package
// is named like carsrs. The metrics handler is served on /metrics if
// it is not nil.
func Register(
	e *gin.Engine, b appuc.Builder, d appuc.Dependencies,
	metrics http.Handler,
) (*appuc.UseCase, error) {
	app, err := appuc.New(b, d)
	if err != nil {
		return nil, fmt.Errorf("creating application use case: %w", err)
	}
	auth := authn.Required(app.AuthUseCase())
	r := e.Group(APIPrefix)
	authrs.Register(r, app.AuthUseCase())
	usersrs.Register(r, app.AuthUseCase(), auth)
	carsrs.Register(r, app.CarsUseCase(), auth)
	bookingsrs.Register(r, app.BookingsUseCase(), auth)
	reviewsrs.Register(r, app.ReviewsUseCase(), auth)
	servicesrs.Register(r, app.ServicesUseCase(), auth)
	if metrics != nil {
		e.GET("/metrics", gin.WrapH(metrics))
	}
	return app, nil
}
