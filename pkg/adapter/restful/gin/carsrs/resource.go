// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package carsrs realizes the cars resource, allowing the cars
// inventory REST APIs to be accepted and delegated to the cars use
// case respectively.
package carsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/usecase/carsuc"
)

type resource struct {
	cars *carsuc.UseCase
}

// Register instantiates a resource adapting the cars use case instance
// with the relevant REST APIs including:
//  1. GET request to /cars (optionally with includeUnavailable=true),
//  2. GET request to /cars/:id,
//  3. POST request to /cars for creation of a car by admins,
//  4. PATCH request to /cars/:id for updating a car by admins,
//  5. DELETE request to /cars/:id for deleting a car by admins,
//  6. PATCH request to /cars/:id/toggle-availability.
//
// The write APIs are guarded by the auth middleware.
func Register(
	r *gin.RouterGroup, cars *carsuc.UseCase, auth gin.HandlerFunc,
) {
	rs := &resource{cars: cars}
	r.GET("cars", rs.ListCars)
	r.GET("cars/:id", rs.GetCar)
	r.POST("cars", auth, rs.CreateCar)
	r.PATCH("cars/:id", auth, rs.UpdateCar)
	r.DELETE("cars/:id", auth, rs.DeleteCar)
	r.PATCH("cars/:id/toggle-availability", auth, rs.ToggleAvailability)
}

func (rs *resource) ListCars(c *gin.Context) {
	list, err := rs.cars.List(c, serdser.BoolQuery(c, "includeUnavailable"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.SerList(c, list)
}

func (rs *resource) GetCar(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	car, err := rs.cars.Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, car)
}

func (rs *resource) CreateCar(c *gin.Context) {
	car := DserCreateCarReq(c)
	if car == nil {
		return
	}
	created, err := rs.cars.Create(c, authn.Actor(c), *car)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusCreated, created)
}

func (rs *resource) UpdateCar(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	p := DserUpdateCarReq(c)
	if p == nil {
		return
	}
	car, err := rs.cars.Update(c, authn.Actor(c), id, *p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, car)
}

func (rs *resource) DeleteCar(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := rs.cars.Delete(c, authn.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, nil)
}

func (rs *resource) ToggleAvailability(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	car, err := rs.cars.ToggleAvailability(c, authn.Actor(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, car)
}
