// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package bookingsrs realizes the bookings resource, delegating the
// booking creation and lifecycle REST APIs to the bookings use case.
// All of its APIs require an authenticated actor.
package bookingsrs

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/bookingsuc"
)

type resource struct {
	bookings *bookingsuc.UseCase
}

// Register instantiates a resource adapting the bookings use case
// with the relevant REST APIs including:
//  1. POST request to /bookings for booking a car,
//  2. GET request to /bookings (optionally filtered by status),
//  3. GET request to /bookings/:id,
//  4. PUT request to /bookings/:id for changing its status or payment
//     status,
//  5. DELETE request to /bookings/:id,
//  6. PUT requests to /bookings/:id/cancel, /bookings/:id/approve,
//     and /bookings/:id/reject.
func Register(
	r *gin.RouterGroup, bookings *bookingsuc.UseCase, auth gin.HandlerFunc,
) {
	rs := &resource{bookings: bookings}
	g := r.Group("bookings", auth)
	g.POST("", rs.CreateBooking)
	g.GET("", rs.ListBookings)
	g.GET(":id", rs.GetBooking)
	g.PUT(":id", rs.UpdateBooking)
	g.DELETE(":id", rs.DeleteBooking)
	g.PUT(":id/cancel", rs.transition(bookings.Cancel))
	g.PUT(":id/approve", rs.transition(bookings.Approve))
	g.PUT(":id/reject", rs.transition(bookings.Reject))
}

func (rs *resource) CreateBooking(c *gin.Context) {
	req := DserCreateBookingReq(c)
	if req == nil {
		return
	}
	b, err := rs.bookings.Create(c, authn.Actor(c), *req)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusCreated, b)
}

func (rs *resource) ListBookings(c *gin.Context) {
	status, ok := DserStatusQuery(c)
	if !ok {
		return
	}
	list, err := rs.bookings.List(c, authn.Actor(c), status)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.SerList(c, list)
}

func (rs *resource) GetBooking(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	b, err := rs.bookings.Get(c, authn.Actor(c), id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, b)
}

func (rs *resource) UpdateBooking(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	u := DserUpdateBookingReq(c)
	if u == nil {
		return
	}
	b, err := rs.bookings.UpdateStatus(c, authn.Actor(c), id, *u)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, b)
}

func (rs *resource) DeleteBooking(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := rs.bookings.Delete(c, authn.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, nil)
}

// transition adapts the cancel, approve, and reject use cases which
// only need the booking id.
func (rs *resource) transition(
	f func(ctx context.Context, actor model.Actor, id uuid.UUID) (
		*model.Booking, error,
	),
) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := serdser.UUIDParam(c, "id")
		if !ok {
			return
		}
		b, err := f(c, authn.Actor(c), id)
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		serdser.Ser(c, http.StatusOK, b)
	}
}
