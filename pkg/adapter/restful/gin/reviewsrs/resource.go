// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package reviewsrs realizes the reviews resource. Reading reviews is
// public, while writing them requires an authenticated actor.
package reviewsrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/usecase/reviewsuc"
)

type resource struct {
	reviews *reviewsuc.UseCase
}

// Register instantiates a resource adapting the reviews use case
// with the relevant REST APIs including:
//  1. POST request to /reviews for reviewing a car,
//  2. GET requests to /reviews, /reviews/car/:carId, and
//     /reviews/user/:userId for listing the reviews,
//  3. PUT and DELETE requests to /reviews/:id for the review owner
//     (or an admin).
func Register(
	r *gin.RouterGroup, reviews *reviewsuc.UseCase, auth gin.HandlerFunc,
) {
	rs := &resource{reviews: reviews}
	r.POST("reviews", auth, rs.CreateReview)
	r.GET("reviews", rs.ListReviews)
	r.GET("reviews/car/:carId", rs.ListCarReviews)
	r.GET("reviews/user/:userId", rs.ListUserReviews)
	r.PUT("reviews/:id", auth, rs.UpdateReview)
	r.DELETE("reviews/:id", auth, rs.DeleteReview)
}

func (rs *resource) CreateReview(c *gin.Context) {
	review := DserCreateReviewReq(c)
	if review == nil {
		return
	}
	created, err := rs.reviews.Create(c, authn.Actor(c), *review)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusCreated, created)
}

func (rs *resource) list(c *gin.Context, f repo.ReviewFilter) {
	list, err := rs.reviews.List(c, f)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.SerList(c, list)
}

func (rs *resource) ListReviews(c *gin.Context) {
	rs.list(c, repo.ReviewFilter{})
}

func (rs *resource) ListCarReviews(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "carId")
	if !ok {
		return
	}
	rs.list(c, repo.ReviewFilter{CarID: &id})
}

func (rs *resource) ListUserReviews(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "userId")
	if !ok {
		return
	}
	rs.list(c, repo.ReviewFilter{UserID: &id})
}

func (rs *resource) UpdateReview(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	p := DserUpdateReviewReq(c)
	if p == nil {
		return
	}
	updated, err := rs.reviews.Update(c, authn.Actor(c), id, *p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, updated)
}

func (rs *resource) DeleteReview(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := rs.reviews.Delete(c, authn.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, nil)
}
