// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package servicesrs realizes the additional services catalog
// resource. The catalog is public, but only admins may change it.
package servicesrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/usecase/servicesuc"
)

type resource struct {
	services *servicesuc.UseCase
}

// Register instantiates a resource adapting the services use case
// with the GET /services (optionally with includeInactive=true),
// GET /services/:id, POST /services, PUT /services/:id, and
// DELETE /services/:id (deactivation) REST APIs.
func Register(
	r *gin.RouterGroup, services *servicesuc.UseCase, auth gin.HandlerFunc,
) {
	rs := &resource{services: services}
	r.GET("services", rs.ListServices)
	r.GET("services/:id", rs.GetService)
	r.POST("services", auth, rs.CreateService)
	r.PUT("services/:id", auth, rs.UpdateService)
	r.DELETE("services/:id", auth, rs.DeactivateService)
}

func (rs *resource) ListServices(c *gin.Context) {
	list, err := rs.services.List(c, serdser.BoolQuery(c, "includeInactive"))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.SerList(c, list)
}

func (rs *resource) GetService(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	s, err := rs.services.Get(c, id)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, s)
}

func (rs *resource) CreateService(c *gin.Context) {
	s := DserCreateServiceReq(c)
	if s == nil {
		return
	}
	created, err := rs.services.Create(c, authn.Actor(c), *s)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusCreated, created)
}

func (rs *resource) UpdateService(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	p := DserUpdateServiceReq(c)
	if p == nil {
		return
	}
	updated, err := rs.services.Update(c, authn.Actor(c), id, *p)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, updated)
}

func (rs *resource) DeactivateService(c *gin.Context) {
	id, ok := serdser.UUIDParam(c, "id")
	if !ok {
		return
	}
	if err := rs.services.Deactivate(c, authn.Actor(c), id); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, nil)
}
