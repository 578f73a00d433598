// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package usersrs realizes the users resource for reading and updating
// the profile of the authenticated user, and listing all users by
// admins.
package usersrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/authn"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/authuc"
)

type resource struct {
	auth *authuc.UseCase
}

type profileReq struct {
	Name  *string `json:"name" binding:"omitempty,min=1"`
	Phone *string `json:"phone"`
}

// Register instantiates a resource with the GET /users/me,
// PATCH /users/me, and GET /users REST APIs, all guarded by auth.
func Register(
	r *gin.RouterGroup, auth *authuc.UseCase, authMW gin.HandlerFunc,
) {
	rs := &resource{auth: auth}
	g := r.Group("users", authMW)
	g.GET("me", rs.GetProfile)
	g.PATCH("me", rs.UpdateProfile)
	g.GET("", rs.ListUsers)
}

func (rs *resource) GetProfile(c *gin.Context) {
	u, err := rs.auth.Profile(c, authn.Actor(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, u)
}

func (rs *resource) UpdateProfile(c *gin.Context) {
	req := &profileReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	u, err := rs.auth.UpdateProfile(c, authn.Actor(c), model.ProfilePatch{
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, u)
}

func (rs *resource) ListUsers(c *gin.Context) {
	users, err := rs.auth.ListUsers(c, authn.Actor(c))
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.SerList(c, users)
}
