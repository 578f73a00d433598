// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authrs realizes the authentication resource, accepting the
// registration, login, token refresh, and logout REST APIs.
package authrs

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/authuc"
)

type resource struct {
	auth *authuc.UseCase
}

type registerReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshReq struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// loginResp is returned by a successful login.
type loginResp struct {
	*model.TokenPair
	User *model.User `json:"user"`
}

// Register instantiates a resource adapting the auth use case with
// the POST /auth/register, /auth/login, /auth/refresh, and /auth/logout
// REST APIs. None of them needs an access token.
func Register(r *gin.RouterGroup, auth *authuc.UseCase) {
	rs := &resource{auth: auth}
	g := r.Group("auth")
	g.POST("register", rs.Register)
	g.POST("login", rs.Login)
	g.POST("refresh", rs.Refresh)
	g.POST("logout", rs.Logout)
}

func (rs *resource) Register(c *gin.Context) {
	req := &registerReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	u, err := rs.auth.Register(c, authuc.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusCreated, u)
}

func (rs *resource) Login(c *gin.Context) {
	req := &loginReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	tp, u, err := rs.auth.Login(c, req.Email, req.Password)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, loginResp{TokenPair: tp, User: u})
}

func (rs *resource) Refresh(c *gin.Context) {
	req := &refreshReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	tp, err := rs.auth.Refresh(c, req.RefreshToken)
	if err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, tp)
}

func (rs *resource) Logout(c *gin.Context) {
	req := &refreshReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return
	}
	if err := rs.auth.Logout(c, req.RefreshToken); err != nil {
		serdser.SerErr(c, err)
		return
	}
	serdser.Ser(c, http.StatusOK, nil)
}
