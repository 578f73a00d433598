// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authn provides the authentication middleware which verifies
// the bearer access tokens and keeps their actors in the gin context.
package authn

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
)

const actorKey = "crweb.actor"

// Authenticator verifies an access token, returning its actor.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (model.Actor, error)
}

// Required rejects the requests which lack a valid bearer token in
// their Authorization header.
func Required(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			serdser.SerErr(c, cerr.Authentication(
				errors.New("missing bearer token"),
			))
			return
		}
		actor, err := a.Authenticate(c, strings.TrimSpace(token))
		if err != nil {
			serdser.SerErr(c, err)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// Actor returns the authenticated actor of c. It must be called only
// by handlers which are guarded by the Required middleware.
func Actor(c *gin.Context) model.Actor {
	return c.MustGet(actorKey).(model.Actor)
}
