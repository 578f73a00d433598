// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package jwttk issues and verifies the HS256 signed JWT access tokens.
// Each token carries the user identifier as its subject and the user
// role as a private claim.
package jwttk

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
)

// Issuer is the iss claim of all issued tokens.
const Issuer = "crweb"

// Claims is the JWT claims set of an access token.
type Claims struct {
	jwt.RegisteredClaims
	Role model.Role `json:"role"`
}

// Tokens implements the authuc.Tokens interface.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Tokens instance which signs tokens with secret and
// makes them valid for ttl. The secret must have at least 32 bytes.
func New(secret []byte, ttl time.Duration) (*Tokens, error) {
	if len(secret) < 32 {
		return nil, fmt.Errorf(
			"secret has %d bytes, expected at least 32", len(secret),
		)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("access token TTL (%v) is not positive", ttl)
	}
	return &Tokens{secret: secret, ttl: ttl, now: time.Now}, nil
}

// Issue signs a fresh access token for actor.
func (t *Tokens) Issue(actor model.Actor) (string, time.Duration, error) {
	now := t.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   actor.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			ID:        uuid.NewString(),
		},
		Role: actor.Role,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(t.secret)
	if err != nil {
		return "", 0, fmt.Errorf("signing access token: %w", err)
	}
	return s, t.ttl, nil
}

// Verify checks the token signature and expiration, returning its
// actor. All failures are reported as cerr.Authentication errors.
func (t *Tokens) Verify(token string) (model.Actor, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(
		token, &claims,
		func(*jwt.Token) (any, error) {
			return t.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return model.Actor{}, cerr.Authentication(
			fmt.Errorf("invalid access token: %w", err),
		)
	}
	if claims.Issuer != Issuer {
		return model.Actor{}, cerr.Authentication(
			errors.New("unexpected token issuer"),
		)
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.Actor{}, cerr.Authentication(
			fmt.Errorf("malformed subject: %w", err),
		)
	}
	if err := claims.Role.Validate(); err != nil {
		return model.Actor{}, cerr.Authentication(err)
	}
	return model.Actor{ID: id, Role: claims.Role}, nil
}
