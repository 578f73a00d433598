// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package authuc contains the users and authentication UseCase.
// Passwords are stored as SCRAM verifier strings (see the scram.Hasher
// interface). A successful login issues a short-lived access token
// which carries the user id and role, and an opaque refresh token
// which is kept in the sessions store and may be used once.
package authuc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
	"github.com/momeni/car-rental/pkg/core/scram"
)

// Tokens issues and verifies the access tokens.
type Tokens interface {
	// Issue creates an access token for actor, returning it alongside
	// its lifetime.
	Issue(actor model.Actor) (token string, ttl time.Duration, err error)

	// Verify checks the token signature and expiration and returns
	// its actor.
	Verify(token string) (model.Actor, error)
}

// UseCase represents the authentication use case.
type UseCase struct {
	pool     repo.Pool
	usersrp  repo.Users
	sessions repo.Sessions
	hasher   scram.Hasher
	tokens   Tokens

	refreshTTL time.Duration
	iters      int
}

// New instantiates an authentication use case.
// Required parameters are passed individually, so caller has to
// provision them and whenever they change, caller will notice and fix
// them due to a compilation error.
// Optional parameters are passed as a series of functional options
// in order to facilitate their validation and flexibility.
func New(
	p repo.Pool,
	users repo.Users,
	sessions repo.Sessions,
	hasher scram.Hasher,
	tokens Tokens,
	opts ...Option,
) (*UseCase, error) {
	uc := &UseCase{
		pool:     p,
		usersrp:  users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
	}
	for _, opt := range opts {
		if err := opt(uc); err != nil {
			return nil, fmt.Errorf("invalid option: %w", err)
		}
	}
	// now, deal with defaults
	if uc.refreshTTL == 0 {
		uc.refreshTTL = 7 * 24 * time.Hour
	}
	if uc.iters == 0 {
		uc.iters = 15000
	}
	return uc, nil
}

var errBadCredentials = errors.New("invalid email or password")

// Registration contains the fields which are provided by a new user.
type Registration struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

func (r *Registration) normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	switch {
	case r.Name == "":
		return errors.New("name must not be empty")
	case !strings.Contains(r.Email, "@"):
		return errors.New("email is malformed")
	case len(r.Password) < 8:
		return errors.New("password must have at least 8 characters")
	}
	return nil
}

// Register creates a new user with the user role.
func (uc *UseCase) Register(
	ctx context.Context, r Registration,
) (*model.User, error) {
	return uc.createUser(ctx, r, model.RoleUser)
}

// CreateAdmin creates a new user with the admin role. It is not
// exposed by the REST API and is used by the management commands.
func (uc *UseCase) CreateAdmin(
	ctx context.Context, r Registration,
) (*model.User, error) {
	return uc.createUser(ctx, r, model.RoleAdmin)
}

func (uc *UseCase) createUser(
	ctx context.Context, r Registration, role model.Role,
) (u *model.User, err error) {
	if err = r.normalize(); err != nil {
		return nil, cerr.BadRequest(err)
	}
	h, err := uc.hasher.Hash(r.Password, "", uc.iters)
	if err != nil {
		return nil, cerr.BadRequest(fmt.Errorf("hashing password: %w", err))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			u, err = uc.usersrp.Tx(tx).Create(ctx, &model.User{
				Name:         r.Name,
				Email:        r.Email,
				Phone:        r.Phone,
				Role:         role,
				PasswordHash: h,
			})
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	log.Info(
		ctx, "user registered",
		log.UUID("user", u.ID), slog.String("role", string(role)),
	)
	return u, nil
}

// Login checks the email and password of a user and issues a new pair
// of access and refresh tokens.
func (uc *UseCase) Login(
	ctx context.Context, email, password string,
) (*model.TokenPair, *model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u *model.User
	err := uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) (err error) {
		u, err = uc.usersrp.Conn(c).FindByEmail(ctx, email)
		return err
	})
	var ce *cerr.Error
	switch {
	case errors.As(err, &ce) && ce.Code == cerr.CodeNotFound:
		return nil, nil, cerr.Authentication(errBadCredentials)
	case err != nil:
		return nil, nil, err
	}
	ok, err := uc.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return nil, nil, cerr.Internal(
			fmt.Errorf("verifying password: %w", err),
		)
	}
	if !ok {
		return nil, nil, cerr.Authentication(errBadCredentials)
	}
	tp, err := uc.issue(ctx, u)
	if err != nil {
		return nil, nil, err
	}
	return tp, u, nil
}

// Refresh exchanges a refresh token with a new pair of tokens.
// The given refresh token is consumed even if the new pair can not
// be issued.
func (uc *UseCase) Refresh(
	ctx context.Context, refreshToken string,
) (*model.TokenPair, error) {
	uid, err := uc.sessions.Take(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	u, err := uc.Profile(ctx, model.Actor{ID: uid, Role: model.RoleUser})
	if err != nil {
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return uc.issue(ctx, u)
}

// Logout revokes the given refresh token.
func (uc *UseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.sessions.Revoke(ctx, refreshToken)
}

func (uc *UseCase) issue(
	ctx context.Context, u *model.User,
) (*model.TokenPair, error) {
	access, ttl, err := uc.tokens.Issue(u.Actor())
	if err != nil {
		return nil, cerr.Internal(fmt.Errorf("issuing token: %w", err))
	}
	refresh := uuid.NewString()
	if err = uc.sessions.Store(ctx, refresh, u.ID, uc.refreshTTL); err != nil {
		return nil, fmt.Errorf("storing refresh token: %w", err)
	}
	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(ttl / time.Second),
	}, nil
}

// Authenticate verifies an access token and returns its actor.
func (uc *UseCase) Authenticate(
	_ context.Context, token string,
) (model.Actor, error) {
	a, err := uc.tokens.Verify(token)
	if err != nil {
		return model.Actor{}, cerr.Authentication(err)
	}
	return a, nil
}

// Profile returns the user which is represented by actor.
func (uc *UseCase) Profile(
	ctx context.Context, actor model.Actor,
) (u *model.User, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		u, err = uc.usersrp.Conn(c).FindByID(ctx, actor.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateProfile changes the name and/or phone of the actor user.
func (uc *UseCase) UpdateProfile(
	ctx context.Context, actor model.Actor, p model.ProfilePatch,
) (u *model.User, err error) {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return nil, cerr.BadRequest(errors.New("name must not be empty"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			q := uc.usersrp.Tx(tx)
			old, err := q.FindByID(ctx, actor.ID)
			if err != nil {
				return err
			}
			p.Apply(old)
			u, err = q.UpdateProfile(ctx, old)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListUsers lets an admin list all users.
func (uc *UseCase) ListUsers(
	ctx context.Context, actor model.Actor,
) (users []model.User, err error) {
	if !actor.IsAdmin() {
		return nil, cerr.Authorization(errors.New("admin role is required"))
	}
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		users, err = uc.usersrp.Conn(c).List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return users, nil
}
