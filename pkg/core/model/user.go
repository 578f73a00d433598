// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the application-level role of a user.
// It should not be confused with the database roles which are used
// for connecting to the database.
type Role string

// Application roles.
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Validate returns an error if r is not a known role.
func (r Role) Validate() error {
	switch r {
	case RoleUser, RoleAdmin:
		return nil
	default:
		return fmt.Errorf("unknown role: %q", string(r))
	}
}

// User is a registered customer or administrator.
// PasswordHash holds a SCRAM-SHA-256 verifier string and is never
// serialized in responses.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Actor returns the Actor which represents u as a caller.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// ProfilePatch lists the optional fields of a user profile which may
// be updated by the user. The nil fields are left unchanged.
type ProfilePatch struct {
	Name  *string
	Phone *string
}

// Apply updates u with the non-nil fields of p.
func (p ProfilePatch) Apply(u *User) {
	setIf(&u.Name, p.Name)
	setIf(&u.Phone, p.Phone)
}

// Actor is the authenticated caller of a use case operation.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// IsAdmin reports if a has the administrator role.
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanAccess reports if a may access a resource which is owned by the
// owner user. Administrators may access all resources.
func (a Actor) CanAccess(owner uuid.UUID) bool {
	return a.IsAdmin() || a.ID == owner
}

// TokenPair is the result of a successful login or token refresh.
// The AccessToken is a short-lived bearer token and RefreshToken is
// an opaque single-use token which may be exchanged for a new pair.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"` // seconds
}
