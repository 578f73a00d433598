// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package jwttk

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte(strings.Repeat("s", 32))

func assertUnauthenticated(t *testing.T, err error) {
	t.Helper()
	var ce *cerr.Error
	require.True(t, errors.As(err, &ce), "unexpected error: %v", err)
	assert.Equal(t, http.StatusUnauthorized, ce.HTTPStatusCode)
}

func TestIssueAndVerify(t *testing.T) {
	tk, err := New(secret, 15*time.Minute)
	require.NoError(t, err)
	actor := model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
	s, ttl, err := tk.Issue(actor)
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, ttl)

	got, err := tk.Verify(s)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	tk, err := New(secret, time.Minute)
	require.NoError(t, err)
	other, err := New([]byte(strings.Repeat("o", 32)), time.Minute)
	require.NoError(t, err)
	s, _, err := other.Issue(model.Actor{ID: uuid.New(), Role: model.RoleUser})
	require.NoError(t, err)
	_, err = tk.Verify(s)
	assertUnauthenticated(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	tk, err := New(secret, time.Minute)
	require.NoError(t, err)
	tk.now = func() time.Time { return time.Now().Add(-time.Hour) }
	s, _, err := tk.Issue(model.Actor{ID: uuid.New(), Role: model.RoleUser})
	require.NoError(t, err)
	_, err = tk.Verify(s)
	assertUnauthenticated(t, err)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	tk, err := New(secret, time.Minute)
	require.NoError(t, err)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: model.RoleAdmin,
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).
		SignedString(secret)
	require.NoError(t, err)
	_, err = tk.Verify(s)
	assertUnauthenticated(t, err)

	_, err = tk.Verify("not-a-token")
	assertUnauthenticated(t, err)
}

func TestNewValidatesArguments(t *testing.T) {
	_, err := New([]byte("short"), time.Minute)
	assert.Error(t, err)
	_, err = New(secret, 0)
	assert.Error(t, err)
}
