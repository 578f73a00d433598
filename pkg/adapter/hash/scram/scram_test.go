// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package scram_test

import (
	"strings"
	"testing"

	"github.com/momeni/car-rental/pkg/adapter/hash/scram"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFormat(t *testing.T) {
	h, err := scram.SHA256().Hash("secret", "c2FsdHNhbHRzYWx0", 4096)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(h, "SCRAM-SHA-256$4096:c2FsdHNhbHRzYWx0$"), h)
	h2, err := scram.SHA256().Hash("secret", "c2FsdHNhbHRzYWx0", 4096)
	require.NoError(t, err)
	assert.Equal(t, h, h2, "same salt and iterations must be deterministic")
}

func TestHashRejectsWeakInputs(t *testing.T) {
	m := scram.SHA256()
	_, err := m.Hash("", "", 4096)
	assert.Error(t, err)
	_, err = m.Hash("secret", "", 1000)
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	m := scram.SHA256()
	h, err := m.Hash("correct horse", "", 4096)
	require.NoError(t, err)

	ok, err := m.Verify("correct horse", h)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = m.Verify("battery staple", h)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.Verify("", h)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.Verify("correct horse", "plain-text")
	assert.Error(t, err)
	_, err = scram.SHA1().Verify("correct horse", h)
	assert.Error(t, err, "mechanism name must match")
}

func TestVerifyRejectsMalformed(t *testing.T) {
	m := scram.SHA256()
	for _, h := range []string{
		"SCRAM-SHA-256$4096",
		"SCRAM-SHA-256$4096$a:b",
		"SCRAM-SHA-256$x:c2FsdA==$a:b",
		"SCRAM-SHA-256$4096:c2FsdA==$ab",
	} {
		_, err := m.Verify("secret", h)
		assert.Error(t, err, h)
	}
	assert.Equal(t, "SCRAM-SHA-256", m.Name())
}
