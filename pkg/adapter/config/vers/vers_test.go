// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package vers_test

import (
	"testing"

	"github.com/momeni/car-rental/pkg/adapter/config/vers"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const doc = `
database:
  host: ignored
versions:
  database: 1.0.0
  config: 1.2.3
`

func TestLoad(t *testing.T) {
	vc, err := vers.Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, model.SemVer{1, 0, 0}, vc.Versions.Database)
	assert.Equal(t, model.SemVer{1, 2, 3}, vc.Versions.Config)

	_, err = vers.Load([]byte("versions:\n  config: one\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	vc := &vers.Config{}
	vc.Versions.Config = model.SemVer{1, 2, 3}
	assert.NoError(t, vc.Validate(1, 2))
	assert.NoError(t, vc.Validate(1, 5))
	assert.Error(t, vc.Validate(1, 1), "newer minor versions are unknown")
	assert.Error(t, vc.Validate(2, 9))
}

func TestExpect(t *testing.T) {
	vc := &vers.Config{Versions: vers.Versions{
		Database: model.SemVer{1, 0, 0},
		Config:   model.SemVer{1, 0, 0},
	}}
	assert.NoError(t, vc.Expect(model.SemVer{1, 0, 0}, model.SemVer{1, 0, 0}))
	assert.ErrorContains(
		t, vc.Expect(model.SemVer{1, 1, 0}, model.SemVer{1, 0, 0}),
		"config version",
	)
	err := vc.Expect(model.SemVer{1, 0, 0}, model.SemVer{2, 0, 0})
	assert.ErrorContains(t, err, "database schema version")
	var msve *cerr.MismatchingSemVerError
	require.ErrorAs(t, err, &msve)
	assert.Equal(t, model.SemVer{2, 0, 0}, msve[0])
	assert.Equal(t, model.SemVer{1, 0, 0}, msve[1])
	assert.EqualError(t, msve, "expected v2.0.0, but got v1.0.0")
}

func TestMarshalAsScalars(t *testing.T) {
	vc := vers.Config{Versions: vers.Versions{
		Database: model.SemVer{1, 0, 0},
		Config:   model.SemVer{1, 0, 2},
	}}
	out, err := yaml.Marshal(vc)
	require.NoError(t, err)
	assert.Equal(
		t, "versions:\n    database: 1.0.0\n    config: 1.0.2\n",
		string(out),
	)
}
