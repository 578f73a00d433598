// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package vers contains the common versions parsing which is required
// by all config versions. Two versions are tracked here, namely the
// configuration file and database schema formats. Versions are parsed
// before the actual settings, so the expected settings format can be
// detected and verified when loading them.
package vers

import (
	"fmt"

	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"gopkg.in/yaml.v3"
)

// Config contains the versions of the configuration file and database
// schema. It is embedded with inline format in the released config
// struct versions in order to indicate their versions.
type Config struct {
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema versions
// which are used for detecting their relevant formats.
// Each binary only supports the latest versions which are known to it.
type Versions struct {
	Database model.SemVer `yaml:"database"`
	Config   model.SemVer `yaml:"config"`
}

// Load deserializes the data byte slice into a new instance of Config
// struct. Other fields of data are ignored.
func Load(data []byte) (*Config, error) {
	vc := &Config{}
	if err := yaml.Unmarshal(data, vc); err != nil {
		return nil, err
	}
	return vc, nil
}

// Validate returns an error if the configuration settings version which
// is stored in the `vc` Config instance is not supported by the given
// major and minor version arguments. That is, stored major version
// must match with the major argument and the stored minor version must
// be at most equal with the given minor version (not newer than it).
func (vc *Config) Validate(major, minor uint) error {
	v := vc.Versions.Config
	if v[0] != major {
		return fmt.Errorf("incompatible major version: %d", v[0])
	}
	if v[1] > minor {
		return fmt.Errorf("unsupported minor version: %d", v[1])
	}
	return nil
}

// Expect returns an error unless the stored versions match exactly
// with the given config and database versions. The returned error
// wraps a *cerr.MismatchingSemVerError.
func (vc *Config) Expect(config, database model.SemVer) error {
	vs := vc.Versions
	switch {
	case vs.Config != config:
		return fmt.Errorf(
			"unexpected config version: %w",
			&cerr.MismatchingSemVerError{config, vs.Config},
		)
	case vs.Database != database:
		return fmt.Errorf(
			"unexpected database schema version: %w",
			&cerr.MismatchingSemVerError{database, vs.Database},
		)
	}
	return nil
}
