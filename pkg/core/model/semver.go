// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SemVer is a major.minor.patch version. It versions both the crweb
// configuration file format and the database schema (whose major
// component selects the crwebN schema). Pre-release tags are not
// supported.
type SemVer [3]uint

// UnmarshalText parses one to three dot-separated non-negative
// numbers; missing components are zero. sv is kept intact on errors.
func (sv *SemVer) UnmarshalText(text []byte) error {
	parts := strings.Split(string(text), ".")
	if len(parts) > len(sv) {
		return fmt.Errorf("the %q has too many components", text)
	}
	var v SemVer
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return fmt.Errorf("the %q component is not a number", p)
		}
		v[i] = uint(n)
	}
	*sv = v
	return nil
}

// MarshalText has a value receiver, so versions are written as
// scalars in YAML even when their field is not addressable.
func (sv SemVer) MarshalText() ([]byte, error) {
	return []byte(sv.String()), nil
}

func (sv SemVer) String() string {
	return fmt.Sprintf("%d.%d.%d", sv[0], sv[1], sv[2])
}
