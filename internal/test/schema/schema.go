// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package schema picks the test verifier of a crwebN schema. Verifiers
// depend on the major version only, since each stlmigN package creates
// the latest minor version of its major version.
package schema

import (
	"context"
	"fmt"
	"testing"

	"github.com/momeni/car-rental/internal/test/schema/sch1"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

// Verifier checks an initialized schema through a database connection.
type Verifier interface {
	// VerifySchema checks the tables, their columns, and constraints.
	VerifySchema(ctx context.Context, t *testing.T)

	// VerifyDevData checks that the sample rows are present. Extra
	// rows are tolerated.
	VerifyDevData(ctx context.Context, t *testing.T)
}

// NewVerifier returns the Verifier of v which wraps c.
func NewVerifier(c repo.Conn, v model.SemVer) (Verifier, error) {
	switch v[0] {
	case 1:
		if v[1] > sch1.Minor {
			return nil, fmt.Errorf("unsupported minor: %d", v[1])
		}
		return sch1.New(c), nil
	default:
		return nil, fmt.Errorf("unsupported major: %d", v[0])
	}
}
