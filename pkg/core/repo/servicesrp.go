// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package repo

import (
	"context"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
)

type Services interface {
	Conn(Conn) ServicesConnQueryer
	Tx(Tx) ServicesTxQueryer
}

type ServicesConnQueryer interface {
	ServicesQueryer
}

type ServicesTxQueryer interface {
	ServicesQueryer

	Create(
		ctx context.Context, s *model.AdditionalService,
	) (*model.AdditionalService, error)
	Update(
		ctx context.Context, s *model.AdditionalService,
	) (*model.AdditionalService, error)

	// Deactivate clears the active flag of the serviceID service.
	Deactivate(ctx context.Context, serviceID uuid.UUID) error
}

type ServicesQueryer interface {
	FindByID(
		ctx context.Context, serviceID uuid.UUID,
	) (*model.AdditionalService, error)

	// List returns the active services ordered by their names.
	// If includeInactive is true, deactivated services are included.
	List(
		ctx context.Context, includeInactive bool,
	) ([]model.AdditionalService, error)

	// FindActive returns the active services among the given ids.
	// Unknown or inactive ids are skipped, so caller may compare the
	// result length with the number of distinct ids.
	FindActive(
		ctx context.Context, ids []uuid.UUID,
	) ([]model.AdditionalService, error)
}
