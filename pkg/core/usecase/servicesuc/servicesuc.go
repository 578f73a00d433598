// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package servicesuc contains the additional services catalog
// UseCase. Services are listed publicly and managed by admins.
package servicesuc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/log"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

type UseCase struct {
	pool       repo.Pool
	servicesrp repo.Services
}

func New(p repo.Pool, s repo.Services) *UseCase {
	return &UseCase{pool: p, servicesrp: s}
}

func adminOnly(actor model.Actor) error {
	if actor.IsAdmin() {
		return nil
	}
	return cerr.Authorization(errors.New("admin role is required"))
}

func validate(s *model.AdditionalService) error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return errors.New("name must not be empty")
	case s.Price.IsNegative():
		return errors.New("price must not be negative")
	}
	return s.Type.Validate()
}

// List returns the active services. Inactive (soft-deleted) services
// are included if includeInactive is true.
func (uc *UseCase) List(
	ctx context.Context, includeInactive bool,
) (list []model.AdditionalService, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		list, err = uc.servicesrp.Conn(c).List(ctx, includeInactive)
		return err
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (uc *UseCase) Get(
	ctx context.Context, sid uuid.UUID,
) (s *model.AdditionalService, err error) {
	err = uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		s, err = uc.servicesrp.Conn(c).FindByID(ctx, sid)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Create lets an admin add the s service to the catalog as an active
// service.
func (uc *UseCase) Create(
	ctx context.Context, actor model.Actor, s model.AdditionalService,
) (created *model.AdditionalService, err error) {
	if err = adminOnly(actor); err != nil {
		return nil, err
	}
	s.Active = true
	if err = validate(&s); err != nil {
		return nil, cerr.BadRequest(err)
	}
	err = uc.inTx(ctx, func(ctx context.Context, q repo.ServicesTxQueryer) error {
		created, err = q.Create(ctx, &s)
		return err
	})
	if err != nil {
		return nil, err
	}
	log.Info(ctx, "service created", log.UUID("service", created.ID))
	return created, nil
}

// Update lets an admin change the non-nil fields of p in the sid
// service.
func (uc *UseCase) Update(
	ctx context.Context,
	actor model.Actor,
	sid uuid.UUID,
	p model.ServicePatch,
) (updated *model.AdditionalService, err error) {
	if err = adminOnly(actor); err != nil {
		return nil, err
	}
	err = uc.inTx(ctx, func(ctx context.Context, q repo.ServicesTxQueryer) error {
		s, err := q.FindByID(ctx, sid)
		if err != nil {
			return err
		}
		p.Apply(s)
		if err := validate(s); err != nil {
			return cerr.BadRequest(err)
		}
		updated, err = q.Update(ctx, s)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Deactivate lets an admin hide the sid service from new bookings.
// Existing bookings keep their snapshot of the service.
func (uc *UseCase) Deactivate(
	ctx context.Context, actor model.Actor, sid uuid.UUID,
) error {
	if err := adminOnly(actor); err != nil {
		return err
	}
	err := uc.inTx(ctx, func(ctx context.Context, q repo.ServicesTxQueryer) error {
		return q.Deactivate(ctx, sid)
	})
	if err != nil {
		return fmt.Errorf("deactivating service: %w", err)
	}
	log.Info(ctx, "service deactivated", log.UUID("service", sid))
	return nil
}

func (uc *UseCase) inTx(
	ctx context.Context,
	f func(ctx context.Context, q repo.ServicesTxQueryer) error,
) error {
	return uc.pool.Conn(ctx, func(ctx context.Context, c repo.Conn) error {
		return c.Tx(ctx, func(ctx context.Context, tx repo.Tx) error {
			return f(ctx, uc.servicesrp.Tx(tx))
		})
	})
}
