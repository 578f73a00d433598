// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

type servicesRepo struct {
	s *Store
}

// Services returns a repo.Services which is backed by s.
func (s *Store) Services() repo.Services {
	return servicesRepo{s: s}
}

func (r servicesRepo) Conn(c repo.Conn) repo.ServicesConnQueryer {
	return servicesQueryer{newQueryer(r.s, c)}
}

func (r servicesRepo) Tx(tx repo.Tx) repo.ServicesTxQueryer {
	return servicesQueryer{newQueryer(r.s, tx)}
}

type servicesQueryer struct {
	queryer
}

func serviceNotFound() error {
	return cerr.NotFound(errors.New("service not found"))
}

func (q servicesQueryer) FindByID(
	_ context.Context, serviceID uuid.UUID,
) (s *model.AdditionalService, err error) {
	err = q.do(func(t *tables) error {
		ss, ok := t.services[serviceID]
		if !ok {
			return serviceNotFound()
		}
		s = &ss
		return nil
	})
	return
}

func (q servicesQueryer) List(
	_ context.Context, includeInactive bool,
) (list []model.AdditionalService, err error) {
	err = q.do(func(t *tables) error {
		for _, s := range t.services {
			if includeInactive || s.Active {
				list = append(list, s)
			}
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].Name < list[j].Name
	})
	return
}

func (q servicesQueryer) FindActive(
	_ context.Context, ids []uuid.UUID,
) (list []model.AdditionalService, err error) {
	err = q.do(func(t *tables) error {
		for _, id := range ids {
			if s, ok := t.services[id]; ok && s.Active {
				list = append(list, s)
			}
		}
		return nil
	})
	return
}

func (q servicesQueryer) Create(
	_ context.Context, s *model.AdditionalService,
) (created *model.AdditionalService, err error) {
	err = q.do(func(t *tables) error {
		ss := *s
		ss.ID = uuid.New()
		ss.CreatedAt = q.s.now()
		ss.UpdatedAt = ss.CreatedAt
		t.services[ss.ID] = ss
		created = &ss
		return nil
	})
	return
}

func (q servicesQueryer) Update(
	_ context.Context, s *model.AdditionalService,
) (updated *model.AdditionalService, err error) {
	err = q.do(func(t *tables) error {
		old, ok := t.services[s.ID]
		if !ok {
			return serviceNotFound()
		}
		ss := *s
		ss.CreatedAt = old.CreatedAt
		ss.UpdatedAt = q.s.now()
		t.services[s.ID] = ss
		updated = &ss
		return nil
	})
	return
}

func (q servicesQueryer) Deactivate(
	_ context.Context, serviceID uuid.UUID,
) error {
	return q.do(func(t *tables) error {
		s, ok := t.services[serviceID]
		if !ok {
			return serviceNotFound()
		}
		s.Active = false
		s.UpdatedAt = q.s.now()
		t.services[serviceID] = s
		return nil
	})
}
