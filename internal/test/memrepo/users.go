// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/cerr"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

type usersRepo struct {
	s *Store
}

// Users returns a repo.Users which is backed by s.
func (s *Store) Users() repo.Users {
	return usersRepo{s: s}
}

func (r usersRepo) Conn(c repo.Conn) repo.UsersConnQueryer {
	return usersQueryer{newQueryer(r.s, c)}
}

func (r usersRepo) Tx(tx repo.Tx) repo.UsersTxQueryer {
	return usersQueryer{newQueryer(r.s, tx)}
}

type usersQueryer struct {
	queryer
}

func userNotFound() error {
	return cerr.NotFound(errors.New("user not found"))
}

func (q usersQueryer) FindByID(
	_ context.Context, userID uuid.UUID,
) (u *model.User, err error) {
	err = q.do(func(t *tables) error {
		uu, ok := t.users[userID]
		if !ok {
			return userNotFound()
		}
		u = &uu
		return nil
	})
	return
}

func (q usersQueryer) FindByEmail(
	_ context.Context, email string,
) (u *model.User, err error) {
	err = q.do(func(t *tables) error {
		for _, uu := range t.users {
			if uu.Email == email {
				u = &uu
				return nil
			}
		}
		return userNotFound()
	})
	return
}

func (q usersQueryer) List(_ context.Context) (list []model.User, err error) {
	err = q.do(func(t *tables) error {
		for _, u := range t.users {
			list = append(list, u)
		}
		return nil
	})
	sort.Slice(list, func(i, j int) bool {
		return list[i].Email < list[j].Email
	})
	return
}

func (q usersQueryer) Create(
	_ context.Context, u *model.User,
) (created *model.User, err error) {
	err = q.do(func(t *tables) error {
		for _, old := range t.users {
			if old.Email == u.Email {
				return cerr.Conflict(
					errors.New("email is already registered"),
				)
			}
		}
		uu := *u
		uu.ID = uuid.New()
		uu.CreatedAt = q.s.now()
		uu.UpdatedAt = uu.CreatedAt
		t.users[uu.ID] = uu
		created = &uu
		return nil
	})
	return
}

func (q usersQueryer) UpdateProfile(
	_ context.Context, u *model.User,
) (updated *model.User, err error) {
	err = q.do(func(t *tables) error {
		uu, ok := t.users[u.ID]
		if !ok {
			return userNotFound()
		}
		uu.Name, uu.Phone = u.Name, u.Phone
		uu.UpdatedAt = q.s.now()
		t.users[u.ID] = uu
		updated = &uu
		return nil
	})
	return
}

// Sessions is an in-memory repo.Sessions.
type Sessions struct {
	mu      sync.Mutex
	now     func() time.Time
	entries map[string]session
}

type session struct {
	userID  uuid.UUID
	expires time.Time
}

// NewSessions creates an empty Sessions store which uses now for
// checking the tokens expiration.
func NewSessions(now func() time.Time) *Sessions {
	return &Sessions{now: now, entries: map[string]session{}}
}

func (s *Sessions) Store(
	_ context.Context, token string, userID uuid.UUID, ttl time.Duration,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[token] = session{userID: userID, expires: s.now().Add(ttl)}
	return nil
}

func (s *Sessions) Take(_ context.Context, token string) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[token]
	delete(s.entries, token)
	if !ok || !s.now().Before(e.expires) {
		return uuid.Nil, cerr.Authentication(
			errors.New("refresh token is invalid or expired"),
		)
	}
	return e.userID, nil
}

func (s *Sessions) Revoke(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}

// Len returns the number of stored tokens, including the expired ones.
func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
