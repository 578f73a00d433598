// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package memrepo provides in-memory implementations of the repo
// interfaces for the use cases tests. A Store keeps all tables in maps
// and serializes the transactions with one mutex, restoring a snapshot
// of the tables when a transaction handler fails, so the use cases
// observe the same commit and rollback semantics as with a database.
package memrepo

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/repo"
)

var errRawSQL = errors.New("raw statements are not supported in memory")

type tables struct {
	cars     map[uuid.UUID]model.Car
	bookings map[uuid.UUID]model.Booking
	reviews  map[uuid.UUID]model.Review
	services map[uuid.UUID]model.AdditionalService
	users    map[uuid.UUID]model.User
}

func (t *tables) clone() tables {
	return tables{
		cars:     cloneMap(t.cars),
		bookings: cloneMap(t.bookings),
		reviews:  cloneMap(t.reviews),
		services: cloneMap(t.services),
		users:    cloneMap(t.users),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	c := make(map[K]V, len(m))
	for k, v := range m {
		c[k] = v
	}
	return c
}

// Store is an in-memory database. Its zero value is not usable;
// use the New function.
type Store struct {
	mu  sync.Mutex
	t   tables
	now func() time.Time

	failAt  int   // 1-based index of the next failing operation
	failErr error // returned by the failAt-th operation
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		t: tables{
			cars:     map[uuid.UUID]model.Car{},
			bookings: map[uuid.UUID]model.Booking{},
			reviews:  map[uuid.UUID]model.Review{},
			services: map[uuid.UUID]model.AdditionalService{},
			users:    map[uuid.UUID]model.User{},
		},
		now: time.Now,
	}
}

// Conn implements the repo.Pool interface.
func (s *Store) Conn(ctx context.Context, h repo.ConnHandler) error {
	return h(ctx, &Conn{s: s})
}

// Conn is an in-memory connection. Its queryers take the store mutex
// for each operation.
type Conn struct {
	s *Store
}

// Tx runs h while holding the store mutex, restoring the tables if h
// returns an error or panics.
func (c *Conn) Tx(ctx context.Context, h repo.TxHandler) (err error) {
	s := c.s
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.t.clone()
	defer func() {
		if r := recover(); r != nil {
			s.t = snapshot
			err = fmt.Errorf("panicked: %v", r)
			return
		}
		if err != nil {
			s.t = snapshot
			err = fmt.Errorf("handler: %w", err)
		}
	}()
	return h(ctx, &Tx{s: s})
}

func (c *Conn) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errRawSQL
}

func (c *Conn) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errRawSQL
}

func (c *Conn) IsConn() {
}

// Tx is an in-memory transaction. The store mutex is held by its
// Conn.Tx caller during its lifetime.
type Tx struct {
	s *Store
}

func (tx *Tx) Exec(context.Context, string, ...any) (int64, error) {
	return 0, errRawSQL
}

func (tx *Tx) Query(context.Context, string, ...any) (repo.Rows, error) {
	return nil, errRawSQL
}

func (tx *Tx) IsTx() {
}

// queryer runs operations on a Store, taking its mutex if the
// queryer was created for a Conn (and not a Tx).
type queryer struct {
	s       *Store
	locking bool
}

func newQueryer(s *Store, c any) queryer {
	switch c.(type) {
	case *Conn:
		return queryer{s: s, locking: true}
	case *Tx:
		return queryer{s: s}
	default:
		panic(fmt.Sprintf("unsupported connection type: %T", c))
	}
}

func (q queryer) do(f func(t *tables) error) error {
	if q.locking {
		q.s.mu.Lock()
		defer q.s.mu.Unlock()
	}
	if q.s.failAt > 0 {
		q.s.failAt--
		if q.s.failAt == 0 {
			return q.s.failErr
		}
	}
	return f(&q.s.t)
}

// SetClock replaces the function which is used for timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

// FailAt makes the n-th next repository operation fail with err,
// simulating a database failure in the middle of a use case.
func (s *Store) FailAt(n int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failAt, s.failErr = n, err
}
