// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package memrepo

import (
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/core/model"
)

// AddCar stores c directly, assigning an id if it has none.
func (s *Store) AddCar(c model.Car) model.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	s.t.cars[c.ID] = c
	return c
}

// Car returns the current state of the carID car, or a zero Car
// if it does not exist.
func (s *Store) Car(carID uuid.UUID) model.Car {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.t.cars[carID]
}

// AddService stores svc directly, assigning an id if it has none.
func (s *Store) AddService(svc model.AdditionalService) model.AdditionalService {
	s.mu.Lock()
	defer s.mu.Unlock()
	if svc.ID == uuid.Nil {
		svc.ID = uuid.New()
	}
	s.t.services[svc.ID] = svc
	return svc
}

// AddBooking stores b directly, assigning an id if it has none.
func (s *Store) AddBooking(b model.Booking) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	s.t.bookings[b.ID] = b
	return b
}

// Booking returns the current state of the bookingID booking and
// reports if it exists.
func (s *Store) Booking(bookingID uuid.UUID) (model.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.t.bookings[bookingID]
	return b, ok
}
