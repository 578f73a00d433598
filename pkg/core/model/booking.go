// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

// Booking states. A booking starts as pending, may be approved to
// become active, and ends up as completed or cancelled. The confirmed
// status is only kept for the rows which were stored by older releases
// and behaves like active; it is never produced anymore.
const (
	BookingPending   BookingStatus = "pending"
	BookingActive    BookingStatus = "active"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

// ParseBookingStatus converts s to a BookingStatus, returning an error
// if s is not one of the known states.
func ParseBookingStatus(s string) (BookingStatus, error) {
	bs := BookingStatus(s)
	if err := bs.Validate(); err != nil {
		return "", err
	}
	return bs, nil
}

// Validate returns an error if bs is not a known booking state.
func (bs BookingStatus) Validate() error {
	switch bs {
	case BookingPending, BookingActive, BookingConfirmed,
		BookingCancelled, BookingCompleted:
		return nil
	default:
		return fmt.Errorf("unknown booking status: %q", string(bs))
	}
}

func (bs BookingStatus) String() string {
	return string(bs)
}

// BlocksCalendar reports if a booking in the bs state reserves its
// date range, so other bookings of the same car may not overlap it.
func (bs BookingStatus) BlocksCalendar() bool {
	return bs == BookingPending || bs == BookingActive
}

// Terminal reports if no transition may leave the bs state.
func (bs BookingStatus) Terminal() bool {
	return bs == BookingCancelled || bs == BookingCompleted
}

// CanTransition reports if a booking may move from bs to the next
// state. Staying in the same state is not a transition.
func (bs BookingStatus) CanTransition(next BookingStatus) bool {
	switch bs {
	case BookingPending:
		return next == BookingActive || next == BookingCancelled
	case BookingActive, BookingConfirmed:
		return next == BookingCompleted || next == BookingCancelled
	default:
		return false
	}
}

// PaymentStatus is the payment state of a booking. It is tracked
// without any payment provider integration and is only changed by
// administrators.
type PaymentStatus string

// Payment states.
const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// Validate returns an error if ps is not a known payment state.
func (ps PaymentStatus) Validate() error {
	switch ps {
	case PaymentPending, PaymentPaid, PaymentCompleted, PaymentRefunded:
		return nil
	default:
		return fmt.Errorf("unknown payment status: %q", string(ps))
	}
}

// BookedService is a snapshot of an additional service which was
// selected for a booking. Name and Price are copied at booking time,
// so later catalog changes do not alter the booking total.
type BookedService struct {
	ServiceID uuid.UUID       `json:"serviceId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
}

// Booking reserves one unit of a car for a date range.
//
// StockHeld is true while the booking owns one unit of the car stock.
// It is set on creation and cleared when the unit is given back by
// cancellation (or when the booking row is deleted), so a unit is
// never returned twice.
type Booking struct {
	ID              uuid.UUID       `json:"id"`
	CarID           uuid.UUID       `json:"vehicleId"`
	UserID          uuid.UUID       `json:"userId"`
	StartDate       time.Time       `json:"startDate"`
	EndDate         time.Time       `json:"endDate"`
	Status          BookingStatus   `json:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	Services        []BookedService `json:"services"`
	PickupLocation  *Location       `json:"pickupLocation,omitempty"`
	DropoffLocation *Location       `json:"dropoffLocation,omitempty"`
	Extras          map[string]any  `json:"extras,omitempty"`
	StockHeld       bool            `json:"stockHeld"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Range returns the rental period of b.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// BookingRequest contains the caller provided fields for creation of
// a new booking. All other fields are computed by the server.
type BookingRequest struct {
	CarID           uuid.UUID
	Range           DateRange
	ServiceIDs      []uuid.UUID
	PickupLocation  *Location
	DropoffLocation *Location
	Extras          map[string]any
}

// BookingState is the mutable part of a booking which is rewritten
// by the lifecycle transitions.
type BookingState struct {
	Status        BookingStatus
	PaymentStatus PaymentStatus
	StockHeld     bool
}

// State returns the current BookingState of b.
func (b *Booking) State() BookingState {
	return BookingState{
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		StockHeld:     b.StockHeld,
	}
}
