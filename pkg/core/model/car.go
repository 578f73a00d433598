// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package model defines the inner most layer of the Clean Architecture
// containing the business-level models, also called entities or domain.
// This layer may not depend on outter layers, while all other layers
// may depend on it.
// By the way, it is acceptable to annotate structs in this package with
// multiple frameworks dependent tags (e.g., json tags) since adding
// more tags does not complicate definition of a struct, but can prevent
// unnecessary structs duplication. The database-specific structs are
// kept in the adapter layer, mapping these models to table columns.
package model

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Car models a rentable vehicle type. A car record does not represent
// one physical vehicle; its Stock counts how many identical vehicles
// may be rented concurrently.
//
// The Availability flag is kept false whenever Stock is zero. Booking
// creation decrements Stock (clearing Availability when it reaches
// zero) and cancellation or deletion of a booking which holds a unit
// increments it again (setting Availability).
type Car struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Brand           string          `json:"brand"`
	Model           string          `json:"model"`
	Year            int             `json:"year"`
	Category        string          `json:"category"`
	Seats           int             `json:"seats"`
	Transmission    string          `json:"transmission"`
	FuelType        string          `json:"fuelType"`
	PricePerDay     decimal.Decimal `json:"pricePerDay"`
	Stock           int             `json:"stock"`
	Availability    bool            `json:"availability"`
	Rating          float64         `json:"rating"`
	NumberOfReviews int             `json:"numberOfReviews"`
	Location        Coordinate      `json:"location"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Validate checks the administrator-provided fields of c.
func (c *Car) Validate() error {
	switch {
	case strings.TrimSpace(c.Name) == "":
		return errors.New("name must not be empty")
	case !c.PricePerDay.IsPositive():
		return errors.New("price per day must be positive")
	case c.Stock < 0:
		return fmt.Errorf("stock (%d) is negative", c.Stock)
	case c.Seats < 0:
		return fmt.Errorf("seats (%d) is negative", c.Seats)
	case c.Stock == 0 && c.Availability:
		return errors.New("a car without stock may not be available")
	}
	return c.Location.Validate()
}

// Rentable reports if a new booking may take one unit of this car.
func (c *Car) Rentable() bool {
	return c.Availability && c.Stock > 0
}

// CarPatch lists the optional fields of a car which may be updated
// by an administrator. The nil fields are left unchanged.
// Stock and Availability are changed together, so setting Stock to
// zero also clears the Availability flag.
type CarPatch struct {
	Name         *string
	Brand        *string
	Model        *string
	Year         *int
	Category     *string
	Seats        *int
	Transmission *string
	FuelType     *string
	PricePerDay  *decimal.Decimal
	Stock        *int
	Location     *Coordinate
}

// Apply updates the c car with the non-nil fields of p.
func (p CarPatch) Apply(c *Car) {
	setIf(&c.Name, p.Name)
	setIf(&c.Brand, p.Brand)
	setIf(&c.Model, p.Model)
	setIf(&c.Year, p.Year)
	setIf(&c.Category, p.Category)
	setIf(&c.Seats, p.Seats)
	setIf(&c.Transmission, p.Transmission)
	setIf(&c.FuelType, p.FuelType)
	setIf(&c.PricePerDay, p.PricePerDay)
	setIf(&c.Location, p.Location)
	if p.Stock != nil {
		c.Stock = *p.Stock
		if c.Stock == 0 {
			c.Availability = false
		}
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
