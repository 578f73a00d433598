// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package model

import "fmt"

// Coordinate represents a geographical location with a latitude and
// longitude. This struct is included in the Car struct as the home lot
// of a car and in the booking pickup/dropoff locations.
type Coordinate struct {
	Lat float64 `json:"lat"` // latitude in [-90, +90] range
	Lon float64 `json:"lon"` // longitude in [-180, +180] range
}

// Validate returns an error if c latitude or longitude are out of
// their acceptable ranges.
func (c Coordinate) Validate() error {
	if c.Lat < -90 || c.Lat > 90 {
		return fmt.Errorf("latitude %v is out of [-90, 90] range", c.Lat)
	}
	if c.Lon < -180 || c.Lon > 180 {
		return fmt.Errorf(
			"longitude %v is out of [-180, 180] range", c.Lon,
		)
	}
	return nil
}

// Location is a named place which a rented car is picked up from or
// dropped off at.
type Location struct {
	Address     string     `json:"address"`
	Coordinates Coordinate `json:"coordinates"`
}
