// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package carsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/shopspring/decimal"
)

type coordinateReq struct {
	Lat *float64 `json:"lat" binding:"required,latitude"`
	Lon *float64 `json:"lon" binding:"required,longitude"`
}

func (cr *coordinateReq) toModel() *model.Coordinate {
	if cr == nil {
		return nil
	}
	return &model.Coordinate{Lat: *cr.Lat, Lon: *cr.Lon}
}

type createCarReq struct {
	Name         string          `json:"name" binding:"required"`
	Brand        string          `json:"brand" binding:"required"`
	Model        string          `json:"model" binding:"required"`
	Year         int             `json:"year" binding:"required,gte=1900"`
	Category     string          `json:"category"`
	Seats        int             `json:"seats" binding:"gte=0"`
	Transmission string          `json:"transmission"`
	FuelType     string          `json:"fuelType"`
	PricePerDay  decimal.Decimal `json:"pricePerDay"`
	Stock        *int            `json:"stock" binding:"required,gte=0"`
	Availability *bool           `json:"availability"`
	Location     *coordinateReq  `json:"location"`
}

type updateCarReq struct {
	Name         *string          `json:"name" binding:"omitempty,min=1"`
	Brand        *string          `json:"brand" binding:"omitempty,min=1"`
	Model        *string          `json:"model" binding:"omitempty,min=1"`
	Year         *int             `json:"year" binding:"omitempty,gte=1900"`
	Category     *string          `json:"category"`
	Seats        *int             `json:"seats" binding:"omitempty,gte=0"`
	Transmission *string          `json:"transmission"`
	FuelType     *string          `json:"fuelType"`
	PricePerDay  *decimal.Decimal `json:"pricePerDay"`
	Stock        *int             `json:"stock" binding:"omitempty,gte=0"`
	Location     *coordinateReq   `json:"location"`
}

// DserCreateCarReq deserializes a car creation request. A car is made
// available by default if it has some stock.
func DserCreateCarReq(c *gin.Context) *model.Car {
	req := &createCarReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	serdser.Assert(
		&errs, req.PricePerDay.IsPositive(),
		"pricePerDay", "The pricePerDay must be positive.",
	)
	if errs != nil {
		serdser.SerFields(c, errs)
		return nil
	}
	car := &model.Car{
		Name:         req.Name,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Category:     req.Category,
		Seats:        req.Seats,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		PricePerDay:  req.PricePerDay,
		Stock:        *req.Stock,
		Availability: *req.Stock > 0,
	}
	if req.Availability != nil {
		car.Availability = *req.Availability && car.Stock > 0
	}
	if loc := req.Location.toModel(); loc != nil {
		car.Location = *loc
	}
	return car
}

// DserUpdateCarReq deserializes a car update request.
func DserUpdateCarReq(c *gin.Context) *model.CarPatch {
	req := &updateCarReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	if req.PricePerDay != nil && !req.PricePerDay.IsPositive() {
		serdser.SerFields(c, map[string][]string{
			"pricePerDay": {"The pricePerDay must be positive."},
		})
		return nil
	}
	return &model.CarPatch{
		Name:         req.Name,
		Brand:        req.Brand,
		Model:        req.Model,
		Year:         req.Year,
		Category:     req.Category,
		Seats:        req.Seats,
		Transmission: req.Transmission,
		FuelType:     req.FuelType,
		PricePerDay:  req.PricePerDay,
		Stock:        req.Stock,
		Location:     req.Location.toModel(),
	}
}
