// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package bookingsrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/momeni/car-rental/pkg/core/usecase/bookingsuc"
)

type coordinateReq struct {
	Lat float64 `json:"lat" binding:"latitude"`
	Lon float64 `json:"lon" binding:"longitude"`
}

type locationReq struct {
	Address     string        `json:"address" binding:"required"`
	Coordinates coordinateReq `json:"coordinates"`
}

func (lr *locationReq) toModel() *model.Location {
	if lr == nil {
		return nil
	}
	return &model.Location{
		Address: lr.Address,
		Coordinates: model.Coordinate{
			Lat: lr.Coordinates.Lat, Lon: lr.Coordinates.Lon,
		},
	}
}

type createBookingReq struct {
	VehicleID       string         `json:"vehicleId" binding:"required,uuid"`
	StartDate       string         `json:"startDate" binding:"required"`
	EndDate         string         `json:"endDate" binding:"required"`
	Services        []string       `json:"additionalServices" binding:"omitempty,dive,uuid"`
	LegacyServices  []string       `json:"services" binding:"omitempty,dive,uuid"`
	PickupLocation  *locationReq   `json:"pickupLocation"`
	DropoffLocation *locationReq   `json:"dropoffLocation"`
	Extras          map[string]any `json:"extras"`
}

type updateBookingReq struct {
	Status        *string `json:"status" binding:"omitempty,oneof=pending active confirmed cancelled completed"`
	PaymentStatus *string `json:"paymentStatus" binding:"omitempty,oneof=pending paid completed refunded"`
}

// DserCreateBookingReq deserializes a booking creation request. The
// dates may be given as 2006-01-02 dates or RFC 3339 time stamps.
// Additional service IDs are read from the additionalServices array
// and the older services array is merged into them.
func DserCreateBookingReq(c *gin.Context) *model.BookingRequest {
	req := &createBookingReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	var errs map[string][]string
	val := &model.BookingRequest{
		CarID:           uuid.MustParse(req.VehicleID),
		PickupLocation:  req.PickupLocation.toModel(),
		DropoffLocation: req.DropoffLocation.toModel(),
		Extras:          req.Extras,
	}
	var err error
	val.Range.Start, err = serdser.ParseDate(req.StartDate)
	if err != nil {
		serdser.AddErr(&errs, "startDate", err.Error())
	}
	val.Range.End, err = serdser.ParseDate(req.EndDate)
	if err != nil {
		serdser.AddErr(&errs, "endDate", err.Error())
	}
	for _, s := range append(req.Services, req.LegacyServices...) {
		val.ServiceIDs = append(val.ServiceIDs, uuid.MustParse(s))
	}
	if errs != nil {
		serdser.SerFields(c, errs)
		return nil
	}
	return val
}

// DserUpdateBookingReq deserializes a booking status update request.
// At least one of the status or paymentStatus fields must be present.
func DserUpdateBookingReq(c *gin.Context) *bookingsuc.StatusUpdate {
	req := &updateBookingReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	if req.Status == nil && req.PaymentStatus == nil {
		serdser.SerFields(c, map[string][]string{
			"status": {"One of status or paymentStatus is required."},
		})
		return nil
	}
	u := &bookingsuc.StatusUpdate{}
	if req.Status != nil {
		s := model.BookingStatus(*req.Status)
		u.Status = &s
	}
	if req.PaymentStatus != nil {
		ps := model.PaymentStatus(*req.PaymentStatus)
		u.PaymentStatus = &ps
	}
	return u
}

// DserStatusQuery parses the optional status query parameter.
func DserStatusQuery(c *gin.Context) (*model.BookingStatus, bool) {
	raw, ok := c.GetQuery("status")
	if !ok || raw == "" {
		return nil, true
	}
	s, err := model.ParseBookingStatus(raw)
	if err != nil {
		serdser.SerFields(c, map[string][]string{
			"status": {err.Error()},
		})
		return nil, false
	}
	return &s, true
}
