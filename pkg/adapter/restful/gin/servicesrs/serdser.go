// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package servicesrs

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/momeni/car-rental/pkg/adapter/restful/gin/serdser"
	"github.com/momeni/car-rental/pkg/core/model"
	"github.com/shopspring/decimal"
)

type createServiceReq struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Type        string          `json:"type" binding:"required,oneof=insurance equipment driver other"`
	Active      *bool           `json:"active"`
}

type updateServiceReq struct {
	Name        *string          `json:"name" binding:"omitempty,min=1"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Type        *string          `json:"type" binding:"omitempty,oneof=insurance equipment driver other"`
	Active      *bool            `json:"active"`
}

func negativePrice(c *gin.Context, p *decimal.Decimal) bool {
	if p == nil || !p.IsNegative() {
		return false
	}
	serdser.SerFields(c, map[string][]string{
		"price": {"The price may not be negative."},
	})
	return true
}

// DserCreateServiceReq deserializes a service creation request. New
// services are active unless stated otherwise.
func DserCreateServiceReq(c *gin.Context) *model.AdditionalService {
	req := &createServiceReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	if negativePrice(c, &req.Price) {
		return nil
	}
	s := &model.AdditionalService{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Type:        model.ServiceType(req.Type),
		Active:      true,
	}
	if req.Active != nil {
		s.Active = *req.Active
	}
	return s
}

func DserUpdateServiceReq(c *gin.Context) *model.ServicePatch {
	req := &updateServiceReq{}
	if ok := serdser.Bind(c, req, binding.JSON); !ok {
		return nil
	}
	if negativePrice(c, req.Price) {
		return nil
	}
	p := &model.ServicePatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Active:      req.Active,
	}
	if req.Type != nil {
		st := model.ServiceType(*req.Type)
		p.Type = &st
	}
	return p
}
